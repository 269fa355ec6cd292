package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Client is the display side of a user's root presence in a region.
type Client interface {
	Credential() SessionCredential
	Name() string
	SendMoneyBalance(transactionID uuid.UUID, success bool, description string, balance int)
	SendAlertMessage(message string)
	SendAgentAlertMessage(message string, modal bool)
	SendInstantMessage(message InstantMessage)
	SendPayPrice(objectID uuid.UUID, price PayPrice)
	SendEconomyData(data EconomyData)
}

type SceneObject interface {
	ID() uuid.UUID
	LocalID() uint32
	Name() string
	OwnerID() uuid.UUID
	PayPrice() PayPrice
}

// Region is one simulated region hosted by this process.
type Region interface {
	Handle() uint64
	ID() uuid.UUID
	ServerURI() string
	ObjectCapacity() int
	// RootPresence returns the non-child presence of the user, if any.
	RootPresence(userID uuid.UUID) (Client, bool)
	Object(objectID uuid.UUID) (SceneObject, bool)
	ObjectByLocalID(localID uint32) (SceneObject, bool)
	AccountName(userID uuid.UUID) string
	BuyObject(ctx context.Context, buyer Client, req ObjectBuyRequest) bool
}

// SessionDirectory resolves users and objects across all hosted regions.
type SessionDirectory interface {
	FindSession(userID uuid.UUID) (Client, bool)
	FindRegion(userID uuid.UUID) (Region, bool)
	FindObject(objectID uuid.UUID) (SceneObject, Region, bool)
}

// LedgerCaller performs one remote procedure call against the money server
// and decodes the result into reply.
type LedgerCaller interface {
	Kind() string
	Call(ctx context.Context, method string, params any, reply any) error
}

type ObjectPaidHandler interface {
	ObjectPaid(ctx context.Context, event ObjectPaid)
}

type ObjectPaidFunc func(ctx context.Context, event ObjectPaid)

func (f ObjectPaidFunc) ObjectPaid(ctx context.Context, event ObjectPaid) {
	if f != nil {
		f(ctx, event)
	}
}

// CallbackBridge is what the inbound protocol handlers need from the money
// service.
type CallbackBridge interface {
	Directory() SessionDirectory
	CacheBalance(userID uuid.UUID, balance int)
	QueryBalance(ctx context.Context, client Client) (int, error)
	AddBankerMoney(ctx context.Context, bankerID uuid.UUID, amount int, regionHandle uint64) bool
	SendMoneyBalance(ctx context.Context, avatarID uuid.UUID, amount int, secretToken string) bool
	NotifyObjectPaid(ctx context.Context, event ObjectPaid)
}

// MoneyModule is the world-facing surface of the money service.
type MoneyModule interface {
	AuthorizeAndTransfer(ctx context.Context, req TransferRequest) bool
	ClientLogin(ctx context.Context, userID uuid.UUID) LoginResult
	ClientLogout(ctx context.Context, userID uuid.UUID) bool
	MoneyTransfer(ctx context.Context, event MoneyTransferEvent) bool
	ObjectBuy(ctx context.Context, req ObjectBuyRequest) bool
	ValidateLandBuy(ctx context.Context, buy *LandBuy) bool
	ProcessLandBuy(ctx context.Context, buy *LandBuy) bool
	RequestBalance(ctx context.Context, req BalanceRequest) bool
	RequestPayPrice(ctx context.Context, userID uuid.UUID, objectID uuid.UUID) bool
	SendEconomyData(ctx context.Context, userID uuid.UUID) bool
	ObjectGiveMoney(ctx context.Context, objectID uuid.UUID, fromID uuid.UUID, toID uuid.UUID, amount int) bool
	ApplyCharge(ctx context.Context, userID uuid.UUID, amount int, kind TransactionType, description string) bool
	ApplyUploadCharge(ctx context.Context, userID uuid.UUID, amount int, description string) bool
	Transfer(ctx context.Context, from uuid.UUID, to uuid.UUID, regionHandle uint64, amount int, kind TransactionType, description string) bool
	TransferByObject(ctx context.Context, from uuid.UUID, to uuid.UUID, objectID uuid.UUID, amount int, kind TransactionType, description string) bool
	GetBalance(ctx context.Context, userID uuid.UUID) int
	GetTransaction(ctx context.Context, client Client, transactionID uuid.UUID) (TransactionRecord, error)
	AmountCovered(ctx context.Context, userID uuid.UUID, amount int) bool
	UploadCovered(ctx context.Context, userID uuid.UUID) bool
	UploadCharge() int
	GroupCreationCharge() int
	EconomyData(userID uuid.UUID) EconomyData
}
