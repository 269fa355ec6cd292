package core

import (
	"crypto/subtle"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// UnavailableMessage is the message carried by the synthetic reply produced
// when the ledger cannot be reached.
const UnavailableMessage = "Unable to manage your money at this time. Purchases may be unavailable"

// TransactionType is the ledger's classification code for a money movement.
type TransactionType int

const (
	TransactionGroupCreate    TransactionType = 1002
	TransactionGroupJoin      TransactionType = 1004
	TransactionUploadCharge   TransactionType = 1101
	TransactionLandAuction    TransactionType = 1102
	TransactionObjectSale     TransactionType = 5000
	TransactionGift           TransactionType = 5001
	TransactionLandSale       TransactionType = 5002
	TransactionReferBonus     TransactionType = 5003
	TransactionInventorySale  TransactionType = 5004
	TransactionRefundPurchase TransactionType = 5005
	TransactionLandPassSale   TransactionType = 5006
	TransactionDwellBonus     TransactionType = 5007
	TransactionPayObject      TransactionType = 5008
	TransactionObjectPays     TransactionType = 5009
	TransactionBuyMoney       TransactionType = 5010
	TransactionMoveMoney      TransactionType = 5011
)

var transactionTypeNames = map[TransactionType]string{
	TransactionGroupCreate:    "group_create",
	TransactionGroupJoin:      "group_join",
	TransactionUploadCharge:   "upload_charge",
	TransactionLandAuction:    "land_auction",
	TransactionObjectSale:     "object_sale",
	TransactionGift:           "gift",
	TransactionLandSale:       "land_sale",
	TransactionReferBonus:     "refer_bonus",
	TransactionInventorySale:  "inventory_sale",
	TransactionRefundPurchase: "refund_purchase",
	TransactionLandPassSale:   "land_pass_sale",
	TransactionDwellBonus:     "dwell_bonus",
	TransactionPayObject:      "pay_object",
	TransactionObjectPays:     "object_pays",
	TransactionBuyMoney:       "buy_money",
	TransactionMoveMoney:      "move_money",
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return "transaction_" + strconv.Itoa(int(t))
}

// SessionCredential is the triple that proves a request comes from a live
// login session.
type SessionCredential struct {
	UserID          uuid.UUID
	SessionID       uuid.UUID
	SecureSessionID uuid.UUID
}

// Matches compares the canonical string forms of every field. All three must
// match; there is no partial authentication.
func (c SessionCredential) Matches(other SessionCredential) bool {
	return c.MatchesClaim(other.UserID.String(), other.SessionID.String(), other.SecureSessionID.String())
}

// MatchesClaim compares raw claimed identifiers byte for byte against the
// canonical form of the live credential.
func (c SessionCredential) MatchesClaim(userID string, sessionID string, secureSessionID string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.UserID.String()), []byte(userID)) == 1
	sessionOK := subtle.ConstantTimeCompare([]byte(c.SessionID.String()), []byte(sessionID)) == 1
	secureOK := subtle.ConstantTimeCompare([]byte(c.SecureSessionID.String()), []byte(secureSessionID)) == 1
	return userOK && sessionOK && secureOK
}

// MoneyOperation describes one requested movement of currency. It is never
// persisted locally.
type MoneyOperation struct {
	Kind         TransactionType
	Sender       uuid.UUID
	Receiver     uuid.UUID
	Amount       int
	ObjectID     uuid.UUID
	RegionHandle uint64
	Description  string
}

// LedgerReply is the interpreted answer of the money server.
type LedgerReply struct {
	Success          bool
	Balance          *int
	Message          string
	ErrorURI         string
	TransportFailure bool
}

func (r LedgerReply) Rejected() bool {
	return !r.Success && !r.TransportFailure
}

func unavailableReply() LedgerReply {
	return LedgerReply{
		Success:          false,
		Message:          UnavailableMessage,
		TransportFailure: true,
	}
}

type TransactionRecord struct {
	TransactionID uuid.UUID
	Amount        int
	Kind          TransactionType
	Description   string
	Sender        uuid.UUID
	Receiver      uuid.UUID
}

type LoginResult struct {
	LoggedIn bool
	Balance  int
}

// TransferRequest is the input of the transaction authorizer.
type TransferRequest struct {
	Kind         TransactionType
	Sender       uuid.UUID
	Receiver     uuid.UUID
	Amount       int
	ObjectID     uuid.UUID
	RegionHandle uint64
	Description  string
	// Force skips the live-session and balance checks, used for payments
	// made by scripted objects on behalf of offline owners.
	Force bool
}

func (r TransferRequest) operation() MoneyOperation {
	return MoneyOperation{
		Kind:         r.Kind,
		Sender:       r.Sender,
		Receiver:     r.Receiver,
		Amount:       r.Amount,
		ObjectID:     r.ObjectID,
		RegionHandle: r.RegionHandle,
		Description:  r.Description,
	}
}

// MoneyTransferEvent is raised by the world when a client pays another
// party.
type MoneyTransferEvent struct {
	Sender      uuid.UUID
	Receiver    uuid.UUID
	Amount      int
	Kind        TransactionType
	Description string
}

type ObjectBuyRequest struct {
	Buyer      uuid.UUID
	SessionID  uuid.UUID
	GroupID    uuid.UUID
	CategoryID uuid.UUID
	LocalID    uint32
	SaleType   byte
	SalePrice  int
}

type BalanceRequest struct {
	AgentID       uuid.UUID
	SessionID     uuid.UUID
	TransactionID uuid.UUID
}

// LandBuy is the shared land purchase record handed between the validate
// and process phases of a parcel sale.
type LandBuy struct {
	mu sync.Mutex

	AgentID          uuid.UUID
	ParcelOwnerID    uuid.UUID
	ParcelLocalID    int
	ParcelPrice      int
	ParcelArea       int
	RegionHandle     uint64
	EconomyValidated bool
	TransactionID    int64
	AmountDebited    int
}

type LandBuySnapshot struct {
	AgentID          uuid.UUID
	ParcelPrice      int
	EconomyValidated bool
	TransactionID    int64
	AmountDebited    int
}

func (l *LandBuy) Snapshot() LandBuySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LandBuySnapshot{
		AgentID:          l.AgentID,
		ParcelPrice:      l.ParcelPrice,
		EconomyValidated: l.EconomyValidated,
		TransactionID:    l.TransactionID,
		AmountDebited:    l.AmountDebited,
	}
}

// PayPrice is the quick-pay configuration of an object: the default amount
// followed by the button amounts.
type PayPrice struct {
	Default int
	Buttons [4]int
}

type EconomyData struct {
	Prices         PriceSchedule
	ObjectCapacity int
	ObjectCount    int
}

type InstantMessage struct {
	FromID   uuid.UUID
	FromName string
	ToID     uuid.UUID
	Message  string
}

// ObjectPaid is the notification raised when the ledger reports that a
// scripted object was paid.
type ObjectPaid struct {
	ObjectID uuid.UUID
	PayerID  uuid.UUID
	Amount   int
}

// PriceSchedule is loaded once from configuration and immutable afterwards.
type PriceSchedule struct {
	EnergyUnit            int     `koanf:"energy_unit" mapstructure:"energy_unit"`
	ObjectClaim           int     `koanf:"object_claim" mapstructure:"object_claim"`
	PublicObjectDecay     int     `koanf:"public_object_decay" mapstructure:"public_object_decay"`
	PublicObjectDelete    int     `koanf:"public_object_delete" mapstructure:"public_object_delete"`
	ParcelClaim           int     `koanf:"parcel_claim" mapstructure:"parcel_claim"`
	ParcelClaimFactor     float64 `koanf:"parcel_claim_factor" mapstructure:"parcel_claim_factor"`
	Upload                int     `koanf:"upload" mapstructure:"upload"`
	RentLight             int     `koanf:"rent_light" mapstructure:"rent_light"`
	ObjectRent            float64 `koanf:"object_rent" mapstructure:"object_rent"`
	ObjectScaleFactor     float64 `koanf:"object_scale_factor" mapstructure:"object_scale_factor"`
	ParcelRent            int     `koanf:"parcel_rent" mapstructure:"parcel_rent"`
	GroupCreate           int     `koanf:"group_create" mapstructure:"group_create"`
	TeleportMinPrice      int     `koanf:"teleport_min_price" mapstructure:"teleport_min_price"`
	TeleportPriceExponent float64 `koanf:"teleport_price_exponent" mapstructure:"teleport_price_exponent"`
	EnergyEfficiency      float64 `koanf:"energy_efficiency" mapstructure:"energy_efficiency"`
}

func DefaultPriceSchedule() PriceSchedule {
	return PriceSchedule{
		EnergyUnit:            100,
		ObjectClaim:           10,
		PublicObjectDecay:     4,
		PublicObjectDelete:    4,
		ParcelClaim:           1,
		ParcelClaimFactor:     1,
		Upload:                0,
		RentLight:             5,
		ObjectRent:            1,
		ObjectScaleFactor:     10,
		ParcelRent:            1,
		GroupCreate:           0,
		TeleportMinPrice:      2,
		TeleportPriceExponent: 2,
		EnergyEfficiency:      1,
	}
}
