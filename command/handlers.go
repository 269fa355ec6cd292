package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-currency/core"
	"github.com/google/uuid"
)

// MoneyService is the mutating half of the money module.
type MoneyService interface {
	ClientLogin(ctx context.Context, userID uuid.UUID) core.LoginResult
	ClientLogout(ctx context.Context, userID uuid.UUID) bool
	MoneyTransfer(ctx context.Context, event core.MoneyTransferEvent) bool
	AuthorizeAndTransfer(ctx context.Context, req core.TransferRequest) bool
	ObjectBuy(ctx context.Context, req core.ObjectBuyRequest) bool
	ObjectGiveMoney(ctx context.Context, objectID uuid.UUID, fromID uuid.UUID, toID uuid.UUID, amount int) bool
	ValidateLandBuy(ctx context.Context, buy *core.LandBuy) bool
	ProcessLandBuy(ctx context.Context, buy *core.LandBuy) bool
	ApplyCharge(ctx context.Context, userID uuid.UUID, amount int, kind core.TransactionType, description string) bool
	RequestBalance(ctx context.Context, req core.BalanceRequest) bool
	RequestPayPrice(ctx context.Context, userID uuid.UUID, objectID uuid.UUID) bool
	SendEconomyData(ctx context.Context, userID uuid.UUID) bool
}

type ClientLoginCommand struct {
	service MoneyService
}

func NewClientLoginCommand(service MoneyService) *ClientLoginCommand {
	return &ClientLoginCommand{service: service}
}

// Execute stores the login result. A failed ledger login is reported in the
// result rather than as an error so callers can still read the balance.
func (c *ClientLoginCommand) Execute(ctx context.Context, msg ClientLoginMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: client login service is required")
	}
	storeResult(ctx, c.service.ClientLogin(ctx, msg.UserID))
	return nil
}

type ClientLogoutCommand struct {
	service MoneyService
}

func NewClientLogoutCommand(service MoneyService) *ClientLogoutCommand {
	return &ClientLogoutCommand{service: service}
}

func (c *ClientLogoutCommand) Execute(ctx context.Context, msg ClientLogoutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: client logout service is required")
	}
	return settle(ctx, c.service.ClientLogout(ctx, msg.UserID), "command: client logout refused", msg.Type())
}

type MoneyTransferCommand struct {
	service MoneyService
}

func NewMoneyTransferCommand(service MoneyService) *MoneyTransferCommand {
	return &MoneyTransferCommand{service: service}
}

func (c *MoneyTransferCommand) Execute(ctx context.Context, msg MoneyTransferMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: money transfer service is required")
	}
	return settle(ctx, c.service.MoneyTransfer(ctx, msg.Event), "command: money transfer refused", msg.Type())
}

type TransferCommand struct {
	service MoneyService
}

func NewTransferCommand(service MoneyService) *TransferCommand {
	return &TransferCommand{service: service}
}

func (c *TransferCommand) Execute(ctx context.Context, msg TransferMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: transfer service is required")
	}
	return settle(ctx, c.service.AuthorizeAndTransfer(ctx, msg.Request), "command: transfer refused", msg.Type())
}

type ObjectBuyCommand struct {
	service MoneyService
}

func NewObjectBuyCommand(service MoneyService) *ObjectBuyCommand {
	return &ObjectBuyCommand{service: service}
}

func (c *ObjectBuyCommand) Execute(ctx context.Context, msg ObjectBuyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: object buy service is required")
	}
	return settle(ctx, c.service.ObjectBuy(ctx, msg.Request), "command: object buy refused", msg.Type())
}

type ObjectGiveMoneyCommand struct {
	service MoneyService
}

func NewObjectGiveMoneyCommand(service MoneyService) *ObjectGiveMoneyCommand {
	return &ObjectGiveMoneyCommand{service: service}
}

func (c *ObjectGiveMoneyCommand) Execute(ctx context.Context, msg ObjectGiveMoneyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: object give money service is required")
	}
	ok := c.service.ObjectGiveMoney(ctx, msg.ObjectID, msg.FromID, msg.ToID, msg.Amount)
	return settle(ctx, ok, "command: object payment refused", msg.Type())
}

type ValidateLandBuyCommand struct {
	service MoneyService
}

func NewValidateLandBuyCommand(service MoneyService) *ValidateLandBuyCommand {
	return &ValidateLandBuyCommand{service: service}
}

// Execute stores whether the buyer can afford the parcel. An unaffordable
// parcel is not an error; the record is simply left unvalidated.
func (c *ValidateLandBuyCommand) Execute(ctx context.Context, msg ValidateLandBuyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: validate land buy service is required")
	}
	storeResult(ctx, c.service.ValidateLandBuy(ctx, msg.Buy))
	return nil
}

type ProcessLandBuyCommand struct {
	service MoneyService
}

func NewProcessLandBuyCommand(service MoneyService) *ProcessLandBuyCommand {
	return &ProcessLandBuyCommand{service: service}
}

func (c *ProcessLandBuyCommand) Execute(ctx context.Context, msg ProcessLandBuyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: process land buy service is required")
	}
	return settle(ctx, c.service.ProcessLandBuy(ctx, msg.Buy), "command: land buy refused", msg.Type())
}

type ApplyChargeCommand struct {
	service MoneyService
}

func NewApplyChargeCommand(service MoneyService) *ApplyChargeCommand {
	return &ApplyChargeCommand{service: service}
}

func (c *ApplyChargeCommand) Execute(ctx context.Context, msg ApplyChargeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: apply charge service is required")
	}
	ok := c.service.ApplyCharge(ctx, msg.UserID, msg.Amount, msg.Kind, msg.Description)
	return settle(ctx, ok, "command: charge refused", msg.Type())
}

type RequestBalanceCommand struct {
	service MoneyService
}

func NewRequestBalanceCommand(service MoneyService) *RequestBalanceCommand {
	return &RequestBalanceCommand{service: service}
}

func (c *RequestBalanceCommand) Execute(ctx context.Context, msg RequestBalanceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: request balance service is required")
	}
	return settle(ctx, c.service.RequestBalance(ctx, msg.Request), "command: balance request refused", msg.Type())
}

type RequestPayPriceCommand struct {
	service MoneyService
}

func NewRequestPayPriceCommand(service MoneyService) *RequestPayPriceCommand {
	return &RequestPayPriceCommand{service: service}
}

func (c *RequestPayPriceCommand) Execute(ctx context.Context, msg RequestPayPriceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: request pay price service is required")
	}
	ok := c.service.RequestPayPrice(ctx, msg.UserID, msg.ObjectID)
	return settle(ctx, ok, "command: pay price request refused", msg.Type())
}

type SendEconomyDataCommand struct {
	service MoneyService
}

func NewSendEconomyDataCommand(service MoneyService) *SendEconomyDataCommand {
	return &SendEconomyDataCommand{service: service}
}

func (c *SendEconomyDataCommand) Execute(ctx context.Context, msg SendEconomyDataMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: send economy data service is required")
	}
	return settle(ctx, c.service.SendEconomyData(ctx, msg.UserID), "command: economy data refused", msg.Type())
}

func settle(ctx context.Context, ok bool, message string, msgType string) error {
	storeResult(ctx, ok)
	if !ok {
		return commandRefusedError(message, msgType)
	}
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
