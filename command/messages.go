package command

import (
	"github.com/goliatone/go-currency/core"
	"github.com/google/uuid"
)

const (
	TypeClientLogin     = "currency.command.client.login"
	TypeClientLogout    = "currency.command.client.logout"
	TypeMoneyTransfer   = "currency.command.money.transfer"
	TypeTransfer        = "currency.command.transfer"
	TypeObjectBuy       = "currency.command.object.buy"
	TypeObjectGiveMoney = "currency.command.object.give_money"
	TypeValidateLandBuy = "currency.command.land_buy.validate"
	TypeProcessLandBuy  = "currency.command.land_buy.process"
	TypeApplyCharge     = "currency.command.charge.apply"
	TypeRequestBalance  = "currency.command.balance.request"
	TypeRequestPayPrice = "currency.command.pay_price.request"
	TypeSendEconomyData = "currency.command.economy_data.send"
)

type ClientLoginMessage struct {
	UserID uuid.UUID
}

func (ClientLoginMessage) Type() string { return TypeClientLogin }

func (m ClientLoginMessage) Validate() error {
	return requireID("user_id", m.UserID)
}

type ClientLogoutMessage struct {
	UserID uuid.UUID
}

func (ClientLogoutMessage) Type() string { return TypeClientLogout }

func (m ClientLogoutMessage) Validate() error {
	return requireID("user_id", m.UserID)
}

type MoneyTransferMessage struct {
	Event core.MoneyTransferEvent
}

func (MoneyTransferMessage) Type() string { return TypeMoneyTransfer }

func (m MoneyTransferMessage) Validate() error {
	if err := requireID("sender", m.Event.Sender); err != nil {
		return err
	}
	if err := requireID("receiver", m.Event.Receiver); err != nil {
		return err
	}
	return requireNonNegative("amount", m.Event.Amount)
}

// TransferMessage carries a fully described transfer through the
// authorizer.
type TransferMessage struct {
	Request core.TransferRequest
}

func (TransferMessage) Type() string { return TypeTransfer }

func (m TransferMessage) Validate() error {
	if err := requireID("sender", m.Request.Sender); err != nil {
		return err
	}
	if m.Request.Receiver == uuid.Nil && m.Request.ObjectID == uuid.Nil {
		return commandValidationError("receiver", "receiver or object id is required")
	}
	return requireNonNegative("amount", m.Request.Amount)
}

type ObjectBuyMessage struct {
	Request core.ObjectBuyRequest
}

func (ObjectBuyMessage) Type() string { return TypeObjectBuy }

func (m ObjectBuyMessage) Validate() error {
	if err := requireID("buyer", m.Request.Buyer); err != nil {
		return err
	}
	return requireNonNegative("sale_price", m.Request.SalePrice)
}

type ObjectGiveMoneyMessage struct {
	ObjectID uuid.UUID
	FromID   uuid.UUID
	ToID     uuid.UUID
	Amount   int
}

func (ObjectGiveMoneyMessage) Type() string { return TypeObjectGiveMoney }

func (m ObjectGiveMoneyMessage) Validate() error {
	if err := requireID("object_id", m.ObjectID); err != nil {
		return err
	}
	if err := requireID("from_id", m.FromID); err != nil {
		return err
	}
	if err := requireID("to_id", m.ToID); err != nil {
		return err
	}
	return requireNonNegative("amount", m.Amount)
}

type ValidateLandBuyMessage struct {
	Buy *core.LandBuy
}

func (ValidateLandBuyMessage) Type() string { return TypeValidateLandBuy }

func (m ValidateLandBuyMessage) Validate() error {
	return validateLandBuy(m.Buy)
}

type ProcessLandBuyMessage struct {
	Buy *core.LandBuy
}

func (ProcessLandBuyMessage) Type() string { return TypeProcessLandBuy }

func (m ProcessLandBuyMessage) Validate() error {
	return validateLandBuy(m.Buy)
}

// ApplyChargeMessage debits a fee. A zero Kind is a group creation fee.
type ApplyChargeMessage struct {
	UserID      uuid.UUID
	Amount      int
	Kind        core.TransactionType
	Description string
}

func (ApplyChargeMessage) Type() string { return TypeApplyCharge }

func (m ApplyChargeMessage) Validate() error {
	if err := requireID("user_id", m.UserID); err != nil {
		return err
	}
	return requireNonNegative("amount", m.Amount)
}

type RequestBalanceMessage struct {
	Request core.BalanceRequest
}

func (RequestBalanceMessage) Type() string { return TypeRequestBalance }

func (m RequestBalanceMessage) Validate() error {
	return requireID("agent_id", m.Request.AgentID)
}

type RequestPayPriceMessage struct {
	UserID   uuid.UUID
	ObjectID uuid.UUID
}

func (RequestPayPriceMessage) Type() string { return TypeRequestPayPrice }

func (m RequestPayPriceMessage) Validate() error {
	if err := requireID("user_id", m.UserID); err != nil {
		return err
	}
	return requireID("object_id", m.ObjectID)
}

type SendEconomyDataMessage struct {
	UserID uuid.UUID
}

func (SendEconomyDataMessage) Type() string { return TypeSendEconomyData }

func (m SendEconomyDataMessage) Validate() error {
	return requireID("user_id", m.UserID)
}

func requireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return commandValidationError(field, "identifier is required")
	}
	return nil
}

func requireNonNegative(field string, amount int) error {
	if amount < 0 {
		return commandValidationError(field, "must not be negative")
	}
	return nil
}

func validateLandBuy(buy *core.LandBuy) error {
	if buy == nil {
		return commandInvalidInputError("command: land buy is required")
	}
	snapshot := buy.Snapshot()
	if err := requireID("agent_id", snapshot.AgentID); err != nil {
		return err
	}
	return requireNonNegative("parcel_price", snapshot.ParcelPrice)
}
