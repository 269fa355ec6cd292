package query

import "github.com/google/uuid"

const (
	TypeGetBalance          = "currency.query.balance.get"
	TypeAmountCovered       = "currency.query.amount.covered"
	TypeUploadCovered       = "currency.query.upload.covered"
	TypeUploadCharge        = "currency.query.charge.upload"
	TypeGroupCreationCharge = "currency.query.charge.group_creation"
	TypeEconomyData         = "currency.query.economy_data.get"
	TypeGetTransaction      = "currency.query.transaction.get"
)

type GetBalanceMessage struct {
	UserID uuid.UUID
}

func (GetBalanceMessage) Type() string { return TypeGetBalance }

func (m GetBalanceMessage) Validate() error {
	return requireID("user_id", m.UserID)
}

type AmountCoveredMessage struct {
	UserID uuid.UUID
	Amount int
}

func (AmountCoveredMessage) Type() string { return TypeAmountCovered }

func (m AmountCoveredMessage) Validate() error {
	if err := requireID("user_id", m.UserID); err != nil {
		return err
	}
	if m.Amount < 0 {
		return queryValidationError("amount", "must not be negative")
	}
	return nil
}

type UploadCoveredMessage struct {
	UserID uuid.UUID
}

func (UploadCoveredMessage) Type() string { return TypeUploadCovered }

func (m UploadCoveredMessage) Validate() error {
	return requireID("user_id", m.UserID)
}

type UploadChargeMessage struct{}

func (UploadChargeMessage) Type() string { return TypeUploadCharge }

func (UploadChargeMessage) Validate() error { return nil }

type GroupCreationChargeMessage struct{}

func (GroupCreationChargeMessage) Type() string { return TypeGroupCreationCharge }

func (GroupCreationChargeMessage) Validate() error { return nil }

type EconomyDataMessage struct {
	UserID uuid.UUID
}

func (EconomyDataMessage) Type() string { return TypeEconomyData }

func (m EconomyDataMessage) Validate() error {
	return requireID("user_id", m.UserID)
}

// GetTransactionMessage looks up one ledger transaction on behalf of a user
// who must be present in a hosted region.
type GetTransactionMessage struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
}

func (GetTransactionMessage) Type() string { return TypeGetTransaction }

func (m GetTransactionMessage) Validate() error {
	if err := requireID("user_id", m.UserID); err != nil {
		return err
	}
	return requireID("transaction_id", m.TransactionID)
}

func requireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return queryValidationError(field, "identifier is required")
	}
	return nil
}
