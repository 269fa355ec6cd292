package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

func (s *Service) UploadCharge() int {
	return s.config.Prices.Upload
}

func (s *Service) GroupCreationCharge() int {
	return s.config.Prices.GroupCreate
}

// GetBalance returns the user's current balance, or 0 when the user has no
// live session or the balance cannot be obtained.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) int {
	client, ok := s.Directory().FindSession(userID)
	if !ok {
		return 0
	}
	balance, err := s.QueryBalance(ctx, client)
	if err != nil || balance < 0 {
		return 0
	}
	return balance
}

func (s *Service) AmountCovered(ctx context.Context, userID uuid.UUID, amount int) bool {
	client, ok := s.Directory().FindSession(userID)
	if !ok {
		return false
	}
	balance, err := s.QueryBalance(ctx, client)
	if err != nil {
		return false
	}
	return balance >= amount
}

func (s *Service) UploadCovered(ctx context.Context, userID uuid.UUID) bool {
	return s.AmountCovered(ctx, userID, s.UploadCharge())
}

func (s *Service) ApplyUploadCharge(ctx context.Context, userID uuid.UUID, amount int, description string) bool {
	return s.ApplyCharge(ctx, userID, amount, TransactionUploadCharge, description)
}

// ApplyCharge debits a fee that has no receiving avatar. A zero kind is
// treated as a group creation fee.
func (s *Service) ApplyCharge(ctx context.Context, userID uuid.UUID, amount int, kind TransactionType, description string) bool {
	if kind == 0 {
		kind = TransactionGroupCreate
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"kind":    kind.String(),
		"user_id": userID.String(),
		"amount":  amount,
	}
	err := s.applyCharge(ctx, userID, amount, kind, description)
	s.observeOperation(ctx, startedAt, "apply_charge", err, fields)
	return err == nil
}

func (s *Service) applyCharge(ctx context.Context, userID uuid.UUID, amount int, kind TransactionType, description string) error {
	if err := s.enabled(); err != nil {
		return err
	}
	if amount < 0 {
		return errNegativeAmount(amount)
	}
	if amount == 0 {
		return nil
	}
	client, ok := s.Directory().FindSession(userID)
	if !ok {
		return errSessionNotFound(userID)
	}
	balance, err := s.QueryBalance(ctx, client)
	if err != nil {
		return err
	}
	if balance < amount {
		return errInsufficientFunds(balance, amount)
	}
	var regionHandle uint64
	if region, found := s.Directory().FindRegion(userID); found {
		regionHandle = region.Handle()
	}
	return s.payMoneyCharge(ctx, userID, amount, kind, regionHandle, description)
}

func (s *Service) Transfer(ctx context.Context, from uuid.UUID, to uuid.UUID, regionHandle uint64, amount int, kind TransactionType, description string) bool {
	return s.AuthorizeAndTransfer(ctx, TransferRequest{
		Kind:         kind,
		Sender:       from,
		Receiver:     to,
		Amount:       amount,
		RegionHandle: regionHandle,
		Description:  description,
	})
}

// TransferByObject transfers with the object's region as context. The object
// must be hosted locally.
func (s *Service) TransferByObject(ctx context.Context, from uuid.UUID, to uuid.UUID, objectID uuid.UUID, amount int, kind TransactionType, description string) bool {
	object, region, ok := s.Directory().FindObject(objectID)
	if !ok {
		s.logWarn(ctx, "transfer object not found", map[string]any{"object_id": objectID.String()})
		return false
	}
	return s.AuthorizeAndTransfer(ctx, TransferRequest{
		Kind:         kind,
		Sender:       from,
		Receiver:     to,
		Amount:       amount,
		ObjectID:     object.ID(),
		RegionHandle: region.Handle(),
		Description:  description,
	})
}
