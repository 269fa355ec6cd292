package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthorizeAndTransfer runs the local checks for a money movement and, when
// they pass, asks the ledger to perform it. The balance check is optimistic:
// the ledger stays responsible for the actual debit.
func (s *Service) AuthorizeAndTransfer(ctx context.Context, req TransferRequest) bool {
	return s.authorizeAndTransfer(ctx, req) == nil
}

func (s *Service) authorizeAndTransfer(ctx context.Context, req TransferRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"kind":        req.Kind.String(),
		"sender_id":   req.Sender.String(),
		"receiver_id": req.Receiver.String(),
		"amount":      req.Amount,
		"forced":      req.Force,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "authorize_transfer", err, fields)
	}()

	op, err := s.authorize(ctx, req)
	if err != nil {
		return err
	}
	fields["receiver_id"] = op.Receiver.String()
	if req.Force {
		return s.forceTransferMoney(ctx, op)
	}
	return s.transferMoney(ctx, op)
}

func (s *Service) authorize(ctx context.Context, req TransferRequest) (MoneyOperation, error) {
	if err := s.enabled(); err != nil {
		return MoneyOperation{}, err
	}
	if !s.config.SellEnabled {
		return MoneyOperation{}, errSellDisabled()
	}
	if req.Amount < 0 {
		return MoneyOperation{}, errNegativeAmount(req.Amount)
	}

	op := req.operation()
	if op.Kind == TransactionPayObject {
		resolved, err := s.redirectToOwner(op)
		if err != nil {
			return MoneyOperation{}, err
		}
		op = resolved
	}
	if op.Sender == op.Receiver {
		return MoneyOperation{}, errSelfTransfer(op.Sender)
	}
	if req.Force {
		return op, nil
	}

	sender, ok := s.Directory().FindSession(op.Sender)
	if !ok {
		return MoneyOperation{}, errSessionNotFound(op.Sender)
	}
	if op.RegionHandle == 0 {
		if region, found := s.Directory().FindRegion(op.Sender); found {
			op.RegionHandle = region.Handle()
		}
	}
	balance, err := s.QueryBalance(ctx, sender)
	if err != nil {
		return MoneyOperation{}, err
	}
	if balance < op.Amount {
		return MoneyOperation{}, errInsufficientFunds(balance, op.Amount)
	}
	return op, nil
}

// redirectToOwner replaces an object receiver with the object's owner and
// carries the object id on the operation.
func (s *Service) redirectToOwner(op MoneyOperation) (MoneyOperation, error) {
	objectID := op.Receiver
	if objectID == uuid.Nil {
		objectID = op.ObjectID
	}
	object, _, ok := s.Directory().FindObject(objectID)
	if !ok {
		return MoneyOperation{}, errObjectNotFound(objectID)
	}
	op.ObjectID = object.ID()
	op.Receiver = object.OwnerID()
	return op, nil
}
