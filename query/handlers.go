package query

import (
	"context"

	"github.com/goliatone/go-currency/core"
	"github.com/google/uuid"
)

type BalanceReader interface {
	GetBalance(ctx context.Context, userID uuid.UUID) int
	AmountCovered(ctx context.Context, userID uuid.UUID, amount int) bool
	UploadCovered(ctx context.Context, userID uuid.UUID) bool
	UploadCharge() int
	GroupCreationCharge() int
	EconomyData(userID uuid.UUID) core.EconomyData
}

type TransactionReader interface {
	Directory() core.SessionDirectory
	GetTransaction(ctx context.Context, client core.Client, transactionID uuid.UUID) (core.TransactionRecord, error)
}

type GetBalanceQuery struct {
	reader BalanceReader
}

func NewGetBalanceQuery(reader BalanceReader) *GetBalanceQuery {
	return &GetBalanceQuery{reader: reader}
}

func (q *GetBalanceQuery) Query(ctx context.Context, msg GetBalanceMessage) (int, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: balance reader is required")
	}
	return q.reader.GetBalance(ctx, msg.UserID), nil
}

type AmountCoveredQuery struct {
	reader BalanceReader
}

func NewAmountCoveredQuery(reader BalanceReader) *AmountCoveredQuery {
	return &AmountCoveredQuery{reader: reader}
}

func (q *AmountCoveredQuery) Query(ctx context.Context, msg AmountCoveredMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: balance reader is required")
	}
	return q.reader.AmountCovered(ctx, msg.UserID, msg.Amount), nil
}

type UploadCoveredQuery struct {
	reader BalanceReader
}

func NewUploadCoveredQuery(reader BalanceReader) *UploadCoveredQuery {
	return &UploadCoveredQuery{reader: reader}
}

func (q *UploadCoveredQuery) Query(ctx context.Context, msg UploadCoveredMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: balance reader is required")
	}
	return q.reader.UploadCovered(ctx, msg.UserID), nil
}

type UploadChargeQuery struct {
	reader BalanceReader
}

func NewUploadChargeQuery(reader BalanceReader) *UploadChargeQuery {
	return &UploadChargeQuery{reader: reader}
}

func (q *UploadChargeQuery) Query(_ context.Context, _ UploadChargeMessage) (int, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: price reader is required")
	}
	return q.reader.UploadCharge(), nil
}

type GroupCreationChargeQuery struct {
	reader BalanceReader
}

func NewGroupCreationChargeQuery(reader BalanceReader) *GroupCreationChargeQuery {
	return &GroupCreationChargeQuery{reader: reader}
}

func (q *GroupCreationChargeQuery) Query(_ context.Context, _ GroupCreationChargeMessage) (int, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: price reader is required")
	}
	return q.reader.GroupCreationCharge(), nil
}

type EconomyDataQuery struct {
	reader BalanceReader
}

func NewEconomyDataQuery(reader BalanceReader) *EconomyDataQuery {
	return &EconomyDataQuery{reader: reader}
}

func (q *EconomyDataQuery) Query(_ context.Context, msg EconomyDataMessage) (core.EconomyData, error) {
	if q == nil || q.reader == nil {
		return core.EconomyData{}, queryDependencyError("query: economy reader is required")
	}
	return q.reader.EconomyData(msg.UserID), nil
}

type GetTransactionQuery struct {
	reader TransactionReader
}

func NewGetTransactionQuery(reader TransactionReader) *GetTransactionQuery {
	return &GetTransactionQuery{reader: reader}
}

func (q *GetTransactionQuery) Query(ctx context.Context, msg GetTransactionMessage) (core.TransactionRecord, error) {
	if q == nil || q.reader == nil {
		return core.TransactionRecord{}, queryDependencyError("query: transaction reader is required")
	}
	directory := q.reader.Directory()
	if directory == nil {
		return core.TransactionRecord{}, queryDependencyError("query: session directory is required")
	}
	client, ok := directory.FindSession(msg.UserID)
	if !ok {
		return core.TransactionRecord{}, querySessionNotFoundError(msg.UserID.String())
	}
	return q.reader.GetTransaction(ctx, client, msg.TransactionID)
}
