package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-currency/core"
	"github.com/goliatone/go-currency/directory"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type stubBalanceReader struct {
	getBalanceFn    func(ctx context.Context, userID uuid.UUID) int
	amountCoveredFn func(ctx context.Context, userID uuid.UUID, amount int) bool
	uploadCoveredFn func(ctx context.Context, userID uuid.UUID) bool
	uploadCharge    int
	groupCharge     int
	economy         core.EconomyData
}

func (s stubBalanceReader) GetBalance(ctx context.Context, userID uuid.UUID) int {
	if s.getBalanceFn == nil {
		return 0
	}
	return s.getBalanceFn(ctx, userID)
}

func (s stubBalanceReader) AmountCovered(ctx context.Context, userID uuid.UUID, amount int) bool {
	return s.amountCoveredFn != nil && s.amountCoveredFn(ctx, userID, amount)
}

func (s stubBalanceReader) UploadCovered(ctx context.Context, userID uuid.UUID) bool {
	return s.uploadCoveredFn != nil && s.uploadCoveredFn(ctx, userID)
}

func (s stubBalanceReader) UploadCharge() int { return s.uploadCharge }

func (s stubBalanceReader) GroupCreationCharge() int { return s.groupCharge }

func (s stubBalanceReader) EconomyData(uuid.UUID) core.EconomyData { return s.economy }

type stubTransactionReader struct {
	directory     core.SessionDirectory
	transactionFn func(ctx context.Context, client core.Client, transactionID uuid.UUID) (core.TransactionRecord, error)
}

func (s stubTransactionReader) Directory() core.SessionDirectory { return s.directory }

func (s stubTransactionReader) GetTransaction(ctx context.Context, client core.Client, transactionID uuid.UUID) (core.TransactionRecord, error) {
	return s.transactionFn(ctx, client, transactionID)
}

func TestBalanceQueries_DelegateToReader(t *testing.T) {
	userID := uuid.New()
	reader := stubBalanceReader{
		getBalanceFn: func(_ context.Context, id uuid.UUID) int {
			if id != userID {
				t.Fatalf("unexpected user id %s", id)
			}
			return 420
		},
		amountCoveredFn: func(_ context.Context, _ uuid.UUID, amount int) bool { return amount <= 420 },
		uploadCoveredFn: func(context.Context, uuid.UUID) bool { return true },
		uploadCharge:    10,
		groupCharge:     100,
		economy:         core.EconomyData{ObjectCapacity: 15000},
	}
	ctx := context.Background()

	balance, err := NewGetBalanceQuery(reader).Query(ctx, GetBalanceMessage{UserID: userID})
	if err != nil || balance != 420 {
		t.Fatalf("expected balance 420, got %d (%v)", balance, err)
	}
	covered, err := NewAmountCoveredQuery(reader).Query(ctx, AmountCoveredMessage{UserID: userID, Amount: 500})
	if err != nil || covered {
		t.Fatalf("expected 500 not to be covered, got %v (%v)", covered, err)
	}
	upload, err := NewUploadCoveredQuery(reader).Query(ctx, UploadCoveredMessage{UserID: userID})
	if err != nil || !upload {
		t.Fatalf("expected upload to be covered, got %v (%v)", upload, err)
	}
	charge, _ := NewUploadChargeQuery(reader).Query(ctx, UploadChargeMessage{})
	group, _ := NewGroupCreationChargeQuery(reader).Query(ctx, GroupCreationChargeMessage{})
	if charge != 10 || group != 100 {
		t.Fatalf("unexpected charges upload=%d group=%d", charge, group)
	}
	economy, err := NewEconomyDataQuery(reader).Query(ctx, EconomyDataMessage{UserID: userID})
	if err != nil || economy.ObjectCapacity != 15000 {
		t.Fatalf("unexpected economy data %#v (%v)", economy, err)
	}
}

func TestGetTransactionQuery_ResolvesLiveSession(t *testing.T) {
	userID := uuid.New()
	txID := uuid.New()
	client := directory.NewSessionClient(userID, "Lucky Avatar")
	region := directory.NewMemoryRegion(1000, uuid.New())
	region.AddRoot(client)

	reader := stubTransactionReader{
		directory: directory.NewRegistry(region),
		transactionFn: func(_ context.Context, got core.Client, id uuid.UUID) (core.TransactionRecord, error) {
			if got.Credential().UserID != userID {
				t.Fatalf("expected the user's session client")
			}
			return core.TransactionRecord{TransactionID: id, Amount: 25}, nil
		},
	}

	record, err := NewGetTransactionQuery(reader).Query(context.Background(), GetTransactionMessage{
		UserID:        userID,
		TransactionID: txID,
	})
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if record.TransactionID != txID || record.Amount != 25 {
		t.Fatalf("unexpected record: %#v", record)
	}
}

func TestGetTransactionQuery_MissingSession(t *testing.T) {
	reader := stubTransactionReader{directory: directory.NewRegistry()}
	_, err := NewGetTransactionQuery(reader).Query(context.Background(), GetTransactionMessage{
		UserID:        uuid.New(),
		TransactionID: uuid.New(),
	})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.MoneyErrorSessionNotFound {
		t.Fatalf("expected %q, got %q", core.MoneyErrorSessionNotFound, rich.TextCode)
	}
}

func TestQueries_NilReaderReturnsRichError(t *testing.T) {
	var q *GetBalanceQuery
	_, err := q.Query(context.Background(), GetBalanceMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}

func TestGetTransactionMessage_ValidateReturnsRichError(t *testing.T) {
	err := (GetTransactionMessage{UserID: uuid.New()}).Validate()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation || rich.TextCode != core.MoneyErrorBadInput {
		t.Fatalf("unexpected validation envelope: %#v", rich)
	}
}
