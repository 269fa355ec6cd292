package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	MoneyErrorBadInput            = "MONEY_BAD_INPUT"
	MoneyErrorDisabled            = "MONEY_MODULE_DISABLED"
	MoneyErrorSellDisabled        = "MONEY_SELL_DISABLED"
	MoneyErrorSelfTransfer        = "MONEY_SELF_TRANSFER"
	MoneyErrorSessionNotFound     = "MONEY_SESSION_NOT_FOUND"
	MoneyErrorObjectNotFound      = "MONEY_OBJECT_NOT_FOUND"
	MoneyErrorUnauthenticated     = "MONEY_UNAUTHENTICATED"
	MoneyErrorInsufficientFunds   = "MONEY_INSUFFICIENT_FUNDS"
	MoneyErrorLedgerNotConfigured = "MONEY_LEDGER_NOT_CONFIGURED"
	MoneyErrorLedgerUnavailable   = "MONEY_LEDGER_UNAVAILABLE"
	MoneyErrorLedgerRejected      = "MONEY_LEDGER_REJECTED"
	MoneyErrorRefused             = "MONEY_OPERATION_REFUSED"
	MoneyErrorInternal            = "MONEY_INTERNAL_ERROR"
)

func errModuleDisabled() error {
	return newMoneyError("core: money module is disabled", goerrors.CategoryOperation, MoneyErrorDisabled)
}

func errSellDisabled() error {
	return newMoneyError("core: selling is disabled", goerrors.CategoryAuthz, MoneyErrorSellDisabled)
}

func errSelfTransfer(userID uuid.UUID) error {
	return newMoneyError("core: sender and receiver are the same user", goerrors.CategoryBadInput, MoneyErrorSelfTransfer).
		WithMetadata(map[string]any{"user_id": userID.String()})
}

func errNegativeAmount(amount int) error {
	return newMoneyError("core: amount must not be negative", goerrors.CategoryBadInput, MoneyErrorBadInput).
		WithMetadata(map[string]any{"amount": amount})
}

func errSessionNotFound(userID uuid.UUID) error {
	return newMoneyError("core: no live root session for user", goerrors.CategoryNotFound, MoneyErrorSessionNotFound).
		WithMetadata(map[string]any{"user_id": userID.String()})
}

func errNoCachedBalance(userID uuid.UUID) error {
	return newMoneyError("core: no cached balance for user", goerrors.CategoryNotFound, MoneyErrorSessionNotFound).
		WithMetadata(map[string]any{"user_id": userID.String()})
}

func errObjectNotFound(objectID uuid.UUID) error {
	return newMoneyError("core: object not found", goerrors.CategoryNotFound, MoneyErrorObjectNotFound).
		WithMetadata(map[string]any{"object_id": objectID.String()})
}

func errUnauthenticated(reason string) error {
	return newMoneyError("core: session credential mismatch: "+reason, goerrors.CategoryAuth, MoneyErrorUnauthenticated)
}

func errInsufficientFunds(balance int, amount int) error {
	return newMoneyError("core: insufficient funds", goerrors.CategoryConflict, MoneyErrorInsufficientFunds).
		WithMetadata(map[string]any{"balance": balance, "amount": amount})
}

func errLedgerNotConfigured(method string) error {
	return newMoneyError("core: money server is not configured", goerrors.CategoryOperation, MoneyErrorLedgerNotConfigured).
		WithMetadata(map[string]any{"method": method})
}

func errLedgerUnavailable(method string, cause error) error {
	wrapped := goerrors.Wrap(cause, goerrors.CategoryExternal, fmt.Sprintf("core: money server call %s failed", method)).
		WithTextCode(MoneyErrorLedgerUnavailable).
		WithMetadata(map[string]any{"method": method})
	return ensureMoneyErrorEnvelope(wrapped)
}

func errLedgerRejected(method string, message string) error {
	return newMoneyError("core: money server rejected "+method, goerrors.CategoryOperation, MoneyErrorLedgerRejected).
		WithMetadata(map[string]any{"method": method, "ledger_message": message})
}

func errSaleRefused(localID uint32) error {
	return newMoneyError("core: region refused the object sale", goerrors.CategoryOperation, MoneyErrorObjectNotFound).
		WithMetadata(map[string]any{"local_id": localID})
}

func errLandBuyProcessed(transactionID int64) error {
	return newMoneyError("core: land purchase already processed", goerrors.CategoryConflict, MoneyErrorBadInput).
		WithMetadata(map[string]any{"transaction_id": transactionID})
}

func errLedgerRequired() error {
	return newMoneyError("core: a ledger caller is required when money_server_url is set", goerrors.CategoryInternal, MoneyErrorLedgerNotConfigured)
}

func errInvalidConfig(field string, message string) error {
	return ensureMoneyErrorEnvelope(
		goerrors.NewValidation("core: invalid configuration", goerrors.FieldError{
			Field:   field,
			Message: message,
		}).WithTextCode(MoneyErrorBadInput),
	)
}

func errOptionsResolve(step string, cause error) error {
	return ensureMoneyErrorEnvelope(
		goerrors.Wrap(cause, goerrors.CategoryInternal, "core: options "+step+" failed").
			WithTextCode(MoneyErrorInternal),
	)
}

func moneyErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureMoneyErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "insufficient"):
		return newMoneyError(err.Error(), goerrors.CategoryConflict, MoneyErrorInsufficientFunds)
	case strings.Contains(msg, "session") && strings.Contains(msg, "mismatch"):
		return newMoneyError(err.Error(), goerrors.CategoryAuth, MoneyErrorUnauthenticated)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "connection refused"):
		return newMoneyError(err.Error(), goerrors.CategoryExternal, MoneyErrorLedgerUnavailable)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "must"):
		return newMoneyError(err.Error(), goerrors.CategoryBadInput, MoneyErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureMoneyErrorEnvelope(mapped)
}

func newMoneyError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureMoneyErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureMoneyErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = moneyHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultMoneyTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultMoneyTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return MoneyErrorBadInput
	case goerrors.CategoryNotFound:
		return MoneyErrorSessionNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return MoneyErrorUnauthenticated
	case goerrors.CategoryConflict:
		return MoneyErrorInsufficientFunds
	case goerrors.CategoryExternal:
		return MoneyErrorLedgerUnavailable
	case goerrors.CategoryOperation:
		return MoneyErrorLedgerRejected
	default:
		return MoneyErrorInternal
	}
}

func moneyHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// TextCode returns the MONEY_* code carried by err, or an empty string.
func TextCode(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr != nil {
		return richErr.TextCode
	}
	return ""
}
