package query

import (
	"net/http"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
)

func queryDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.MoneyErrorInternal)
}

func queryValidationError(field string, message string) error {
	return goerrors.NewValidation("query: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.MoneyErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func querySessionNotFoundError(userID string) error {
	return goerrors.New("query: no live session for user", goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(core.MoneyErrorSessionNotFound).
		WithMetadata(map[string]any{"user_id": userID})
}
