package command

import (
	"net/http"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
)

func commandDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.MoneyErrorInternal)
}

func commandValidationError(field string, message string) error {
	return goerrors.NewValidation("command: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.MoneyErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func commandInvalidInputError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.MoneyErrorBadInput)
}

// commandRefusedError reports an operation the money module declined. The
// reason has already been logged and shown to the avatar.
func commandRefusedError(message string, msgType string) error {
	return goerrors.New(message, goerrors.CategoryOperation).
		WithCode(http.StatusConflict).
		WithTextCode(core.MoneyErrorRefused).
		WithMetadata(map[string]any{"message_type": msgType})
}
