package transport

import (
	"net/http"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
)

func transportError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return transportError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.MoneyErrorBadInput
	case goerrors.CategoryAuth:
		return core.MoneyErrorUnauthenticated
	case goerrors.CategoryOperation:
		return core.MoneyErrorLedgerNotConfigured
	case goerrors.CategoryExternal:
		return core.MoneyErrorLedgerUnavailable
	default:
		return core.MoneyErrorInternal
	}
}

func kindMetadata(kind string) map[string]any {
	if kind == "" {
		return nil
	}
	return map[string]any{"kind": kind}
}

func errNilRegistry(message string, kind string) error {
	return transportError(message, goerrors.CategoryInternal, http.StatusInternalServerError, kindMetadata(kind))
}

func errRegistryInput(message string, kind string) error {
	return transportError(message, goerrors.CategoryBadInput, http.StatusBadRequest, kindMetadata(kind))
}

func errKindConflict(what string, kind string) error {
	return transportError("transport: "+what+" kind already registered", goerrors.CategoryConflict, http.StatusConflict, kindMetadata(kind))
}
