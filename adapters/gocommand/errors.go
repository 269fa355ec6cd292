package gocommand

import (
	"net/http"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
)

func errRegistryNotConfigured() error {
	return goerrors.New("gocommand: registry is not configured", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.MoneyErrorInternal)
}

func errRequired(what string) error {
	return goerrors.New("gocommand: "+what+" is required", goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.MoneyErrorBadInput)
}

func errInitialize(registry string, cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryInternal, "gocommand: initialize "+registry+" registry").
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.MoneyErrorInternal).
		WithMetadata(map[string]any{"registry": registry})
}
