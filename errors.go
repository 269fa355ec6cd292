package currency

import (
	"net/http"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
)

func errNotConfigured(what string) error {
	return goerrors.New("currency: "+what+" is not configured", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.MoneyErrorInternal)
}
