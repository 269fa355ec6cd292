package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
)

func TestJSONRPCAdapter_ResponseLimitReturnsRichError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewJSONRPCAdapter(server.URL, server.Client())
	adapter.MaxResponseBodyBytes = 4

	err := adapter.Call(context.Background(), core.MethodGetBalance, nil, &core.LedgerWireReply{})
	if err == nil {
		t.Fatalf("expected response body limit error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", rich.Category)
	}
	if rich.TextCode != core.MoneyErrorLedgerUnavailable {
		t.Fatalf("expected %q text code, got %q", core.MoneyErrorLedgerUnavailable, rich.TextCode)
	}
	if rich.Code != http.StatusBadGateway {
		t.Fatalf("expected %d code, got %d", http.StatusBadGateway, rich.Code)
	}
}

func TestJSONRPCAdapter_NilReturnsRichError(t *testing.T) {
	var adapter *JSONRPCAdapter
	err := adapter.Call(context.Background(), core.MethodGetBalance, nil, nil)
	if err == nil {
		t.Fatalf("expected nil adapter error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.MoneyErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.MoneyErrorInternal, rich.TextCode)
	}
	if rich.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d code, got %d", http.StatusInternalServerError, rich.Code)
	}
}

func TestRegistry_ErrorsCarryMoneyTextCodes(t *testing.T) {
	registry := NewDefaultRegistry()

	_, err := registry.Build("carrier-pigeon", nil)
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.MoneyErrorLedgerNotConfigured || rich.Code != http.StatusNotFound {
		t.Fatalf("unexpected unknown kind envelope: %#v", rich)
	}

	err = registry.RegisterFactory(KindJSONRPC, jsonRPCFactory)
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryConflict {
		t.Fatalf("expected conflict for duplicate factory, got %v", err)
	}

	_, err = registry.Build(KindJSONRPC, map[string]any{})
	if !goerrors.As(err, &rich) || rich.TextCode != core.MoneyErrorBadInput {
		t.Fatalf("expected bad input without endpoint, got %v", err)
	}

	var nilRegistry *Registry
	err = nilRegistry.Register(NewJSONRPCAdapter("http://money.test", nil))
	if !goerrors.As(err, &rich) || rich.TextCode != core.MoneyErrorInternal {
		t.Fatalf("expected internal error for nil registry, got %v", err)
	}
}
