package gocommand

import (
	"context"
	"testing"

	"github.com/goliatone/go-currency/core"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

type chargeMessage struct {
	Amount int
}

func (chargeMessage) Type() string { return "currency.command.test.charge" }

type lookupMessage struct{}

func (lookupMessage) Type() string { return "currency.query.test.lookup" }

func TestRegistryAdapter_QueueResolverSkipsQueries(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()
	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}

	charged := 0
	cmd := command.CommandFunc[chargeMessage](func(_ context.Context, msg chargeMessage) error {
		charged += msg.Amount
		return nil
	})
	qry := command.QueryFunc[lookupMessage, int](func(context.Context, lookupMessage) (int, error) {
		return 7, nil
	})

	cmdSub, err := RegisterAndSubscribe[chargeMessage](adapter, cmd)
	if err != nil {
		t.Fatalf("register command: %v", err)
	}
	defer cmdSub.Unsubscribe()
	qrySub, err := RegisterAndSubscribeQuery[lookupMessage, int](adapter, qry)
	if err != nil {
		t.Fatalf("register query: %v", err)
	}
	defer qrySub.Unsubscribe()

	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if _, ok := queueRegistry.Get("currency.command.test.charge"); !ok {
		t.Fatalf("expected command to be mirrored into the queue registry")
	}
	if _, ok := queueRegistry.Get("currency.query.test.lookup"); ok {
		t.Fatalf("expected query to stay out of the queue registry")
	}

	if err := commanddispatcher.Dispatch(context.Background(), chargeMessage{Amount: 3}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if charged != 3 {
		t.Fatalf("expected charge of 3, got %d", charged)
	}
	got, err := commanddispatcher.Query[lookupMessage, int](context.Background(), lookupMessage{})
	if err != nil || got != 7 {
		t.Fatalf("expected query result 7, got %d (%v)", got, err)
	}
}

func TestRegistryAdapter_NilAdapterReturnsRichError(t *testing.T) {
	var adapter *RegistryAdapter
	err := adapter.Initialize()
	if err == nil {
		t.Fatalf("expected error from nil adapter")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.MoneyErrorInternal {
		t.Fatalf("unexpected text code %q", rich.TextCode)
	}

	if err := NewRegistryAdapter(nil).AddQueueResolver("queue", nil); core.TextCode(err) != core.MoneyErrorBadInput {
		t.Fatalf("expected bad input for missing queue registry, got %v", err)
	}
}
