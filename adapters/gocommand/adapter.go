package gocommand

import (
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

// RegistryAdapter keeps money commands and money queries in separate
// registries. Resolvers such as the job queue only see commands, since a
// query has no Execute to enqueue.
type RegistryAdapter struct {
	commands *command.Registry
	queries  *command.Registry
}

func NewRegistryAdapter(commands *command.Registry) *RegistryAdapter {
	if commands == nil {
		commands = command.NewRegistry()
	}
	return &RegistryAdapter{commands: commands, queries: command.NewRegistry()}
}

func (a *RegistryAdapter) Commands() *command.Registry {
	if a == nil {
		return nil
	}
	return a.commands
}

func (a *RegistryAdapter) Queries() *command.Registry {
	if a == nil {
		return nil
	}
	return a.queries
}

func (a *RegistryAdapter) configured() bool {
	return a != nil && a.commands != nil && a.queries != nil
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if !a.configured() {
		return errRegistryNotConfigured()
	}
	return a.commands.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if !a.configured() {
		return errRegistryNotConfigured()
	}
	return a.queries.RegisterCommand(qry)
}

// AddQueueResolver mirrors every registered money command into the go-job
// queue registry when the adapter is initialized.
func (a *RegistryAdapter) AddQueueResolver(key string, queueRegistry *jobqueuecommand.Registry) error {
	if !a.configured() {
		return errRegistryNotConfigured()
	}
	if queueRegistry == nil {
		return errRequired("queue registry")
	}
	return a.commands.AddResolver(strings.TrimSpace(key), jobqueuecommand.QueueResolver(queueRegistry))
}

func (a *RegistryAdapter) Initialize() error {
	if !a.configured() {
		return errRegistryNotConfigured()
	}
	if err := a.commands.Initialize(); err != nil {
		return errInitialize("commands", err)
	}
	if err := a.queries.Initialize(); err != nil {
		return errInitialize("queries", err)
	}
	return nil
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if !adapter.configured() {
		return nil, errRegistryNotConfigured()
	}
	if cmd == nil {
		return nil, errRequired("command")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if !adapter.configured() {
		return nil, errRegistryNotConfigured()
	}
	if qry == nil {
		return nil, errRequired("query")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}
