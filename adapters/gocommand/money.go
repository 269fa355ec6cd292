package gocommand

import (
	moneycommand "github.com/goliatone/go-currency/command"
	"github.com/goliatone/go-currency/core"
	moneyquery "github.com/goliatone/go-currency/query"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// MoneyModule is everything the money commands and queries dispatch to.
type MoneyModule interface {
	moneycommand.MoneyService
	moneyquery.BalanceReader
	moneyquery.TransactionReader
}

// Subscriptions groups the dispatcher subscriptions of one registration.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, sub := range s {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

// RegisterMoneyModule registers and subscribes every money command and
// query. On failure nothing stays subscribed.
func RegisterMoneyModule(adapter *RegistryAdapter, module MoneyModule, runnerOpts ...runner.Option) (Subscriptions, error) {
	if module == nil {
		return nil, errRequired("money module")
	}
	var subs Subscriptions
	keep := func(sub commanddispatcher.Subscription, err error) error {
		if err != nil {
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	steps := []func() error{
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.ClientLoginMessage](adapter, moneycommand.NewClientLoginCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.ClientLogoutMessage](adapter, moneycommand.NewClientLogoutCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.MoneyTransferMessage](adapter, moneycommand.NewMoneyTransferCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.TransferMessage](adapter, moneycommand.NewTransferCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.ObjectBuyMessage](adapter, moneycommand.NewObjectBuyCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.ObjectGiveMoneyMessage](adapter, moneycommand.NewObjectGiveMoneyCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.ValidateLandBuyMessage](adapter, moneycommand.NewValidateLandBuyCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.ProcessLandBuyMessage](adapter, moneycommand.NewProcessLandBuyCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.ApplyChargeMessage](adapter, moneycommand.NewApplyChargeCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.RequestBalanceMessage](adapter, moneycommand.NewRequestBalanceCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.RequestPayPriceMessage](adapter, moneycommand.NewRequestPayPriceCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribe[moneycommand.SendEconomyDataMessage](adapter, moneycommand.NewSendEconomyDataCommand(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribeQuery[moneyquery.GetBalanceMessage, int](adapter, moneyquery.NewGetBalanceQuery(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribeQuery[moneyquery.AmountCoveredMessage, bool](adapter, moneyquery.NewAmountCoveredQuery(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribeQuery[moneyquery.UploadCoveredMessage, bool](adapter, moneyquery.NewUploadCoveredQuery(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribeQuery[moneyquery.UploadChargeMessage, int](adapter, moneyquery.NewUploadChargeQuery(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribeQuery[moneyquery.GroupCreationChargeMessage, int](adapter, moneyquery.NewGroupCreationChargeQuery(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribeQuery[moneyquery.EconomyDataMessage, core.EconomyData](adapter, moneyquery.NewEconomyDataQuery(module), runnerOpts...))
		},
		func() error {
			return keep(RegisterAndSubscribeQuery[moneyquery.GetTransactionMessage, core.TransactionRecord](adapter, moneyquery.NewGetTransactionQuery(module), runnerOpts...))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			subs.Unsubscribe()
			return nil, err
		}
	}
	return subs, nil
}
