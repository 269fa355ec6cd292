package currency

import (
	moneycommand "github.com/goliatone/go-currency/command"
	moneyquery "github.com/goliatone/go-currency/query"
)

type CommandQueryService interface {
	moneycommand.MoneyService
	moneyquery.BalanceReader
	moneyquery.TransactionReader
}

type Commands struct {
	ClientLogin     *moneycommand.ClientLoginCommand
	ClientLogout    *moneycommand.ClientLogoutCommand
	MoneyTransfer   *moneycommand.MoneyTransferCommand
	Transfer        *moneycommand.TransferCommand
	ObjectBuy       *moneycommand.ObjectBuyCommand
	ObjectGiveMoney *moneycommand.ObjectGiveMoneyCommand
	ValidateLandBuy *moneycommand.ValidateLandBuyCommand
	ProcessLandBuy  *moneycommand.ProcessLandBuyCommand
	ApplyCharge     *moneycommand.ApplyChargeCommand
	RequestBalance  *moneycommand.RequestBalanceCommand
	RequestPayPrice *moneycommand.RequestPayPriceCommand
	SendEconomyData *moneycommand.SendEconomyDataCommand
}

type Queries struct {
	GetBalance          *moneyquery.GetBalanceQuery
	AmountCovered       *moneyquery.AmountCoveredQuery
	UploadCovered       *moneyquery.UploadCoveredQuery
	UploadCharge        *moneyquery.UploadChargeQuery
	GroupCreationCharge *moneyquery.GroupCreationChargeQuery
	EconomyData         *moneyquery.EconomyDataQuery
	GetTransaction      *moneyquery.GetTransactionQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, errNotConfigured("command/query service")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		ClientLogin:     moneycommand.NewClientLoginCommand(service),
		ClientLogout:    moneycommand.NewClientLogoutCommand(service),
		MoneyTransfer:   moneycommand.NewMoneyTransferCommand(service),
		Transfer:        moneycommand.NewTransferCommand(service),
		ObjectBuy:       moneycommand.NewObjectBuyCommand(service),
		ObjectGiveMoney: moneycommand.NewObjectGiveMoneyCommand(service),
		ValidateLandBuy: moneycommand.NewValidateLandBuyCommand(service),
		ProcessLandBuy:  moneycommand.NewProcessLandBuyCommand(service),
		ApplyCharge:     moneycommand.NewApplyChargeCommand(service),
		RequestBalance:  moneycommand.NewRequestBalanceCommand(service),
		RequestPayPrice: moneycommand.NewRequestPayPriceCommand(service),
		SendEconomyData: moneycommand.NewSendEconomyDataCommand(service),
	}
	facade.queries = Queries{
		GetBalance:          moneyquery.NewGetBalanceQuery(service),
		AmountCovered:       moneyquery.NewAmountCoveredQuery(service),
		UploadCovered:       moneyquery.NewUploadCoveredQuery(service),
		UploadCharge:        moneyquery.NewUploadChargeQuery(service),
		GroupCreationCharge: moneyquery.NewGroupCreationChargeQuery(service),
		EconomyData:         moneyquery.NewEconomyDataQuery(service),
		GetTransaction:      moneyquery.NewGetTransactionQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}
