package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-currency/core"
)

var (
	_ gocmd.Commander[ClientLoginMessage]     = (*ClientLoginCommand)(nil)
	_ gocmd.Commander[ClientLogoutMessage]    = (*ClientLogoutCommand)(nil)
	_ gocmd.Commander[MoneyTransferMessage]   = (*MoneyTransferCommand)(nil)
	_ gocmd.Commander[TransferMessage]        = (*TransferCommand)(nil)
	_ gocmd.Commander[ObjectBuyMessage]       = (*ObjectBuyCommand)(nil)
	_ gocmd.Commander[ObjectGiveMoneyMessage] = (*ObjectGiveMoneyCommand)(nil)
	_ gocmd.Commander[ValidateLandBuyMessage] = (*ValidateLandBuyCommand)(nil)
	_ gocmd.Commander[ProcessLandBuyMessage]  = (*ProcessLandBuyCommand)(nil)
	_ gocmd.Commander[ApplyChargeMessage]     = (*ApplyChargeCommand)(nil)
	_ gocmd.Commander[RequestBalanceMessage]  = (*RequestBalanceCommand)(nil)
	_ gocmd.Commander[RequestPayPriceMessage] = (*RequestPayPriceCommand)(nil)
	_ gocmd.Commander[SendEconomyDataMessage] = (*SendEconomyDataCommand)(nil)

	_ MoneyService = (*core.Service)(nil)
)
