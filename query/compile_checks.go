package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-currency/core"
)

var (
	_ gocmd.Querier[GetBalanceMessage, int]                        = (*GetBalanceQuery)(nil)
	_ gocmd.Querier[AmountCoveredMessage, bool]                    = (*AmountCoveredQuery)(nil)
	_ gocmd.Querier[UploadCoveredMessage, bool]                    = (*UploadCoveredQuery)(nil)
	_ gocmd.Querier[UploadChargeMessage, int]                      = (*UploadChargeQuery)(nil)
	_ gocmd.Querier[GroupCreationChargeMessage, int]               = (*GroupCreationChargeQuery)(nil)
	_ gocmd.Querier[EconomyDataMessage, core.EconomyData]          = (*EconomyDataQuery)(nil)
	_ gocmd.Querier[GetTransactionMessage, core.TransactionRecord] = (*GetTransactionQuery)(nil)

	_ BalanceReader     = (*core.Service)(nil)
	_ TransactionReader = (*core.Service)(nil)
)
