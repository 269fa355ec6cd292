package currency

import "github.com/goliatone/go-currency/core"

type Config = core.Config

type CallbackConfig = core.CallbackConfig

type PriceSchedule = core.PriceSchedule

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type LedgerCaller = core.LedgerCaller
type LedgerFactory = core.LedgerFactory
type SessionDirectory = core.SessionDirectory
type ObjectPaidHandler = core.ObjectPaidHandler

type TransactionType = core.TransactionType
type TransferRequest = core.TransferRequest
type MoneyTransferEvent = core.MoneyTransferEvent
type ObjectBuyRequest = core.ObjectBuyRequest
type BalanceRequest = core.BalanceRequest
type LandBuy = core.LandBuy
type ObjectPaid = core.ObjectPaid

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithSessionDirectory  = core.WithSessionDirectory
	WithLedger            = core.WithLedger
	WithLedgerFactory     = core.WithLedgerFactory
	WithObjectPaidHandler = core.WithObjectPaidHandler
	WithBalanceCache      = core.WithBalanceCache
	WithClock             = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
