package core

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	directory         SessionDirectory
	ledger            LedgerCaller
	objectPaidHandler ObjectPaidHandler
	balances          *BalanceCache
	clock             func() time.Time
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	Directory         SessionDirectory
	Ledger            LedgerCaller
	ObjectPaidHandler ObjectPaidHandler
	BalanceCache      *BalanceCache
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("currency", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("currency"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.directory == nil {
		builder.directory = emptyDirectory{}
	}
	if builder.balanceCache == nil {
		builder.balanceCache = NewBalanceCache()
	}
	if builder.clock == nil {
		builder.clock = time.Now
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	if builder.ledger == nil && builder.ledgerFactory != nil {
		ledger, err := builder.ledgerFactory(finalConfig)
		if err != nil {
			return nil, mapBuildError(builder.errorMapper, err)
		}
		builder.ledger = ledger
	}
	if finalConfig.LedgerConfigured() && builder.ledger == nil {
		return nil, mapBuildError(builder.errorMapper, errLedgerRequired())
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		directory:         builder.directory,
		ledger:            builder.ledger,
		objectPaidHandler: builder.objectPaidHandler,
		balances:          builder.balanceCache,
		clock:             builder.clock,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		Directory:         s.directory,
		Ledger:            s.ledger,
		ObjectPaidHandler: s.objectPaidHandler,
		BalanceCache:      s.balances,
	}
}

func (s *Service) Directory() SessionDirectory {
	if s == nil || s.directory == nil {
		return emptyDirectory{}
	}
	return s.directory
}

// CacheBalance records a balance reported by the money server.
func (s *Service) CacheBalance(userID uuid.UUID, balance int) {
	if s == nil {
		return
	}
	s.balances.Store(userID, balance)
}

// NotifyObjectPaid hands a paid-object notification to the registered
// handler, if any.
func (s *Service) NotifyObjectPaid(ctx context.Context, event ObjectPaid) {
	if s == nil || s.objectPaidHandler == nil {
		return
	}
	s.objectPaidHandler.ObjectPaid(ctx, event)
}

func (s *Service) enabled() error {
	if s == nil || s.config.Disabled {
		return errModuleDisabled()
	}
	return nil
}

func (s *Service) now() time.Time {
	if s == nil || s.clock == nil {
		return time.Now()
	}
	return s.clock()
}
