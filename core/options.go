package core

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type serviceBuilder struct {
	runtimeConfig     Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	directory         SessionDirectory
	ledger            LedgerCaller
	ledgerFactory     LedgerFactory
	objectPaidHandler ObjectPaidHandler
	balanceCache      *BalanceCache
	clock             func() time.Time
}

type Option func(*serviceBuilder)

// LedgerFactory builds the ledger transport from the resolved configuration.
type LedgerFactory func(cfg Config) (LedgerCaller, error)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorFactory(factory ErrorFactory) Option {
	return func(b *serviceBuilder) {
		b.errorFactory = factory
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

// WithSessionDirectory sets the registry used to resolve sessions, regions
// and objects.
func WithSessionDirectory(directory SessionDirectory) Option {
	return func(b *serviceBuilder) {
		b.directory = directory
	}
}

// WithLedger sets the transport used to reach the money server. It is
// required when money_server_url is configured.
func WithLedger(ledger LedgerCaller) Option {
	return func(b *serviceBuilder) {
		b.ledger = ledger
	}
}

// WithLedgerFactory defers building the ledger until configuration layers
// are resolved. An explicit WithLedger wins.
func WithLedgerFactory(factory LedgerFactory) Option {
	return func(b *serviceBuilder) {
		b.ledgerFactory = factory
	}
}

func WithObjectPaidHandler(handler ObjectPaidHandler) Option {
	return func(b *serviceBuilder) {
		b.objectPaidHandler = handler
	}
}

func WithBalanceCache(cache *BalanceCache) Option {
	return func(b *serviceBuilder) {
		b.balanceCache = cache
	}
}

func WithClock(clock func() time.Time) Option {
	return func(b *serviceBuilder) {
		b.clock = clock
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	loggerProvider, logger := glog.Resolve("currency", nil, nil)
	return serviceBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorFactory:    goerrors.New,
		errorMapper:     defaultErrorMapper,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		directory:       emptyDirectory{},
		balanceCache:    NewBalanceCache(),
		clock:           time.Now,
	}
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	return moneyErrorMapper(err)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// StaticConfigLoader returns a RawConfigLoader serving a fixed map.
func StaticConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GoOptionsResolver layers defaults, the loaded configuration and runtime
// overrides. Runtime values only override when set; booleans can only be
// switched on from the runtime layer.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, true)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, errOptionsResolve("stack build", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, errOptionsResolve("merge", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	setString := func(target map[string]any, key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			target[key] = value
		}
	}
	setBool := func(target map[string]any, key string, value bool) {
		if includeZero || value {
			target[key] = value
		}
	}

	setString(layer, "service_name", cfg.ServiceName)
	setBool(layer, "disabled", cfg.Disabled)
	setString(layer, "money_server_url", cfg.MoneyServerURL)
	setString(layer, "user_server_url", cfg.UserServerURL)
	setBool(layer, "sell_enabled", cfg.SellEnabled)
	if includeZero || cfg.RequestTimeoutMS > 0 {
		layer["request_timeout_ms"] = cfg.RequestTimeoutMS
	}

	callback := map[string]any{}
	setString(callback, "listen_addr", cfg.Callback.ListenAddr)
	setString(callback, "path", cfg.Callback.Path)
	setString(callback, "service_name", cfg.Callback.ServiceName)
	if len(callback) > 0 {
		layer["callback"] = callback
	}

	if prices := priceScheduleToMap(cfg.Prices, includeZero); len(prices) > 0 {
		layer["prices"] = prices
	}
	return layer
}

// priceScheduleToMap drops unset tariffs unless includeZero is set, so a
// runtime override of one tariff keeps the defaults of the others.
func priceScheduleToMap(prices PriceSchedule, includeZero bool) map[string]any {
	out := map[string]any{}
	setInt := func(key string, value int) {
		if includeZero || value != 0 {
			out[key] = value
		}
	}
	setFloat := func(key string, value float64) {
		if includeZero || value != 0 {
			out[key] = value
		}
	}
	setInt("energy_unit", prices.EnergyUnit)
	setInt("object_claim", prices.ObjectClaim)
	setInt("public_object_decay", prices.PublicObjectDecay)
	setInt("public_object_delete", prices.PublicObjectDelete)
	setInt("parcel_claim", prices.ParcelClaim)
	setFloat("parcel_claim_factor", prices.ParcelClaimFactor)
	setInt("upload", prices.Upload)
	setInt("rent_light", prices.RentLight)
	setFloat("object_rent", prices.ObjectRent)
	setFloat("object_scale_factor", prices.ObjectScaleFactor)
	setInt("parcel_rent", prices.ParcelRent)
	setInt("group_create", prices.GroupCreate)
	setInt("teleport_min_price", prices.TeleportMinPrice)
	setFloat("teleport_price_exponent", prices.TeleportPriceExponent)
	setFloat("energy_efficiency", prices.EnergyEfficiency)
	return out
}
