package currency

import (
	"context"

	"github.com/goliatone/go-currency/adapters/gocommand"
	"github.com/goliatone/go-currency/core"
	"github.com/goliatone/go-currency/directory"
	"github.com/goliatone/go-currency/inbound"
	"github.com/goliatone/go-currency/transport"
	"go.opentelemetry.io/otel/trace"
)

// Module wires the money service to its region registry, ledger transport
// and callback server.
type Module struct {
	service   *core.Service
	directory *directory.Registry
	handlers  *inbound.Handlers
	server    *inbound.Server
	facade    *Facade
}

type ModuleOption func(*moduleOptions)

type moduleOptions struct {
	regions           []core.Region
	serviceOptions    []core.Option
	transportRegistry *transport.Registry
	tracer            trace.Tracer
}

func WithRegions(regions ...core.Region) ModuleOption {
	return func(o *moduleOptions) {
		o.regions = append(o.regions, regions...)
	}
}

func WithServiceOptions(opts ...core.Option) ModuleOption {
	return func(o *moduleOptions) {
		o.serviceOptions = append(o.serviceOptions, opts...)
	}
}

func WithTransportRegistry(registry *transport.Registry) ModuleOption {
	return func(o *moduleOptions) {
		o.transportRegistry = registry
	}
}

func WithTracer(tracer trace.Tracer) ModuleOption {
	return func(o *moduleOptions) {
		o.tracer = tracer
	}
}

func NewModule(cfg Config, opts ...ModuleOption) (*Module, error) {
	options := moduleOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}
	if options.transportRegistry == nil {
		options.transportRegistry = transport.NewDefaultRegistry()
	}

	registry := directory.NewRegistry(options.regions...)
	serviceOptions := append([]core.Option{
		core.WithSessionDirectory(registry),
		core.WithLedgerFactory(func(resolved core.Config) (core.LedgerCaller, error) {
			return transport.ForConfig(options.transportRegistry, resolved)
		}),
	}, options.serviceOptions...)

	svc, err := core.NewService(cfg, serviceOptions...)
	if err != nil {
		return nil, err
	}

	handlerOpts := []inbound.HandlerOption{inbound.WithLogger(svc.Dependencies().Logger)}
	if options.tracer != nil {
		handlerOpts = append(handlerOpts, inbound.WithTracer(options.tracer))
	}
	handlers, err := inbound.NewHandlers(svc, handlerOpts...)
	if err != nil {
		return nil, err
	}
	server, err := inbound.NewServer(handlers, svc.Config().Callback)
	if err != nil {
		return nil, err
	}
	facade, err := NewFacade(svc)
	if err != nil {
		return nil, err
	}

	return &Module{
		service:   svc,
		directory: registry,
		handlers:  handlers,
		server:    server,
		facade:    facade,
	}, nil
}

func (m *Module) Service() *core.Service {
	if m == nil {
		return nil
	}
	return m.service
}

// Regions is the live registry of hosted regions. Regions added here become
// visible to session lookups immediately.
func (m *Module) Regions() *directory.Registry {
	if m == nil {
		return nil
	}
	return m.directory
}

func (m *Module) Handlers() *inbound.Handlers {
	if m == nil {
		return nil
	}
	return m.handlers
}

func (m *Module) CallbackServer() *inbound.Server {
	if m == nil {
		return nil
	}
	return m.server
}

func (m *Module) Facade() *Facade {
	if m == nil {
		return nil
	}
	return m.facade
}

// RegisterCommands subscribes every money command and query on the go-command
// dispatcher.
func (m *Module) RegisterCommands(adapter *gocommand.RegistryAdapter) (gocommand.Subscriptions, error) {
	if m == nil || m.service == nil {
		return nil, errNotConfigured("module")
	}
	return gocommand.RegisterMoneyModule(adapter, m.service)
}

// Serve runs the callback server until ctx is cancelled.
func (m *Module) Serve(ctx context.Context) error {
	if m == nil || m.server == nil {
		return errNotConfigured("callback server")
	}
	return m.server.Start(ctx)
}
