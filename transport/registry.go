package transport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
)

type AdapterFactory func(config map[string]any) (core.LedgerCaller, error)

// Registry resolves ledger transports by kind. Concrete adapters win over
// factories registered under the same kind.
type Registry struct {
	mu        sync.RWMutex
	adapters  map[string]core.LedgerCaller
	factories map[string]AdapterFactory
}

func NewRegistry() *Registry {
	return &Registry{
		adapters:  map[string]core.LedgerCaller{},
		factories: map[string]AdapterFactory{},
	}
}

// NewDefaultRegistry knows the JSON-RPC transport.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	_ = registry.RegisterFactory(KindJSONRPC, jsonRPCFactory)
	return registry
}

func (r *Registry) Register(adapter core.LedgerCaller) error {
	if r == nil {
		return errNilRegistry("transport: registry is nil", "")
	}
	if adapter == nil {
		return errRegistryInput("transport: adapter is nil", "")
	}
	kind := normalizeKind(adapter.Kind())
	if kind == "" {
		return errRegistryInput("transport: adapter kind is required", "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[kind]; exists {
		return errKindConflict("adapter", kind)
	}
	r.adapters[kind] = adapter
	return nil
}

func (r *Registry) RegisterFactory(kind string, factory AdapterFactory) error {
	if r == nil {
		return errNilRegistry("transport: registry is nil", "")
	}
	kind = normalizeKind(kind)
	if kind == "" {
		return errRegistryInput("transport: adapter kind is required", "")
	}
	if factory == nil {
		return errRegistryInput("transport: adapter factory is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return errKindConflict("adapter factory", kind)
	}
	r.factories[kind] = factory
	return nil
}

func (r *Registry) Build(kind string, config map[string]any) (core.LedgerCaller, error) {
	if r == nil {
		return nil, errNilRegistry("transport: registry is nil", "")
	}
	kind = normalizeKind(kind)
	if kind == "" {
		return nil, errRegistryInput("transport: adapter kind is required", "")
	}

	r.mu.RLock()
	adapter, ok := r.adapters[kind]
	factory := r.factories[kind]
	r.mu.RUnlock()
	if ok {
		return adapter, nil
	}
	if factory == nil {
		return nil, transportError(
			"transport: adapter kind not registered",
			goerrors.CategoryOperation,
			http.StatusNotFound,
			map[string]any{"kind": kind},
		)
	}
	built, err := factory(cloneMap(config))
	if err != nil {
		return nil, err
	}
	if built == nil {
		return nil, errNilRegistry("transport: factory returned nil adapter", kind)
	}
	return built, nil
}

func (r *Registry) Get(kind string) (core.LedgerCaller, bool) {
	if r == nil {
		return nil, false
	}
	kind = normalizeKind(kind)
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[kind]
	return adapter, ok
}

func (r *Registry) List() []core.LedgerCaller {
	if r == nil {
		return []core.LedgerCaller{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.adapters))
	for kind := range r.adapters {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	result := make([]core.LedgerCaller, 0, len(kinds))
	for _, kind := range kinds {
		result = append(result, r.adapters[kind])
	}
	return result
}

// ForConfig builds the ledger transport described by cfg: JSON-RPC when a
// money server URL is set, nil otherwise.
func ForConfig(registry *Registry, cfg core.Config) (core.LedgerCaller, error) {
	if !cfg.LedgerConfigured() {
		return nil, nil
	}
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	return registry.Build(KindJSONRPC, map[string]any{
		"endpoint": cfg.MoneyServerURL,
		"timeout":  cfg.RequestTimeout(),
	})
}

func normalizeKind(kind string) string {
	return strings.TrimSpace(strings.ToLower(kind))
}

func jsonRPCFactory(config map[string]any) (core.LedgerCaller, error) {
	endpoint := strings.TrimSpace(fmt.Sprint(config["endpoint"]))
	if endpoint == "" || endpoint == "<nil>" {
		return nil, errRegistryInput("transport: jsonrpc endpoint is required", KindJSONRPC)
	}
	var client HTTPDoer
	if doer, ok := config["client"].(HTTPDoer); ok && doer != nil {
		client = doer
	} else if timeout, ok := config["timeout"].(time.Duration); ok && timeout > 0 {
		client = &http.Client{Timeout: timeout}
	}
	return NewJSONRPCAdapter(endpoint, client), nil
}

func cloneMap(input map[string]any) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	output := make(map[string]any, len(input))
	for key, value := range input {
		output[key] = value
	}
	return output
}
