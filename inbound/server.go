package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	DefaultListenAddr  = ":9000"
	DefaultPath        = "/rpc"
	DefaultServiceName = "MoneyModule"
	HealthPath         = "/health"

	shutdownTimeout = 5 * time.Second
)

// MoneyModuleService adapts Handlers to the gorilla/rpc method shape. It is
// registered as "MoneyModule" so methods are called as
// "MoneyModule.UpdateBalance" and so on.
type MoneyModuleService struct {
	handlers *Handlers
}

func NewMoneyModuleService(handlers *Handlers) *MoneyModuleService {
	return &MoneyModuleService{handlers: handlers}
}

func (s *MoneyModuleService) UpdateBalance(r *http.Request, args *UpdateBalanceArgs, reply *Reply) error {
	*reply = s.handlers.UpdateBalance(r.Context(), *args)
	return nil
}

func (s *MoneyModuleService) UserAlert(r *http.Request, args *UserAlertArgs, reply *Reply) error {
	*reply = s.handlers.UserAlert(r.Context(), *args)
	return nil
}

func (s *MoneyModuleService) OnMoneyTransfered(r *http.Request, args *MoneyTransferedArgs, reply *Reply) error {
	*reply = s.handlers.OnMoneyTransfered(r.Context(), *args)
	return nil
}

func (s *MoneyModuleService) AddBankerMoney(r *http.Request, args *AddBankerMoneyArgs, reply *Reply) error {
	*reply = s.handlers.AddBankerMoney(r.Context(), *args)
	return nil
}

func (s *MoneyModuleService) SendMoneyBalance(r *http.Request, args *SendMoneyBalanceArgs, reply *Reply) error {
	*reply = s.handlers.SendMoneyBalance(r.Context(), RemoteIP(r), *args)
	return nil
}

func (s *MoneyModuleService) GetBalance(r *http.Request, args *GetBalanceArgs, reply *BalanceReply) error {
	*reply = s.handlers.GetBalance(r.Context(), *args)
	return nil
}

// RemoteIP returns the host part of the request's remote address.
func RemoteIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

// Server exposes the callback handlers as JSON-RPC 2.0 over HTTP.
type Server struct {
	config   core.CallbackConfig
	handlers *Handlers
	mux      *http.ServeMux
}

func NewServer(handlers *Handlers, cfg core.CallbackConfig) (*Server, error) {
	if handlers == nil {
		return nil, inboundInternal("inbound: handlers are required", nil)
	}
	cfg = normalizeCallbackConfig(cfg)

	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(json2.NewCodec(), "application/json")
	rpcServer.RegisterCodec(json2.NewCodec(), "application/json;charset=UTF-8")
	if err := rpcServer.RegisterService(NewMoneyModuleService(handlers), cfg.ServiceName); err != nil {
		return nil, inboundWrapError(
			err,
			goerrors.CategoryInternal,
			"inbound: register rpc service",
			http.StatusInternalServerError,
			core.MoneyErrorInternal,
			map[string]any{"service": cfg.ServiceName},
		)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, extractTraceContext(rpcServer))
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return &Server{config: cfg, handlers: handlers, mux: mux}, nil
}

func (s *Server) Config() core.CallbackConfig {
	return s.config
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger := s.handlers.logger
	logger.Info("starting callback server", "addr", s.config.ListenAddr, "path", s.config.Path)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("callback server failed", "error", err.Error())
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down callback server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// extractTraceContext continues a trace started by the money server.
func extractTraceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func normalizeCallbackConfig(cfg core.CallbackConfig) core.CallbackConfig {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if strings.TrimSpace(cfg.Path) == "" {
		cfg.Path = DefaultPath
	}
	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = DefaultServiceName
	}
	return cfg
}
