package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-currency/core"
	goerrors "github.com/goliatone/go-errors"
	"github.com/gorilla/rpc/v2/json2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const KindJSONRPC = "jsonrpc"

const tracerName = "github.com/goliatone/go-currency/transport"

const defaultJSONRPCClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 1 << 20 // 1 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// JSONRPCAdapter calls money server methods as JSON-RPC 2.0 requests over
// HTTP POST.
type JSONRPCAdapter struct {
	Client               HTTPDoer
	Endpoint             string
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
	Tracer               trace.Tracer
}

func NewJSONRPCAdapter(endpoint string, client HTTPDoer) *JSONRPCAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultJSONRPCClientTimeout}
	}
	return &JSONRPCAdapter{
		Client:               client,
		Endpoint:             strings.TrimSpace(endpoint),
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultResponseBodyLimit,
		Tracer:               otel.Tracer(tracerName),
	}
}

func (*JSONRPCAdapter) Kind() string {
	return KindJSONRPC
}

func (a *JSONRPCAdapter) Call(ctx context.Context, method string, params any, reply any) (err error) {
	if a == nil || a.Client == nil {
		return transportError(
			"transport: jsonrpc adapter requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindJSONRPC},
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return transportError(
			"transport: rpc method is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"adapter": KindJSONRPC},
		)
	}
	endpoint, err := url.Parse(a.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: invalid money server endpoint",
			http.StatusBadRequest,
			map[string]any{"adapter": KindJSONRPC, "endpoint": a.Endpoint},
		)
	}

	tracer := a.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "ledger."+method, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("rpc.system", KindJSONRPC),
		attribute.String("rpc.method", method),
		attribute.String("server.address", endpoint.Host),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: encode rpc request",
			http.StatusBadRequest,
			map[string]any{"adapter": KindJSONRPC, "method": method},
		)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"adapter": KindJSONRPC, "method": method},
		)
	}
	for key, value := range a.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	httpRes, err := a.Client.Do(httpReq)
	if err != nil {
		return transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: execute rpc request",
			http.StatusBadGateway,
			map[string]any{"adapter": KindJSONRPC, "method": method},
		)
	}
	defer httpRes.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", httpRes.StatusCode))

	if httpRes.StatusCode < 200 || httpRes.StatusCode >= 300 {
		return transportError(
			fmt.Sprintf("transport: money server responded with status %d", httpRes.StatusCode),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"adapter": KindJSONRPC, "method": method, "status_code": httpRes.StatusCode},
		)
	}

	maxBodyBytes := resolveResponseBodyLimit(a.MaxResponseBodyBytes)
	payload, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read rpc response",
			http.StatusBadGateway,
			map[string]any{"adapter": KindJSONRPC, "method": method},
		)
	}
	if int64(len(payload)) > maxBodyBytes {
		return transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"adapter":          KindJSONRPC,
				"method":           method,
				"response_limit_b": maxBodyBytes,
			},
		)
	}

	if err := json2.DecodeClientResponse(bytes.NewReader(payload), reply); err != nil {
		metadata := map[string]any{"adapter": KindJSONRPC, "method": method}
		if fault, ok := err.(*json2.Error); ok {
			metadata["rpc_code"] = int(fault.Code)
		}
		return transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: decode rpc response",
			http.StatusBadGateway,
			metadata,
		)
	}
	return nil
}

func resolveResponseBodyLimit(adapterLimit int64) int64 {
	if adapterLimit > 0 {
		return adapterLimit
	}
	return defaultResponseBodyLimit
}

var _ core.LedgerCaller = (*JSONRPCAdapter)(nil)
