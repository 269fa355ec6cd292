package inbound

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/goliatone/go-currency/core"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-currency/inbound"

// MoneyServerSender is the sender name shown on alerts forwarded from the
// money server.
const MoneyServerSender = "MoneyServer"

// Handlers implements the callbacks the money server (and trusted scripts)
// make into the region. Every handler replies with a bare success flag;
// refusal reasons only reach the local log.
type Handlers struct {
	bridge core.CallbackBridge
	logger core.Logger
	tracer trace.Tracer
}

type HandlerOption func(*Handlers)

func WithLogger(logger core.Logger) HandlerOption {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) HandlerOption {
	return func(h *Handlers) {
		if tracer != nil {
			h.tracer = tracer
		}
	}
}

func NewHandlers(bridge core.CallbackBridge, opts ...HandlerOption) (*Handlers, error) {
	if bridge == nil {
		return nil, inboundInternal("inbound: callback bridge is required", nil)
	}
	handlers := &Handlers{
		bridge: bridge,
		logger: glog.Nop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handlers)
		}
	}
	return handlers, nil
}

func (h *Handlers) UpdateBalance(ctx context.Context, args UpdateBalanceArgs) Reply {
	ctx, span := h.start(ctx, "UpdateBalance")
	err := h.updateBalance(ctx, args)
	h.finish(ctx, span, "UpdateBalance", err)
	return Reply{Success: err == nil}
}

func (h *Handlers) updateBalance(ctx context.Context, args UpdateBalanceArgs) error {
	client, userID, err := h.authenticate(args.ClientUUID, args.ClientSessionID, args.ClientSecureSessionID)
	if err != nil {
		return err
	}
	if args.Balance == nil {
		return inboundBadInput("inbound: Balance is required", nil)
	}
	client.SendMoneyBalance(uuid.New(), true, stringValue(args.Message), *args.Balance)
	h.bridge.CacheBalance(userID, *args.Balance)
	return nil
}

func (h *Handlers) UserAlert(ctx context.Context, args UserAlertArgs) Reply {
	ctx, span := h.start(ctx, "UserAlert")
	err := h.userAlert(args)
	h.finish(ctx, span, "UserAlert", err)
	return Reply{Success: err == nil}
}

func (h *Handlers) userAlert(args UserAlertArgs) error {
	client, userID, err := h.authenticate(args.ClientUUID, args.ClientSessionID, args.ClientSecureSessionID)
	if err != nil {
		return err
	}
	if args.Description == nil {
		return inboundBadInput("inbound: Description is required", nil)
	}
	client.SendInstantMessage(core.InstantMessage{
		FromID:   uuid.Nil,
		FromName: MoneyServerSender,
		ToID:     userID,
		Message:  *args.Description,
	})
	return nil
}

// OnMoneyTransfered confirms a completed transfer. Only object-pays
// transfers raise the object paid notification.
func (h *Handlers) OnMoneyTransfered(ctx context.Context, args MoneyTransferedArgs) Reply {
	ctx, span := h.start(ctx, "OnMoneyTransfered")
	err := h.onMoneyTransfered(ctx, args)
	h.finish(ctx, span, "OnMoneyTransfered", err)
	return Reply{Success: err == nil}
}

func (h *Handlers) onMoneyTransfered(ctx context.Context, args MoneyTransferedArgs) error {
	if args.ReceiverID == nil {
		return inboundBadInput("inbound: receiverID is required", nil)
	}
	_, senderID, err := h.authenticate(args.SenderID, args.SenderSessionID, args.SenderSecureSessionID)
	if err != nil {
		return err
	}
	if args.TransactionType == nil || args.ObjectID == nil || args.Amount == nil {
		return inboundBadInput("inbound: transactionType, objectID and amount are required", nil)
	}
	if core.TransactionType(*args.TransactionType) != core.TransactionObjectPays {
		return nil
	}
	objectID, err := uuid.Parse(*args.ObjectID)
	if err != nil {
		return inboundBadInput("inbound: objectID is invalid", map[string]any{"object_id": *args.ObjectID})
	}
	h.bridge.NotifyObjectPaid(ctx, core.ObjectPaid{
		ObjectID: objectID,
		PayerID:  senderID,
		Amount:   *args.Amount,
	})
	return nil
}

func (h *Handlers) AddBankerMoney(ctx context.Context, args AddBankerMoneyArgs) Reply {
	ctx, span := h.start(ctx, "AddBankerMoney")
	err := h.addBankerMoney(ctx, args)
	h.finish(ctx, span, "AddBankerMoney", err)
	return Reply{Success: err == nil}
}

func (h *Handlers) addBankerMoney(ctx context.Context, args AddBankerMoneyArgs) error {
	_, bankerID, err := h.authenticate(args.BankerID, args.BankerSessionID, args.BankerSecureSessionID)
	if err != nil {
		return err
	}
	if args.Amount == nil {
		return inboundBadInput("inbound: amount is required", nil)
	}
	region, ok := h.bridge.Directory().FindRegion(bankerID)
	if !ok {
		return inboundUnauthenticated("inbound: banker region not found", map[string]any{"banker_id": bankerID.String()})
	}
	if !h.bridge.AddBankerMoney(ctx, bankerID, *args.Amount, region.Handle()) {
		return inboundOperationFailed("inbound: add banker money failed", map[string]any{"banker_id": bankerID.String()})
	}
	return nil
}

// SendMoneyBalance credits an avatar on behalf of a script. No live session
// is required; the secret code is bound to the caller's address instead.
func (h *Handlers) SendMoneyBalance(ctx context.Context, remoteIP string, args SendMoneyBalanceArgs) Reply {
	ctx, span := h.start(ctx, "SendMoneyBalance")
	span.SetAttributes(attribute.String("client.address", remoteIP))
	err := h.sendMoneyBalance(ctx, remoteIP, args)
	h.finish(ctx, span, "SendMoneyBalance", err)
	return Reply{Success: err == nil}
}

func (h *Handlers) sendMoneyBalance(ctx context.Context, remoteIP string, args SendMoneyBalanceArgs) error {
	if args.AvatarID == nil || args.SecretCode == nil || args.Amount == nil {
		return inboundBadInput("inbound: avatarID, secretCode and amount are required", nil)
	}
	avatarID, err := uuid.Parse(*args.AvatarID)
	if err != nil || avatarID == uuid.Nil {
		return inboundBadInput("inbound: avatarID is invalid", nil)
	}
	token := SecretToken(*args.SecretCode, remoteIP)
	if !h.bridge.SendMoneyBalance(ctx, avatarID, *args.Amount, token) {
		return inboundOperationFailed("inbound: send money balance failed", map[string]any{"avatar_id": avatarID.String()})
	}
	return nil
}

// GetBalance is the server initiated balance query.
func (h *Handlers) GetBalance(ctx context.Context, args GetBalanceArgs) BalanceReply {
	ctx, span := h.start(ctx, "GetBalance")
	balance, err := h.getBalance(ctx, args)
	h.finish(ctx, span, "GetBalance", err)
	if err != nil {
		return BalanceReply{Success: false, Balance: -1}
	}
	return BalanceReply{Success: true, Balance: balance}
}

func (h *Handlers) getBalance(ctx context.Context, args GetBalanceArgs) (int, error) {
	client, _, err := h.authenticate(args.ClientID, args.ClientSessionID, args.ClientSecureSessionID)
	if err != nil {
		return -1, err
	}
	balance, err := h.bridge.QueryBalance(ctx, client)
	if err != nil {
		return -1, err
	}
	if balance < 0 {
		return -1, inboundOperationFailed("inbound: balance unavailable", nil)
	}
	return balance, nil
}

// SecretToken is the lowercase hex MD5 of secretCode + "_" + remoteIP.
func SecretToken(secretCode string, remoteIP string) string {
	sum := md5.Sum([]byte(secretCode + "_" + remoteIP))
	return hex.EncodeToString(sum[:])
}

// authenticate resolves the claimed user's live root session and compares
// the full credential triple.
func (h *Handlers) authenticate(userID *string, sessionID *string, secureSessionID *string) (core.Client, uuid.UUID, error) {
	if userID == nil || sessionID == nil || secureSessionID == nil {
		return nil, uuid.Nil, inboundBadInput("inbound: session credential is incomplete", nil)
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*userID))
	if err != nil || parsed == uuid.Nil {
		return nil, uuid.Nil, inboundBadInput("inbound: user id is invalid", nil)
	}
	client, ok := h.bridge.Directory().FindSession(parsed)
	if !ok {
		return nil, parsed, inboundUnauthenticated("inbound: no live session", map[string]any{"user_id": parsed.String()})
	}
	if !client.Credential().MatchesClaim(*userID, *sessionID, *secureSessionID) {
		return nil, parsed, inboundUnauthenticated("inbound: session credential mismatch", map[string]any{"user_id": parsed.String()})
	}
	return client, parsed, nil
}

func (h *Handlers) start(ctx context.Context, method string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := h.tracer.Start(ctx, "callback."+method, trace.WithSpanKind(trace.SpanKindServer))
	span.SetAttributes(
		attribute.String("rpc.system", "jsonrpc"),
		attribute.String("rpc.method", method),
	)
	return ctx, span
}

func (h *Handlers) finish(ctx context.Context, span trace.Span, method string, err error) {
	defer span.End()
	logger := h.logger.WithContext(ctx)
	if err == nil {
		logger.Debug("callback handled", "method", method)
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Warn("callback refused",
		"method", method,
		"error_code", core.TextCode(err),
		"error", err.Error(),
	)
}
