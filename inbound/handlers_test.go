package inbound

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-currency/core"
	"github.com/goliatone/go-currency/directory"
	"github.com/google/uuid"
)

type bankerCall struct {
	bankerID     uuid.UUID
	amount       int
	regionHandle uint64
}

type sendCall struct {
	avatarID uuid.UUID
	amount   int
	token    string
}

type stubBridge struct {
	registry *directory.Registry

	mu          sync.Mutex
	cached      map[uuid.UUID]int
	balance     int
	balanceErr  error
	bankerOK    bool
	sendOK      bool
	bankerCalls []bankerCall
	sendCalls   []sendCall
	paid        []core.ObjectPaid
}

func newStubBridge(regions ...core.Region) *stubBridge {
	return &stubBridge{
		registry: directory.NewRegistry(regions...),
		cached:   map[uuid.UUID]int{},
		balance:  75,
		bankerOK: true,
		sendOK:   true,
	}
}

func (b *stubBridge) Directory() core.SessionDirectory { return b.registry }

func (b *stubBridge) CacheBalance(userID uuid.UUID, balance int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cached[userID] = balance
}

func (b *stubBridge) QueryBalance(context.Context, core.Client) (int, error) {
	if b.balanceErr != nil {
		return -1, b.balanceErr
	}
	return b.balance, nil
}

func (b *stubBridge) AddBankerMoney(_ context.Context, bankerID uuid.UUID, amount int, regionHandle uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bankerCalls = append(b.bankerCalls, bankerCall{bankerID: bankerID, amount: amount, regionHandle: regionHandle})
	return b.bankerOK
}

func (b *stubBridge) SendMoneyBalance(_ context.Context, avatarID uuid.UUID, amount int, token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendCalls = append(b.sendCalls, sendCall{avatarID: avatarID, amount: amount, token: token})
	return b.sendOK
}

func (b *stubBridge) NotifyObjectPaid(_ context.Context, event core.ObjectPaid) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paid = append(b.paid, event)
}

type fixture struct {
	bridge   *stubBridge
	handlers *Handlers
	region   *directory.MemoryRegion
	client   *directory.RecordingClient
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	region := directory.NewMemoryRegion(4242, uuid.New())
	client := directory.NewSessionClient(uuid.New(), "Ada")
	region.AddRoot(client)
	bridge := newStubBridge(region)
	handlers, err := NewHandlers(bridge)
	if err != nil {
		t.Fatalf("new handlers: %v", err)
	}
	return fixture{bridge: bridge, handlers: handlers, region: region, client: client}
}

func ptr[T any](value T) *T {
	return &value
}

type credentialTriple struct {
	user, session, secure string
}

func (f fixture) triple() credentialTriple {
	cred := f.client.Credential()
	return credentialTriple{
		user:    cred.UserID.String(),
		session: cred.SessionID.String(),
		secure:  cred.SecureSessionID.String(),
	}
}

func (c credentialTriple) mutations() map[string]credentialTriple {
	return map[string]credentialTriple{
		"user":    {user: uuid.NewString(), session: c.session, secure: c.secure},
		"session": {user: c.user, session: uuid.NewString(), secure: c.secure},
		"secure":  {user: c.user, session: c.session, secure: uuid.NewString()},
	}
}

func TestHandlers_CredentialMutationIsRefusedForEveryHandler(t *testing.T) {
	f := newFixture(t)
	valid := f.triple()

	calls := map[string]func(c credentialTriple) bool{
		"UpdateBalance": func(c credentialTriple) bool {
			return f.handlers.UpdateBalance(context.Background(), UpdateBalanceArgs{
				ClientCredentialArgs: ClientCredentialArgs{ClientUUID: &c.user, ClientSessionID: &c.session, ClientSecureSessionID: &c.secure},
				Balance:              ptr(10),
			}).Success
		},
		"UserAlert": func(c credentialTriple) bool {
			return f.handlers.UserAlert(context.Background(), UserAlertArgs{
				ClientCredentialArgs: ClientCredentialArgs{ClientUUID: &c.user, ClientSessionID: &c.session, ClientSecureSessionID: &c.secure},
				Description:          ptr("notice"),
			}).Success
		},
		"OnMoneyTransfered": func(c credentialTriple) bool {
			return f.handlers.OnMoneyTransfered(context.Background(), MoneyTransferedArgs{
				SenderID:              &c.user,
				ReceiverID:            ptr(uuid.NewString()),
				SenderSessionID:       &c.session,
				SenderSecureSessionID: &c.secure,
				TransactionType:       ptr(int(core.TransactionGift)),
				ObjectID:              ptr(uuid.Nil.String()),
				Amount:                ptr(5),
			}).Success
		},
		"AddBankerMoney": func(c credentialTriple) bool {
			return f.handlers.AddBankerMoney(context.Background(), AddBankerMoneyArgs{
				BankerID:              &c.user,
				BankerSessionID:       &c.session,
				BankerSecureSessionID: &c.secure,
				Amount:                ptr(100),
			}).Success
		},
		"GetBalance": func(c credentialTriple) bool {
			return f.handlers.GetBalance(context.Background(), GetBalanceArgs{
				ClientID:              &c.user,
				ClientSessionID:       &c.session,
				ClientSecureSessionID: &c.secure,
			}).Success
		},
	}

	for name, call := range calls {
		if !call(valid) {
			t.Fatalf("%s: expected valid credential to succeed", name)
		}
		for field, mutated := range valid.mutations() {
			if call(mutated) {
				t.Fatalf("%s: expected mutated %s to be refused", name, field)
			}
		}
	}
	if len(f.bridge.bankerCalls) != 1 {
		t.Fatalf("expected banker credit only for the valid call, got %d", len(f.bridge.bankerCalls))
	}
}

func TestHandlers_MissingParametersAreRefused(t *testing.T) {
	f := newFixture(t)
	c := f.triple()

	if f.handlers.UpdateBalance(context.Background(), UpdateBalanceArgs{
		ClientCredentialArgs: ClientCredentialArgs{ClientUUID: &c.user, ClientSessionID: &c.session, ClientSecureSessionID: &c.secure},
	}).Success {
		t.Fatalf("expected UpdateBalance without Balance to fail")
	}
	if f.handlers.UserAlert(context.Background(), UserAlertArgs{
		ClientCredentialArgs: ClientCredentialArgs{ClientUUID: &c.user, ClientSessionID: &c.session},
		Description:          ptr("notice"),
	}).Success {
		t.Fatalf("expected UserAlert without secure session id to fail")
	}
	if f.handlers.SendMoneyBalance(context.Background(), "203.0.113.7", SendMoneyBalanceArgs{AvatarID: &c.user, Amount: ptr(1)}).Success {
		t.Fatalf("expected SendMoneyBalance without secret code to fail")
	}
	if len(f.client.Balances()) != 0 || len(f.client.InstantMessages()) != 0 || len(f.bridge.sendCalls) != 0 {
		t.Fatalf("expected no side effects from malformed callbacks")
	}
}

func TestHandlers_UpdateBalanceDisplaysAndCaches(t *testing.T) {
	f := newFixture(t)
	c := f.triple()

	reply := f.handlers.UpdateBalance(context.Background(), UpdateBalanceArgs{
		ClientCredentialArgs: ClientCredentialArgs{ClientUUID: &c.user, ClientSessionID: &c.session, ClientSecureSessionID: &c.secure},
		Balance:              ptr(640),
		Message:              ptr("You paid L$10"),
	})
	if !reply.Success {
		t.Fatalf("expected success")
	}
	balances := f.client.Balances()
	if len(balances) != 1 || balances[0].Balance != 640 || balances[0].Description != "You paid L$10" {
		t.Fatalf("unexpected balance notices: %#v", balances)
	}
	if f.bridge.cached[f.client.Credential().UserID] != 640 {
		t.Fatalf("expected pushed balance to be cached")
	}
}

func TestHandlers_UserAlertSendsInstantMessage(t *testing.T) {
	f := newFixture(t)
	c := f.triple()

	if !f.handlers.UserAlert(context.Background(), UserAlertArgs{
		ClientCredentialArgs: ClientCredentialArgs{ClientUUID: &c.user, ClientSessionID: &c.session, ClientSecureSessionID: &c.secure},
		Description:          ptr("maintenance at noon"),
	}).Success {
		t.Fatalf("expected success")
	}
	messages := f.client.InstantMessages()
	if len(messages) != 1 {
		t.Fatalf("expected one instant message, got %d", len(messages))
	}
	if messages[0].FromName != MoneyServerSender || messages[0].Message != "maintenance at noon" || messages[0].ToID != f.client.Credential().UserID {
		t.Fatalf("unexpected message: %#v", messages[0])
	}
}

func TestHandlers_OnMoneyTransferedNotifiesOnlyObjectPays(t *testing.T) {
	f := newFixture(t)
	c := f.triple()
	objectID := uuid.New()

	args := MoneyTransferedArgs{
		SenderID:              &c.user,
		ReceiverID:            ptr(uuid.NewString()),
		SenderSessionID:       &c.session,
		SenderSecureSessionID: &c.secure,
		TransactionType:       ptr(int(core.TransactionPayObject)),
		ObjectID:              ptr(objectID.String()),
		Amount:                ptr(30),
	}
	if !f.handlers.OnMoneyTransfered(context.Background(), args).Success {
		t.Fatalf("expected pay object confirmation to succeed")
	}
	if len(f.bridge.paid) != 0 {
		t.Fatalf("expected no notification for pay object kind")
	}

	args.TransactionType = ptr(int(core.TransactionObjectPays))
	if !f.handlers.OnMoneyTransfered(context.Background(), args).Success {
		t.Fatalf("expected object pays confirmation to succeed")
	}
	if len(f.bridge.paid) != 1 {
		t.Fatalf("expected one object paid notification, got %d", len(f.bridge.paid))
	}
	paid := f.bridge.paid[0]
	if paid.ObjectID != objectID || paid.PayerID != f.client.Credential().UserID || paid.Amount != 30 {
		t.Fatalf("unexpected notification: %#v", paid)
	}
}

func TestHandlers_AddBankerMoneyUsesSessionRegion(t *testing.T) {
	f := newFixture(t)
	c := f.triple()

	if !f.handlers.AddBankerMoney(context.Background(), AddBankerMoneyArgs{
		BankerID:              &c.user,
		BankerSessionID:       &c.session,
		BankerSecureSessionID: &c.secure,
		Amount:                ptr(500),
	}).Success {
		t.Fatalf("expected banker credit")
	}
	call := f.bridge.bankerCalls[0]
	if call.regionHandle != 4242 || call.amount != 500 || call.bankerID != f.client.Credential().UserID {
		t.Fatalf("unexpected banker call: %#v", call)
	}

	f.bridge.bankerOK = false
	if f.handlers.AddBankerMoney(context.Background(), AddBankerMoneyArgs{
		BankerID:              &c.user,
		BankerSessionID:       &c.session,
		BankerSecureSessionID: &c.secure,
		Amount:                ptr(500),
	}).Success {
		t.Fatalf("expected ledger refusal to surface as failure")
	}
}

func TestHandlers_GetBalanceFailureReportsMinusOne(t *testing.T) {
	f := newFixture(t)
	c := f.triple()
	args := GetBalanceArgs{ClientID: &c.user, ClientSessionID: &c.session, ClientSecureSessionID: &c.secure}

	reply := f.handlers.GetBalance(context.Background(), args)
	if !reply.Success || reply.Balance != 75 {
		t.Fatalf("unexpected reply: %#v", reply)
	}

	f.bridge.balanceErr = errors.New("ledger down")
	reply = f.handlers.GetBalance(context.Background(), args)
	if reply.Success || reply.Balance != -1 {
		t.Fatalf("expected failure with -1, got %#v", reply)
	}
}

func TestSendMoneyBalance_HashBindsSecretToRemoteAddress(t *testing.T) {
	f := newFixture(t)
	avatarID := uuid.New()
	service := NewMoneyModuleService(f.handlers)

	req := httptest.NewRequest("POST", "/rpc", nil)
	req.RemoteAddr = "203.0.113.7:41234"
	var reply Reply
	err := service.SendMoneyBalance(req, &SendMoneyBalanceArgs{
		AvatarID:   ptr(avatarID.String()),
		SecretCode: ptr("open-sesame"),
		Amount:     ptr(25),
	}, &reply)
	if err != nil {
		t.Fatalf("send money balance: %v", err)
	}
	if !reply.Success {
		t.Fatalf("expected success without a live session")
	}

	sum := md5.Sum([]byte("open-sesame_203.0.113.7"))
	expected := hex.EncodeToString(sum[:])
	if len(f.bridge.sendCalls) != 1 {
		t.Fatalf("expected one ledger call, got %d", len(f.bridge.sendCalls))
	}
	call := f.bridge.sendCalls[0]
	if call.token != expected {
		t.Fatalf("expected token %s, got %s", expected, call.token)
	}
	if call.avatarID != avatarID || call.amount != 25 {
		t.Fatalf("unexpected call: %#v", call)
	}
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest("POST", "/rpc", nil)
	req.RemoteAddr = "[2001:db8::1]:9000"
	if got := RemoteIP(req); got != "2001:db8::1" {
		t.Fatalf("unexpected ipv6 host %q", got)
	}
	req.RemoteAddr = "198.51.100.4"
	if got := RemoteIP(req); got != "198.51.100.4" {
		t.Fatalf("expected bare address passthrough, got %q", got)
	}
}
