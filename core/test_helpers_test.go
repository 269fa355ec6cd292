package core

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type ledgerCall struct {
	method string
	params any
}

type stubLedger struct {
	mu      sync.Mutex
	calls   []ledgerCall
	replies map[string]LedgerWireReply
	errs    map[string]error
}

func newStubLedger() *stubLedger {
	return &stubLedger{replies: map[string]LedgerWireReply{}, errs: map[string]error{}}
}

func (l *stubLedger) Kind() string { return "stub" }

func (l *stubLedger) Call(_ context.Context, method string, params any, reply any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, ledgerCall{method: method, params: params})
	if err := l.errs[method]; err != nil {
		return err
	}
	if target, ok := reply.(*LedgerWireReply); ok {
		*target = l.replies[method]
	}
	return nil
}

func (l *stubLedger) reply(method string, reply LedgerWireReply) *stubLedger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.replies[method] = reply
	return l
}

func (l *stubLedger) fail(method string, err error) *stubLedger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs[method] = err
	return l
}

func (l *stubLedger) count(method string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, call := range l.calls {
		if call.method == method {
			total++
		}
	}
	return total
}

func (l *stubLedger) last(method string) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for index := len(l.calls) - 1; index >= 0; index-- {
		if l.calls[index].method == method {
			return l.calls[index].params, true
		}
	}
	return nil, false
}

func balanceReply(balance int) LedgerWireReply {
	return LedgerWireReply{Success: true, ClientBalance: &balance}
}

type stubClient struct {
	cred SessionCredential
	name string

	mu          sync.Mutex
	balances    []int
	alerts      []string
	agentAlerts []string
	messages    []InstantMessage
	payPrices   []PayPrice
	economy     []EconomyData
}

func newStubClient(name string) *stubClient {
	return &stubClient{
		cred: SessionCredential{UserID: uuid.New(), SessionID: uuid.New(), SecureSessionID: uuid.New()},
		name: name,
	}
}

func (c *stubClient) Credential() SessionCredential { return c.cred }
func (c *stubClient) Name() string                  { return c.name }

func (c *stubClient) SendMoneyBalance(_ uuid.UUID, _ bool, _ string, balance int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances = append(c.balances, balance)
}

func (c *stubClient) SendAlertMessage(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, message)
}

func (c *stubClient) SendAgentAlertMessage(message string, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.agentAlerts = append(c.agentAlerts, message)
}

func (c *stubClient) SendInstantMessage(message InstantMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

func (c *stubClient) SendPayPrice(_ uuid.UUID, price PayPrice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payPrices = append(c.payPrices, price)
}

func (c *stubClient) SendEconomyData(data EconomyData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.economy = append(c.economy, data)
}

type stubObject struct {
	id      uuid.UUID
	localID uint32
	name    string
	owner   uuid.UUID
	price   PayPrice
}

func (o stubObject) ID() uuid.UUID      { return o.id }
func (o stubObject) LocalID() uint32    { return o.localID }
func (o stubObject) Name() string       { return o.name }
func (o stubObject) OwnerID() uuid.UUID { return o.owner }
func (o stubObject) PayPrice() PayPrice { return o.price }

type stubRegion struct {
	handle   uint64
	clients  map[uuid.UUID]*stubClient
	objects  map[uuid.UUID]stubObject
	buyOK    bool
	buyCalls int
}

func newStubRegion(handle uint64) *stubRegion {
	return &stubRegion{
		handle:  handle,
		clients: map[uuid.UUID]*stubClient{},
		objects: map[uuid.UUID]stubObject{},
		buyOK:   true,
	}
}

func (r *stubRegion) Handle() uint64      { return r.handle }
func (r *stubRegion) ID() uuid.UUID       { return uuid.Nil }
func (r *stubRegion) ServerURI() string   { return "http://region.test:9000" }
func (r *stubRegion) ObjectCapacity() int { return 15000 }

func (r *stubRegion) RootPresence(userID uuid.UUID) (Client, bool) {
	client, ok := r.clients[userID]
	if !ok {
		return nil, false
	}
	return client, true
}

func (r *stubRegion) Object(objectID uuid.UUID) (SceneObject, bool) {
	object, ok := r.objects[objectID]
	return object, ok
}

func (r *stubRegion) ObjectByLocalID(localID uint32) (SceneObject, bool) {
	for _, object := range r.objects {
		if object.localID == localID {
			return object, true
		}
	}
	return nil, false
}

func (r *stubRegion) AccountName(userID uuid.UUID) string {
	if client, ok := r.clients[userID]; ok {
		return client.name
	}
	return "Unknown User"
}

func (r *stubRegion) BuyObject(context.Context, Client, ObjectBuyRequest) bool {
	r.buyCalls++
	return r.buyOK
}

func (r *stubRegion) add(client *stubClient) *stubClient {
	r.clients[client.cred.UserID] = client
	return client
}

func (r *stubRegion) addObject(object stubObject) stubObject {
	r.objects[object.id] = object
	return object
}

type stubDirectory struct {
	regions []*stubRegion
}

func (d stubDirectory) FindSession(userID uuid.UUID) (Client, bool) {
	for _, region := range d.regions {
		if client, ok := region.RootPresence(userID); ok {
			return client, true
		}
	}
	return nil, false
}

func (d stubDirectory) FindRegion(userID uuid.UUID) (Region, bool) {
	for _, region := range d.regions {
		if _, ok := region.RootPresence(userID); ok {
			return region, true
		}
	}
	return nil, false
}

func (d stubDirectory) FindObject(objectID uuid.UUID) (SceneObject, Region, bool) {
	for _, region := range d.regions {
		if object, ok := region.Object(objectID); ok {
			return object, region, true
		}
	}
	return nil, nil, false
}

func newLedgerService(t *testing.T, ledger *stubLedger, region *stubRegion, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithLedger(ledger),
		WithSessionDirectory(stubDirectory{regions: []*stubRegion{region}}),
		WithLoggerProvider(stubLoggerProvider{logger: stubLogger{}}),
		WithLogger(stubLogger{}),
	}
	svc, err := NewService(Config{
		MoneyServerURL: "http://ledger.test:8008",
		UserServerURL:  "http://users.test:8002",
		SellEnabled:    true,
	}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
