package directory

import (
	"sync"

	"github.com/goliatone/go-currency/core"
	"github.com/google/uuid"
)

type BalanceNotice struct {
	TransactionID uuid.UUID
	Success       bool
	Description   string
	Balance       int
}

type PayPriceNotice struct {
	ObjectID uuid.UUID
	Price    core.PayPrice
}

// RecordingClient is a display layer that records everything sent to it.
type RecordingClient struct {
	credential core.SessionCredential
	name       string

	mu              sync.Mutex
	balances        []BalanceNotice
	alerts          []string
	agentAlerts     []string
	instantMessages []core.InstantMessage
	payPrices       []PayPriceNotice
	economyData     []core.EconomyData
}

func NewRecordingClient(credential core.SessionCredential, name string) *RecordingClient {
	return &RecordingClient{credential: credential, name: name}
}

// NewSessionClient creates a client with fresh session identifiers.
func NewSessionClient(userID uuid.UUID, name string) *RecordingClient {
	return NewRecordingClient(core.SessionCredential{
		UserID:          userID,
		SessionID:       uuid.New(),
		SecureSessionID: uuid.New(),
	}, name)
}

func (c *RecordingClient) Credential() core.SessionCredential { return c.credential }

func (c *RecordingClient) Name() string { return c.name }

func (c *RecordingClient) SendMoneyBalance(transactionID uuid.UUID, success bool, description string, balance int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances = append(c.balances, BalanceNotice{
		TransactionID: transactionID,
		Success:       success,
		Description:   description,
		Balance:       balance,
	})
}

func (c *RecordingClient) SendAlertMessage(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, message)
}

func (c *RecordingClient) SendAgentAlertMessage(message string, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.agentAlerts = append(c.agentAlerts, message)
}

func (c *RecordingClient) SendInstantMessage(message core.InstantMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instantMessages = append(c.instantMessages, message)
}

func (c *RecordingClient) SendPayPrice(objectID uuid.UUID, price core.PayPrice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payPrices = append(c.payPrices, PayPriceNotice{ObjectID: objectID, Price: price})
}

func (c *RecordingClient) SendEconomyData(data core.EconomyData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.economyData = append(c.economyData, data)
}

func (c *RecordingClient) Balances() []BalanceNotice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]BalanceNotice(nil), c.balances...)
}

func (c *RecordingClient) Alerts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.alerts...)
}

func (c *RecordingClient) AgentAlerts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.agentAlerts...)
}

func (c *RecordingClient) InstantMessages() []core.InstantMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.InstantMessage(nil), c.instantMessages...)
}

func (c *RecordingClient) PayPrices() []PayPriceNotice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]PayPriceNotice(nil), c.payPrices...)
}

func (c *RecordingClient) EconomyData() []core.EconomyData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.EconomyData(nil), c.economyData...)
}

var (
	_ core.Client           = (*RecordingClient)(nil)
	_ core.Region           = (*MemoryRegion)(nil)
	_ core.SceneObject      = (*MemoryObject)(nil)
	_ core.SessionDirectory = (*Registry)(nil)
)
