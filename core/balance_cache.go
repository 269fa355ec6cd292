package core

import (
	"sync"

	"github.com/google/uuid"
)

// BalanceCache keeps the last balance seen for each user. It is only
// consulted when no money server is configured and lives as long as the
// process.
type BalanceCache struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int
}

func NewBalanceCache() *BalanceCache {
	return &BalanceCache{balances: map[uuid.UUID]int{}}
}

func (c *BalanceCache) Store(userID uuid.UUID, balance int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[userID] = balance
}

func (c *BalanceCache) Load(userID uuid.UUID) (int, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	balance, ok := c.balances[userID]
	return balance, ok
}

type emptyDirectory struct{}

func (emptyDirectory) FindSession(uuid.UUID) (Client, bool) { return nil, false }

func (emptyDirectory) FindRegion(uuid.UUID) (Region, bool) { return nil, false }

func (emptyDirectory) FindObject(uuid.UUID) (SceneObject, Region, bool) { return nil, nil, false }
