package directory

import (
	"context"
	"sync"

	"github.com/goliatone/go-currency/core"
	"github.com/google/uuid"
)

// BuyHandler delivers a purchased object to the buyer.
type BuyHandler func(ctx context.Context, buyer core.Client, req core.ObjectBuyRequest) bool

type presence struct {
	client core.Client
	child  bool
}

// MemoryRegion is an in-process region used by hosts that keep their scene
// elsewhere and by tests.
type MemoryRegion struct {
	mu         sync.RWMutex
	handle     uint64
	id         uuid.UUID
	serverURI  string
	capacity   int
	presences  map[uuid.UUID]presence
	objects    map[uuid.UUID]*MemoryObject
	names      map[uuid.UUID]string
	buyHandler BuyHandler
}

type RegionOption func(*MemoryRegion)

func WithServerURI(uri string) RegionOption {
	return func(r *MemoryRegion) {
		r.serverURI = uri
	}
}

func WithObjectCapacity(capacity int) RegionOption {
	return func(r *MemoryRegion) {
		r.capacity = capacity
	}
}

func WithBuyHandler(handler BuyHandler) RegionOption {
	return func(r *MemoryRegion) {
		r.buyHandler = handler
	}
}

func NewMemoryRegion(handle uint64, id uuid.UUID, opts ...RegionOption) *MemoryRegion {
	region := &MemoryRegion{
		handle:    handle,
		id:        id,
		capacity:  15000,
		presences: map[uuid.UUID]presence{},
		objects:   map[uuid.UUID]*MemoryObject{},
		names:     map[uuid.UUID]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(region)
		}
	}
	return region
}

func (r *MemoryRegion) Handle() uint64 { return r.handle }

func (r *MemoryRegion) ID() uuid.UUID { return r.id }

func (r *MemoryRegion) ServerURI() string { return r.serverURI }

func (r *MemoryRegion) ObjectCapacity() int { return r.capacity }

// AddRoot registers a root presence and records the client's name as the
// account name.
func (r *MemoryRegion) AddRoot(client core.Client) {
	r.addPresence(client, false)
}

// AddChild registers a child presence. Child presences never resolve as
// sessions.
func (r *MemoryRegion) AddChild(client core.Client) {
	r.addPresence(client, true)
}

func (r *MemoryRegion) addPresence(client core.Client, child bool) {
	if client == nil {
		return
	}
	userID := client.Credential().UserID
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presences[userID] = presence{client: client, child: child}
	if name := client.Name(); name != "" {
		r.names[userID] = name
	}
}

func (r *MemoryRegion) RemovePresence(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.presences, userID)
}

func (r *MemoryRegion) RootPresence(userID uuid.UUID) (core.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.presences[userID]
	if !ok || entry.child {
		return nil, false
	}
	return entry.client, true
}

func (r *MemoryRegion) AddObject(object *MemoryObject) {
	if object == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[object.ObjectID] = object
}

func (r *MemoryRegion) Object(objectID uuid.UUID) (core.SceneObject, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	object, ok := r.objects[objectID]
	if !ok {
		return nil, false
	}
	return object, true
}

func (r *MemoryRegion) ObjectByLocalID(localID uint32) (core.SceneObject, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, object := range r.objects {
		if object.Local == localID {
			return object, true
		}
	}
	return nil, false
}

func (r *MemoryRegion) SetAccountName(userID uuid.UUID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[userID] = name
}

func (r *MemoryRegion) AccountName(userID uuid.UUID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[userID]
}

// BuyObject delegates to the configured handler; without one every sale is
// accepted.
func (r *MemoryRegion) BuyObject(ctx context.Context, buyer core.Client, req core.ObjectBuyRequest) bool {
	r.mu.RLock()
	handler := r.buyHandler
	r.mu.RUnlock()
	if handler == nil {
		return true
	}
	return handler(ctx, buyer, req)
}

type MemoryObject struct {
	ObjectID   uuid.UUID
	Local      uint32
	ObjectName string
	Owner      uuid.UUID
	Price      core.PayPrice
}

func (o *MemoryObject) ID() uuid.UUID { return o.ObjectID }

func (o *MemoryObject) LocalID() uint32 { return o.Local }

func (o *MemoryObject) Name() string { return o.ObjectName }

func (o *MemoryObject) OwnerID() uuid.UUID { return o.Owner }

func (o *MemoryObject) PayPrice() core.PayPrice { return o.Price }
