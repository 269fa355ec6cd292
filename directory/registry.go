package directory

import (
	"sync"

	"github.com/goliatone/go-currency/core"
	"github.com/google/uuid"
)

// Registry holds the regions hosted by this process. Lookups scan regions in
// registration order and return the first root match; a user that is root in
// two regions at once resolves to whichever was registered first.
type Registry struct {
	mu      sync.RWMutex
	regions []core.Region
}

func NewRegistry(regions ...core.Region) *Registry {
	registry := &Registry{}
	for _, region := range regions {
		registry.Register(region)
	}
	return registry
}

// Register adds a region, replacing any region with the same handle.
func (r *Registry) Register(region core.Region) {
	if region == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for index, existing := range r.regions {
		if existing.Handle() == region.Handle() {
			r.regions[index] = region
			return
		}
	}
	r.regions = append(r.regions, region)
}

func (r *Registry) Unregister(handle uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for index, existing := range r.regions {
		if existing.Handle() == handle {
			r.regions = append(r.regions[:index], r.regions[index+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Regions() []core.Region {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]core.Region(nil), r.regions...)
}

func (r *Registry) Region(handle uint64) (core.Region, bool) {
	for _, region := range r.Regions() {
		if region.Handle() == handle {
			return region, true
		}
	}
	return nil, false
}

func (r *Registry) FindSession(userID uuid.UUID) (core.Client, bool) {
	for _, region := range r.Regions() {
		if client, ok := region.RootPresence(userID); ok {
			return client, true
		}
	}
	return nil, false
}

func (r *Registry) FindRegion(userID uuid.UUID) (core.Region, bool) {
	for _, region := range r.Regions() {
		if _, ok := region.RootPresence(userID); ok {
			return region, true
		}
	}
	return nil, false
}

func (r *Registry) FindObject(objectID uuid.UUID) (core.SceneObject, core.Region, bool) {
	for _, region := range r.Regions() {
		if object, ok := region.Object(objectID); ok {
			return object, region, true
		}
	}
	return nil, nil, false
}
