// Package slot holds the per-wizard registry of named extension points and the
// participants currently registered into them.
package slot

import (
	"sync"

	"github.com/mohitkumar/txwizard/logger"
	"go.uber.org/zap"
)

type Name string

const FEATURE Name = "FEATURE"
const SUBMIT Name = "SUBMIT"
const COMBO_SUBMIT Name = "COMBO_SUBMIT"

type entry struct {
	id        string
	component any
	active    bool
}

type slotEntries struct {
	order []*entry
	byId  map[string]*entry
}

// Registry maps slot names to participants keyed by id. Entries keep the position of
// their first registration, unregistering only marks them inactive.
type Registry struct {
	slots map[Name]*slotEntries
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[Name]*slotEntries),
	}
}

// Register upserts the component for (name, id). The last writer wins.
func (r *Registry) Register(name Name, id string, component any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[name]
	if !ok {
		s = &slotEntries{byId: make(map[string]*entry)}
		r.slots[name] = s
	}
	e, ok := s.byId[id]
	if !ok {
		e = &entry{id: id}
		s.byId[id] = e
		s.order = append(s.order, e)
	}
	e.component = component
	e.active = true
	logger.Debug("slot participant registered", zap.String("slot", string(name)), zap.String("id", id))
}

func (r *Registry) Unregister(name Name, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[name]
	if !ok {
		return
	}
	e, ok := s.byId[id]
	if !ok || !e.active {
		return
	}
	e.active = false
	e.component = nil
	logger.Debug("slot participant unregistered", zap.String("slot", string(name)), zap.String("id", id))
}

// Query returns the active components of a slot in first-registration order.
// With an id it returns at most the one matching component.
func (r *Registry) Query(name Name, id ...string) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[name]
	if !ok {
		return nil
	}
	if len(id) > 0 && id[0] != "" {
		e, ok := s.byId[id[0]]
		if !ok || !e.active {
			return nil
		}
		return []any{e.component}
	}
	res := make([]any, 0, len(s.order))
	for _, e := range s.order {
		if e.active {
			res = append(res, e.component)
		}
	}
	return res
}

// IDs returns the ids of the active participants of a slot, in the same order as Query.
func (r *Registry) IDs(name Name) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[name]
	if !ok {
		return nil
	}
	res := make([]string, 0, len(s.order))
	for _, e := range s.order {
		if e.active {
			res = append(res, e.id)
		}
	}
	return res
}

// QueryOne reduces a slot to its first active participant.
func (r *Registry) QueryOne(name Name) (any, bool) {
	res := r.Query(name)
	if len(res) == 0 {
		return nil, false
	}
	if len(res) > 1 {
		logger.Warn("more than one active participant in exclusive slot", zap.String("slot", string(name)), zap.Strings("ids", r.IDs(name)))
	}
	return res[0], true
}

// QueryAs filters the active components of a slot down to those implementing C.
func QueryAs[C any](r *Registry, name Name, id ...string) []C {
	all := r.Query(name, id...)
	res := make([]C, 0, len(all))
	for _, c := range all {
		if typed, ok := c.(C); ok {
			res = append(res, typed)
		}
	}
	return res
}

// Clear unregisters every participant of every slot.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		for _, e := range s.order {
			e.active = false
			e.component = nil
		}
	}
}
