package slot

import "sync"

// Registration owns one participant's entry in a registry. Sync is called on every
// render with the participant's current condition.
type Registration struct {
	registry   *Registry
	name       Name
	id         string
	component  any
	registered bool
	mu         sync.Mutex
}

func NewRegistration(registry *Registry, name Name, id string, component any) *Registration {
	return &Registration{
		registry:  registry,
		name:      name,
		id:        id,
		component: component,
	}
}

// Sync registers on a false to true flip and unregisters on a true to false flip.
// It returns the condition so callers can inline it.
func (r *Registration) Sync(condition bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if condition && !r.registered {
		r.registry.Register(r.name, r.id, r.component)
		r.registered = true
	} else if !condition && r.registered {
		r.registry.Unregister(r.name, r.id)
		r.registered = false
	}
	return condition
}

func (r *Registration) Close() {
	r.Sync(false)
}

func (r *Registration) ID() string {
	return r.id
}

func (r *Registration) Slot() Name {
	return r.name
}
