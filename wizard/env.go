package wizard

import (
	"sync"

	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/persistence"
	"github.com/mohitkumar/txwizard/wallet"
)

// IdentitySource is read on every evaluation, so switching wallet, safe or chain is
// picked up without reopening the wizard.
type IdentitySource interface {
	Identity() model.Identity
}

type StaticIdentity model.Identity

func (s StaticIdentity) Identity() model.Identity {
	return model.Identity(s)
}

// MutableIdentity lets the host swap the connected identity at runtime.
type MutableIdentity struct {
	identity model.Identity
	mu       sync.RWMutex
}

func NewMutableIdentity(identity model.Identity) *MutableIdentity {
	return &MutableIdentity{identity: identity}
}

func (m *MutableIdentity) Identity() model.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

func (m *MutableIdentity) Set(identity model.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = identity
}

// Env is everything a wizard needs from its host. Store may be nil for wizards that
// are never persisted. Tracker and Collector may be nil to disable analytics.
type Env struct {
	Identity       IdentitySource
	Wallet         wallet.Actions
	Store          persistence.FlowStateStore
	Tracker        *analytics.TxTracker
	Collector      analytics.Collector
	DefaultExecute bool
}
