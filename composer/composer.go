// Package composer assembles a wizard step from its content and two independent
// participant lists: features shown inside the content and actions offered as
// submit controls.
package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mohitkumar/txwizard/slot"
	"github.com/mohitkumar/txwizard/view"
	"github.com/mohitkumar/txwizard/wizard"
)

var ErrActionNotAvailable = errors.New("action is not available in the current state")

type Content interface {
	Render(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node
}

type ContentFunc func(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node

func (f ContentFunc) Render(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node {
	return f(wc, features, actions)
}

// Participant decides for itself whether it applies. The composer keeps its slot
// registration in line with Condition on every render.
type Participant interface {
	ID() string
	Condition(wc *wizard.Context) bool
	Render(wc *wizard.Context) view.Node
}

type Feature interface {
	Participant
}

type Action interface {
	Participant
	Slot() slot.Name
	Submit(ctx context.Context, wc *wizard.Context, onSubmit wizard.SubmitFunc) error
}

type Step struct {
	content  Content
	features []Feature
	actions  []Action
	registry *slot.Registry
	regs     map[string]*slot.Registration
	mu       sync.Mutex
}

func BuildStep(content Content, features []Feature, actions []Action) *Step {
	return &Step{
		content:  content,
		features: features,
		actions:  actions,
		regs:     make(map[string]*slot.Registration),
	}
}

// Render syncs features before actions so features may adjust the context that
// action conditions read.
func (s *Step) Render(wc *wizard.Context) view.Node {
	for _, f := range s.features {
		s.registration(wc, slot.FEATURE, f).Sync(f.Condition(wc))
	}
	for _, a := range s.actions {
		s.registration(wc, a.Slot(), a).Sync(a.Condition(wc))
	}

	registry := wc.Slots()
	var features []view.Node
	for _, f := range slot.QueryAs[Feature](registry, slot.FEATURE) {
		features = append(features, f.Render(wc).WithID(f.ID()))
	}

	var actions []view.Node
	for _, a := range slot.QueryAs[Action](registry, slot.SUBMIT) {
		actions = append(actions, a.Render(wc).WithID(a.ID()))
	}
	if combo, ok := comboAction(registry); ok {
		actions = append(actions, combo.Render(wc).WithID(combo.ID()))
	} else {
		actions = append(actions, view.Loading())
	}
	return s.content.Render(wc, features, actions)
}

// Submit runs the action with the given id if it is currently offered.
func (s *Step) Submit(ctx context.Context, wc *wizard.Context, id string, onSubmit wizard.SubmitFunc) error {
	registry := wc.Slots()
	for _, a := range s.actions {
		if a.ID() != id {
			continue
		}
		switch a.Slot() {
		case slot.COMBO_SUBMIT:
			combo, ok := comboAction(registry)
			if !ok || combo.ID() != id {
				return fmt.Errorf("%s: %w", id, ErrActionNotAvailable)
			}
		default:
			if len(registry.Query(a.Slot(), id)) == 0 {
				return fmt.Errorf("%s: %w", id, ErrActionNotAvailable)
			}
		}
		return a.Submit(ctx, wc, onSubmit)
	}
	return fmt.Errorf("%s: %w", id, ErrActionNotAvailable)
}

// Unmount withdraws every participant this step registered.
func (s *Step) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regs {
		r.Close()
	}
}

func (s *Step) registration(wc *wizard.Context, name slot.Name, p Participant) *slot.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry != wc.Slots() {
		s.registry = wc.Slots()
		s.regs = make(map[string]*slot.Registration)
	}
	key := string(name) + "/" + p.ID()
	r, ok := s.regs[key]
	if !ok {
		r = slot.NewRegistration(s.registry, name, p.ID(), p)
		s.regs[key] = r
	}
	return r
}

func comboAction(registry *slot.Registry) (Action, bool) {
	c, ok := registry.QueryOne(slot.COMBO_SUBMIT)
	if !ok {
		return nil, false
	}
	a, ok := c.(Action)
	return a, ok
}
