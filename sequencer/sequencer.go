// Package sequencer tracks the step position and payload of a wizard.
//
// Data is replaced wholesale, never merged: writing data at step N drops anything
// later steps had put there. Retreat never touches data.
package sequencer

import (
	"context"
	"math"
	"reflect"
	"sync"

	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/persistence"
	"github.com/mohitkumar/txwizard/util"
	"go.uber.org/zap"
)

type TransitionListener func(model.StepTransition)

type Sequencer[T any] struct {
	flowId      string
	totalSteps  int
	stepIndex   int
	data        T
	initialData T
	txId        string
	txNonce     *uint64
	store       persistence.FlowStateStore
	encDec      util.EncoderDecoder[T]
	listeners   []TransitionListener
	progressed  bool
	mu          sync.Mutex
	saveMu      sync.Mutex
}

type Option[T any] func(*Sequencer[T])

// WithStore persists every change and recovers a previously saved state for the same flow.
func WithStore[T any](store persistence.FlowStateStore) Option[T] {
	return func(s *Sequencer[T]) {
		s.store = store
	}
}

func WithTxID[T any](txId string) Option[T] {
	return func(s *Sequencer[T]) {
		s.txId = txId
	}
}

func WithTxNonce[T any](nonce uint64) Option[T] {
	return func(s *Sequencer[T]) {
		s.txNonce = &nonce
	}
}

func WithListener[T any](l TransitionListener) Option[T] {
	return func(s *Sequencer[T]) {
		s.listeners = append(s.listeners, l)
	}
}

// New creates a sequencer on step 0. An empty flowId marks an ephemeral wizard that is
// never persisted, e.g. one nested inside another flow.
func New[T any](initialData T, flowId string, totalSteps int, opts ...Option[T]) *Sequencer[T] {
	if totalSteps < 1 {
		totalSteps = 1
	}
	s := &Sequencer[T]{
		flowId:      flowId,
		totalSteps:  totalSteps,
		data:        initialData,
		initialData: initialData,
		encDec:      util.NewJsonEncoderDecoder[T](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s
}

func (s *Sequencer[T]) restore() {
	if s.store == nil || s.flowId == "" {
		return
	}
	state, err := s.store.Load(context.Background())
	if err != nil {
		logger.Error("error loading flow state", zap.String("flow", s.flowId), zap.Error(err))
		return
	}
	if state == nil || state.FlowType != s.flowId {
		return
	}
	if len(state.Data) > 0 && string(state.Data) != "null" {
		data, err := s.encDec.Decode(state.Data)
		if err != nil {
			logger.Warn("ignoring undecodable flow data", zap.String("flow", s.flowId), zap.Error(err))
			return
		}
		s.data = *data
	}
	s.stepIndex = clamp(state.Step, 0, s.totalSteps-1)
	if state.TxID != "" {
		s.txId = state.TxID
	}
	if state.TxNonce != nil {
		s.txNonce = state.TxNonce
	}
	s.progressed = true
	logger.Info("restored flow state", zap.String("flow", s.flowId), zap.Int("step", s.stepIndex))
}

// Advance optionally replaces data and moves one step forward. On the last step the
// index stays put and no transition is recorded.
func (s *Sequencer[T]) Advance(next ...T) {
	s.mu.Lock()
	if len(next) > 0 {
		s.data = next[0]
	}
	prev := s.stepIndex
	moved := false
	if s.stepIndex < s.totalSteps-1 {
		s.stepIndex++
		moved = true
	}
	s.mu.Unlock()

	if moved {
		s.emit(model.StepTransition{FlowId: s.flowId, Step: prev, Direction: model.STEP_FORWARD})
	}
	s.persist()
}

func (s *Sequencer[T]) Retreat() {
	s.mu.Lock()
	prev := s.stepIndex
	moved := false
	if s.stepIndex > 0 {
		s.stepIndex--
		moved = true
	}
	s.mu.Unlock()

	if moved {
		s.emit(model.StepTransition{FlowId: s.flowId, Step: prev, Direction: model.STEP_BACK})
	}
	s.persist()
}

func (s *Sequencer[T]) SetData(data T) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	s.persist()
}

func (s *Sequencer[T]) Data() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func (s *Sequencer[T]) StepIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepIndex
}

func (s *Sequencer[T]) TotalSteps() int {
	return s.totalSteps
}

func (s *Sequencer[T]) FlowID() string {
	return s.flowId
}

func (s *Sequencer[T]) TxID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txId
}

func (s *Sequencer[T]) TxNonce() *uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txNonce
}

// Progress is the completion percentage, 0 to 100.
func (s *Sequencer[T]) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(math.Round(float64(s.stepIndex+1) / float64(s.totalSteps) * 100))
}

func (s *Sequencer[T]) State() model.WizardState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.WizardState[T]{
		StepIndex: s.stepIndex,
		Data:      s.data,
		FlowID:    s.flowId,
		TxID:      s.txId,
		TxNonce:   s.txNonce,
	}
}

func (s *Sequencer[T]) emit(tr model.StepTransition) {
	recordTransition(tr)
	for _, l := range s.listeners {
		l(tr)
	}
}

// persist skips ephemeral wizards and wizards that have never left step 0 with their
// initial data. Once a wizard has progressed every change is saved, including a retreat
// back to step 0. saveMu keeps snapshots and saves in the same order.
func (s *Sequencer[T]) persist() {
	if s.store == nil || s.flowId == "" {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.progressed && (s.stepIndex != 0 || !reflect.DeepEqual(s.data, s.initialData)) {
		s.progressed = true
	}
	progressed := s.progressed
	step, data, txId, txNonce := s.stepIndex, s.data, s.txId, s.txNonce
	s.mu.Unlock()
	if !progressed {
		return
	}
	if err := s.store.Save(context.Background(), s.flowId, step, data, txId, txNonce); err != nil {
		logger.Error("error saving flow state", zap.String("flow", s.flowId), zap.Int("step", step), zap.Error(err))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
