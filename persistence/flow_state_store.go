package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/util"
	"go.uber.org/zap"
)

const DEFAULT_MAX_AGE = time.Hour

var _ FlowStateStore = new(SessionFlowStateStore)

// SessionFlowStateStore is a single slot store: every Save overwrites the previous entry.
type SessionFlowStateStore struct {
	storage        SessionStorage
	encoderDecoder util.EncoderDecoder[model.PersistedFlowState]
	maxAge         time.Duration
	now            func() time.Time
}

type StoreOption func(*SessionFlowStateStore)

func WithMaxAge(maxAge time.Duration) StoreOption {
	return func(s *SessionFlowStateStore) {
		s.maxAge = maxAge
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *SessionFlowStateStore) {
		s.now = now
	}
}

func NewSessionFlowStateStore(storage SessionStorage, encoderDecoder util.EncoderDecoder[model.PersistedFlowState], opts ...StoreOption) *SessionFlowStateStore {
	s := &SessionFlowStateStore{
		storage:        storage,
		encoderDecoder: encoderDecoder,
		maxAge:         DEFAULT_MAX_AGE,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionFlowStateStore) Save(ctx context.Context, flowType string, step int, data any, txId string, txNonce *uint64) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error encoding flow data: %w", err)
	}
	state := model.PersistedFlowState{
		FlowType:  flowType,
		Step:      step,
		Data:      raw,
		TxID:      txId,
		TxNonce:   txNonce,
		Timestamp: s.now().UnixMilli(),
	}
	encoded, err := s.encoderDecoder.Encode(state)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, encoded); err != nil {
		logger.Error("error in saving flow state", zap.String("flowType", flowType), zap.Int("step", step), zap.Error(err))
		return err
	}
	return nil
}

// Load returns nil when nothing is stored or the entry is older than the max age.
// Stale entries are removed on read.
func (s *SessionFlowStateStore) Load(ctx context.Context) (*model.PersistedFlowState, error) {
	data, found, err := s.storage.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	state, err := s.encoderDecoder.Decode(data)
	if err != nil {
		logger.Warn("discarding unreadable flow state", zap.Error(err))
		return nil, s.Clear(ctx)
	}
	age := s.now().Sub(time.UnixMilli(state.Timestamp))
	if age > s.maxAge {
		logger.Debug("discarding stale flow state", zap.String("flowType", state.FlowType), zap.Duration("age", age))
		return nil, s.Clear(ctx)
	}
	return state, nil
}

func (s *SessionFlowStateStore) Clear(ctx context.Context) error {
	return s.storage.Remove(ctx)
}
