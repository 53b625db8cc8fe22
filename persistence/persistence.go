package persistence

import (
	"context"
	"fmt"

	"github.com/mohitkumar/txwizard/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

const FLOW_STATE_KEY string = "FLOW_STATE"

// SessionStorage holds a single serialized blob scoped to the current session.
type SessionStorage interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, data []byte) error
	Remove(ctx context.Context) error
}

// FlowStateStore keeps the state of the one in-flight wizard.
type FlowStateStore interface {
	Save(ctx context.Context, flowType string, step int, data any, txId string, txNonce *uint64) error
	Load(ctx context.Context) (*model.PersistedFlowState, error)
	Clear(ctx context.Context) error
}
