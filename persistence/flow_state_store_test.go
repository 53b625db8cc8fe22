package persistence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/util"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newStore(clock *fakeClock) *SessionFlowStateStore {
	return NewSessionFlowStateStore(NewMemorySessionStorage(0), util.NewJsonEncoderDecoder[model.PersistedFlowState](), WithClock(clock.Now))
}

func TestFlowStateStore(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, store *SessionFlowStateStore, clock *fakeClock){
		"round trip within the hour":       testRoundTrip,
		"stale state is evicted":           testStaleness,
		"save overwrites the single slot":  testOverwrite,
		"clear removes the entry":          testClear,
		"load on empty store returns nil":  testEmpty,
		"exactly one hour is still fresh":  testBoundary,
		"tx nonce survives the round trip": testTxNonce,
	} {
		t.Run(scenario, func(t *testing.T) {
			clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
			fn(t, newStore(clock), clock)
		})
	}
}

func testRoundTrip(t *testing.T, store *SessionFlowStateStore, clock *fakeClock) {
	ctx := context.Background()
	err := store.Save(ctx, "X", 2, map[string]any{"a": 1}, "t1", nil)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, "X", state.FlowType)
	require.Equal(t, 2, state.Step)
	require.Equal(t, "t1", state.TxID)
	require.Nil(t, state.TxNonce)
	require.Equal(t, clock.now.Add(-10*time.Minute).UnixMilli(), state.Timestamp)

	var data map[string]any
	require.NoError(t, json.Unmarshal(state.Data, &data))
	require.Equal(t, map[string]any{"a": float64(1)}, data)
}

func testStaleness(t *testing.T, store *SessionFlowStateStore, clock *fakeClock) {
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "X", 1, map[string]any{"a": 1}, "", nil))

	clock.Advance(61 * time.Minute)
	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state)

	state, err = store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state)

	_, found, err := store.storage.Get(ctx)
	require.NoError(t, err)
	require.False(t, found)
}

func testOverwrite(t *testing.T, store *SessionFlowStateStore, clock *fakeClock) {
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "X", 1, "first", "", nil))
	require.NoError(t, store.Save(ctx, "Y", 3, "second", "", nil))

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Y", state.FlowType)
	require.Equal(t, 3, state.Step)
	require.JSONEq(t, `"second"`, string(state.Data))
}

func testClear(t *testing.T, store *SessionFlowStateStore, clock *fakeClock) {
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "X", 1, nil, "", nil))
	require.NoError(t, store.Clear(ctx))

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state)
}

func testEmpty(t *testing.T, store *SessionFlowStateStore, clock *fakeClock) {
	state, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, state)
}

func testBoundary(t *testing.T, store *SessionFlowStateStore, clock *fakeClock) {
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "X", 1, nil, "", nil))

	clock.Advance(time.Hour)
	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
}

func testTxNonce(t *testing.T, store *SessionFlowStateStore, clock *fakeClock) {
	ctx := context.Background()
	nonce := uint64(7)
	require.NoError(t, store.Save(ctx, "X", 0, nil, "t9", &nonce))

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.TxNonce)
	require.Equal(t, uint64(7), *state.TxNonce)
}

func TestLoadDiscardsUnreadableState(t *testing.T) {
	ctx := context.Background()
	storage := NewMemorySessionStorage(0)
	require.NoError(t, storage.Set(ctx, []byte("{not json")))
	store := NewSessionFlowStateStore(storage, util.NewJsonEncoderDecoder[model.PersistedFlowState]())

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state)

	_, found, err := storage.Get(ctx)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemorySessionStorageExpires(t *testing.T) {
	ctx := context.Background()
	storage := NewMemorySessionStorage(50 * time.Millisecond)
	require.NoError(t, storage.Set(ctx, []byte("x")))

	data, found, err := storage.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("x"), data)

	time.Sleep(100 * time.Millisecond)
	_, found, err = storage.Get(ctx)
	require.NoError(t, err)
	require.False(t, found)
}
