package wizard

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/persistence"
	"github.com/mohitkumar/txwizard/util"
	"github.com/mohitkumar/txwizard/wallet"
	"github.com/stretchr/testify/require"
)

type transfer struct {
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

type recordingCollector struct {
	events []analytics.Event
	mu     sync.Mutex
}

func (r *recordingCollector) TrackEvent(event analytics.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingCollector) snapshot() []analytics.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]analytics.Event(nil), r.events...)
}

var safeA = common.HexToAddress("0x00000000000000000000000000000000000000aa")
var safeB = common.HexToAddress("0x00000000000000000000000000000000000000bb")

func ownerIdentity(safe common.Address) model.Identity {
	return model.Identity{
		ChainID:     "1",
		SafeAddress: safe,
		IsSafeOwner: true,
		Threshold:   1,
		SafeNonce:   3,
	}
}

func buildTransfer(ctx context.Context, data transfer, id model.Identity, txNonce *uint64) (*model.SafeTxDraft, error) {
	if data.Recipient == "" {
		return nil, errors.New("recipient missing")
	}
	return &model.SafeTxDraft{
		To:    id.SafeAddress,
		Value: big.NewInt(1),
		Nonce: id.SafeNonce,
	}, nil
}

func newStore() *persistence.SessionFlowStateStore {
	return persistence.NewSessionFlowStateStore(persistence.NewMemorySessionStorage(time.Hour), util.NewJsonEncoderDecoder[model.PersistedFlowState]())
}

func newTransferWizard(env Env) *Wizard[transfer] {
	props := Props{
		FlowID:     "TokenTransfer",
		TotalSteps: 2,
		Layout: model.TxLayoutProps{
			Title:    "Send tokens",
			Subtitle: "{$.amount} to {$.recipient}",
		},
	}
	return New[transfer](env, props, transfer{}, buildTransfer)
}

func TestExecutionMethod(t *testing.T) {
	ctx := context.Background()
	w := newTransferWizard(Env{Identity: StaticIdentity(ownerIdentity(safeA)), DefaultExecute: true})

	require.Equal(t, model.METHOD_NONE, w.ExecutionMethod())
	require.Eventually(t, func() bool {
		return w.Drafts().Error() != nil
	}, time.Second, 5*time.Millisecond)

	w.SetData(transfer{Amount: "1", Recipient: "0x01"})
	require.True(t, <-w.RebuildDraft(ctx))
	require.Equal(t, model.METHOD_EXECUTE, w.ExecutionMethod())

	w.SetShouldExecute(false)
	require.Equal(t, model.METHOD_SIGN, w.ExecutionMethod())
}

func TestIdentityChangeResetsDraft(t *testing.T) {
	ctx := context.Background()
	identity := NewMutableIdentity(ownerIdentity(safeA))
	w := newTransferWizard(Env{Identity: identity})
	w.SetData(transfer{Amount: "1", Recipient: "0x01"})
	require.True(t, <-w.RebuildDraft(ctx))
	require.Equal(t, safeA, w.Drafts().Draft().To)

	identity.Set(ownerIdentity(safeB))
	w.Identity()
	require.Eventually(t, func() bool {
		d := w.Drafts().Draft()
		return d != nil && d.To == safeB
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitBookkeeping(t *testing.T) {
	w := newTransferWizard(Env{Identity: StaticIdentity(ownerIdentity(safeA))})
	require.True(t, w.IsSubmittable())
	require.Equal(t, model.SUBMIT_IDLE, w.SubmitState())

	require.True(t, w.BeginSubmit())
	require.False(t, w.IsSubmittable())
	require.False(t, w.BeginSubmit())
	require.Equal(t, model.SUBMIT_PENDING, w.SubmitState())

	w.FailSubmit(wallet.RejectionError{Reason: "closed"})
	require.True(t, w.IsSubmittable())
	require.True(t, w.IsRejectedByUser())
	require.NoError(t, w.SubmitError())
	require.Equal(t, model.SUBMIT_REJECTED, w.SubmitState())

	require.True(t, w.BeginSubmit())
	require.False(t, w.IsRejectedByUser())
	w.FailSubmit(errors.New("nonce too low"))
	require.True(t, w.IsSubmittable())
	require.False(t, w.IsRejectedByUser())
	require.EqualError(t, w.SubmitError(), "nonce too low")
	require.Equal(t, model.SUBMIT_FAILED, w.SubmitState())
}

func TestTxLayoutProps(t *testing.T) {
	w := newTransferWizard(Env{Identity: StaticIdentity(ownerIdentity(safeA))})
	w.SetData(transfer{Amount: "5", Recipient: "alice"})

	props := w.TxLayoutProps()
	require.Equal(t, "Send tokens", props.Title)
	require.Equal(t, "5 to alice", props.Subtitle)

	w.UpdateTxLayoutProps(model.TxLayoutProps{Title: "Replace transaction", IsReplacement: true})
	props = w.TxLayoutProps()
	require.Equal(t, "Replace transaction", props.Title)
	require.Equal(t, "5 to alice", props.Subtitle)
	require.True(t, props.IsReplacement)
}

func TestTrackTxEvent(t *testing.T) {
	collector := &recordingCollector{}
	dryRun := wallet.NewDryRun("Send")
	tracker := analytics.NewTxTracker(dryRun, collector, 8)
	tracker.Start()
	defer tracker.Stop()

	draft := &model.SafeTxDraft{To: safeA}
	txId, err := dryRun.ExecuteTx(context.Background(), draft, "", "")
	require.NoError(t, err)

	w := newTransferWizard(Env{Identity: StaticIdentity(ownerIdentity(safeA)), Tracker: tracker})
	w.TrackTxEvent(txId, TrackOpts{Executed: true})

	require.Eventually(t, func() bool {
		return len(collector.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
	events := collector.snapshot()
	require.Equal(t, analytics.CREATE, events[0].Action)
	require.Equal(t, analytics.EXECUTE, events[1].Action)
	require.Equal(t, "Send", events[0].Label)
}

func TestStepTransitionEvents(t *testing.T) {
	collector := &recordingCollector{}
	w := newTransferWizard(Env{Identity: StaticIdentity(ownerIdentity(safeA)), Collector: collector})

	w.Advance(transfer{Amount: "1", Recipient: "0x01"})
	w.Retreat()
	require.Equal(t, []analytics.Event{
		{Action: "Next step", Category: "TokenTransfer", Label: "0"},
		{Action: "Previous step", Category: "TokenTransfer", Label: "1"},
	}, collector.snapshot())
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	w := newTransferWizard(Env{Identity: StaticIdentity(ownerIdentity(safeA)), Store: store})
	w.Advance(transfer{Amount: "1", Recipient: "0x01"})

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, 1, state.Step)

	restored := newTransferWizard(Env{Identity: StaticIdentity(ownerIdentity(safeA)), Store: store})
	require.Equal(t, 1, restored.StepIndex())
	require.Equal(t, "0x01", restored.Data().Recipient)

	require.NoError(t, restored.Close(ctx))
	state, err = store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state)
	require.Nil(t, restored.Drafts().Draft())
}
