package wizard

import (
	"context"
	"strconv"

	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/sequencer"
	"go.uber.org/zap"
)

// DraftBuilder turns step data into a transaction for the given safe.
type DraftBuilder[T any] func(ctx context.Context, data T, identity model.Identity, txNonce *uint64) (*model.SafeTxDraft, error)

// Wizard is a Context driven by a typed sequencer. Data changes rebuild the draft.
type Wizard[T any] struct {
	*Context
	seq     *sequencer.Sequencer[T]
	builder DraftBuilder[T]
}

func New[T any](env Env, props Props, initial T, builder DraftBuilder[T]) *Wizard[T] {
	w := &Wizard[T]{builder: builder}
	opts := []sequencer.Option[T]{
		sequencer.WithListener[T](w.onTransition),
	}
	if env.Store != nil && props.FlowID != "" {
		opts = append(opts, sequencer.WithStore[T](env.Store))
	}
	if props.TxID != "" {
		opts = append(opts, sequencer.WithTxID[T](props.TxID))
	}
	if props.TxNonce != nil {
		opts = append(opts, sequencer.WithTxNonce[T](*props.TxNonce))
	}
	w.seq = sequencer.New[T](initial, props.FlowID, props.TotalSteps, opts...)
	w.Context = NewContext(env, w.seq, props)
	w.Context.layoutData = func() any { return w.seq.Data() }
	w.Context.onReset = func() { w.RebuildDraft(context.Background()) }
	w.RebuildDraft(context.Background())
	return w
}

func (w *Wizard[T]) Data() T {
	return w.seq.Data()
}

func (w *Wizard[T]) State() model.WizardState[T] {
	return w.seq.State()
}

// Advance moves forward, replacing data when given.
func (w *Wizard[T]) Advance(next ...T) {
	w.seq.Advance(next...)
	if len(next) > 0 {
		w.RebuildDraft(context.Background())
	}
}

func (w *Wizard[T]) Retreat() {
	w.seq.Retreat()
}

func (w *Wizard[T]) SetData(data T) {
	w.seq.SetData(data)
	w.RebuildDraft(context.Background())
}

// RebuildDraft starts a draft build from the current data. The channel reports whether
// the result was applied; a nil builder yields false right away.
func (w *Wizard[T]) RebuildDraft(ctx context.Context) <-chan bool {
	if w.builder == nil {
		done := make(chan bool, 1)
		done <- false
		return done
	}
	data := w.seq.Data()
	id := w.Identity()
	nonce := w.seq.TxNonce()
	return w.drafts.RebuildAsync(ctx, func(ctx context.Context) (*model.SafeTxDraft, error) {
		return w.builder(ctx, data, id, nonce)
	})
}

// Close ends the wizard the way closing its modal does: participants go away, any
// in-flight draft build is abandoned and the persisted state is dropped.
func (w *Wizard[T]) Close(ctx context.Context) error {
	w.slots.Clear()
	w.drafts.Reset()
	if w.env.Store == nil || w.seq.FlowID() == "" {
		return nil
	}
	if err := w.env.Store.Clear(ctx); err != nil {
		logger.Error("error clearing flow state", zap.String("flow", w.seq.FlowID()), zap.Error(err))
		return err
	}
	return nil
}

func (w *Wizard[T]) onTransition(tr model.StepTransition) {
	if w.env.Collector == nil {
		return
	}
	action := "Next step"
	if tr.Direction == model.STEP_BACK {
		action = "Previous step"
	}
	w.env.Collector.TrackEvent(analytics.Event{
		Action:   action,
		Category: tr.FlowId,
		Label:    strconv.Itoa(tr.Step),
	})
}
