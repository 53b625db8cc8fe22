package action

import (
	"context"

	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/slot"
	"github.com/mohitkumar/txwizard/view"
	"github.com/mohitkumar/txwizard/wizard"
	"go.uber.org/zap"
)

var _ composer.Action = new(Batch)

// Batch queues a new transaction instead of signing it right away. It sits next to
// the terminal action rather than replacing it.
type Batch struct{}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) ID() string {
	return BATCH_ID
}

func (b *Batch) Slot() slot.Name {
	return slot.SUBMIT
}

func (b *Batch) Condition(wc *wizard.Context) bool {
	facts := wc.ExecutionFacts()
	decision := wc.Decision()
	return facts.IsCreation &&
		!facts.IsCounterfactualSafe &&
		facts.IsSafeOwner &&
		!decision.WillExecute &&
		facts.HasDraft
}

func (b *Batch) Render(wc *wizard.Context) view.Node {
	return button(wc, "Add to batch", model.METHOD_NONE)
}

func (b *Batch) Submit(ctx context.Context, wc *wizard.Context, onSubmit wizard.SubmitFunc) error {
	d := wc.Drafts().Draft()
	if d == nil {
		return ErrDraftNotReady
	}
	if !wc.BeginSubmit() {
		return ErrNotSubmittable
	}
	if err := wc.Wallet().AddToBatch(ctx, d, wc.Origin()); err != nil {
		wc.FailSubmit(err)
		return err
	}
	logger.Info("transaction added to batch", zap.String("flow", wc.FlowID()))
	wc.TrackEvent(analytics.Event{
		Action:   analytics.ADD_TO_BATCH,
		Category: analytics.BATCH_CATEGORY,
		Label:    wc.FlowID(),
	})
	if onSubmit != nil {
		onSubmit("")
	}
	return nil
}
