// Package action holds the submit controls a review step can offer. The terminal
// actions share the combo submit slot and their conditions are mutually exclusive,
// so at most one of them is ever registered.
package action

import (
	"context"
	"errors"

	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/slot"
	"github.com/mohitkumar/txwizard/view"
	"github.com/mohitkumar/txwizard/wizard"
	"go.uber.org/zap"
)

var ErrDraftNotReady = errors.New("transaction draft is not ready")
var ErrNotSubmittable = errors.New("wizard is not submittable")

const SIGN_ID = "sign"
const EXECUTE_ID = "execute"
const EXECUTE_THROUGH_ROLE_ID = "executeThroughRole"
const PROPOSE_ID = "propose"
const COUNTERFACTUAL_ID = "counterfactual"
const BATCH_ID = "batching"

type walletCall func(ctx context.Context, wc *wizard.Context, draft *model.SafeTxDraft) (string, error)

type TerminalAction struct {
	id     string
	label  string
	slot   slot.Name
	method model.ExecutionMethod
	track  wizard.TrackOpts
	call   walletCall
}

func (ba *TerminalAction) ID() string {
	return ba.id
}

func (ba *TerminalAction) Slot() slot.Name {
	return ba.slot
}

func (ba *TerminalAction) Condition(wc *wizard.Context) bool {
	return wc.ExecutionMethod() == ba.method
}

func (ba *TerminalAction) Render(wc *wizard.Context) view.Node {
	return button(wc, ba.label, ba.method)
}

// Submit runs the wallet call for the current draft. Failures are recorded on the
// context, which re-arms the form for a retry.
func (ba *TerminalAction) Submit(ctx context.Context, wc *wizard.Context, onSubmit wizard.SubmitFunc) error {
	d := wc.Drafts().Draft()
	if d == nil {
		return ErrDraftNotReady
	}
	if !wc.BeginSubmit() {
		return ErrNotSubmittable
	}
	txId, err := ba.call(ctx, wc, d)
	if err != nil {
		wc.FailSubmit(err)
		return err
	}
	logger.Info("transaction submitted", zap.String("action", ba.id), zap.String("flow", wc.FlowID()), zap.String("txId", txId))
	wc.TrackTxEvent(txId, ba.track)
	if onSubmit != nil {
		onSubmit(txId)
	}
	return nil
}

func button(wc *wizard.Context, label string, method model.ExecutionMethod) view.Node {
	props := map[string]any{
		"label":    label,
		"disabled": !wc.IsSubmittable() || wc.Drafts().Draft() == nil,
	}
	if method != model.METHOD_NONE {
		props["method"] = string(method)
	}
	return view.New("button", props)
}

// TerminalActions returns every terminal action in the order they are offered.
func TerminalActions() []composer.Action {
	return []composer.Action{
		NewCounterfactual(),
		NewExecute(),
		NewExecuteThroughRole(),
		NewSign(),
		NewPropose(),
	}
}
