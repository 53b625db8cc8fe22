package action

import (
	"context"
	"errors"

	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/slot"
	"github.com/mohitkumar/txwizard/wizard"
)

var _ composer.Action = new(TerminalAction)

var errNoRole = errors.New("no role allows this transaction")

func NewSign() *TerminalAction {
	return &TerminalAction{
		id:     SIGN_ID,
		label:  "Sign",
		slot:   slot.COMBO_SUBMIT,
		method: model.METHOD_SIGN,
		call: func(ctx context.Context, wc *wizard.Context, d *model.SafeTxDraft) (string, error) {
			return wc.Wallet().SignTx(ctx, d, wc.TxID(), wc.Origin())
		},
	}
}

func NewExecute() *TerminalAction {
	return &TerminalAction{
		id:     EXECUTE_ID,
		label:  "Execute",
		slot:   slot.COMBO_SUBMIT,
		method: model.METHOD_EXECUTE,
		track:  wizard.TrackOpts{Executed: true},
		call: func(ctx context.Context, wc *wizard.Context, d *model.SafeTxDraft) (string, error) {
			return wc.Wallet().ExecuteTx(ctx, d, wc.TxID(), wc.Origin())
		},
	}
}

func NewExecuteThroughRole() *TerminalAction {
	return &TerminalAction{
		id:     EXECUTE_THROUGH_ROLE_ID,
		label:  "Execute through role",
		slot:   slot.COMBO_SUBMIT,
		method: model.METHOD_EXECUTE_THROUGH_ROLE,
		track:  wizard.TrackOpts{Executed: true, RoleExecution: true},
		call: func(ctx context.Context, wc *wizard.Context, d *model.SafeTxDraft) (string, error) {
			role := wc.Decision().Role
			if role == nil {
				return "", errNoRole
			}
			return wc.Wallet().ExecuteThroughRole(ctx, d, *role, wc.Origin())
		},
	}
}

func NewPropose() *TerminalAction {
	return &TerminalAction{
		id:     PROPOSE_ID,
		label:  "Propose transaction",
		slot:   slot.COMBO_SUBMIT,
		method: model.METHOD_PROPOSE,
		track:  wizard.TrackOpts{ProposerCreation: true},
		call: func(ctx context.Context, wc *wizard.Context, d *model.SafeTxDraft) (string, error) {
			return wc.Wallet().ProposeTx(ctx, d, wc.TxID(), wc.Origin())
		},
	}
}

// NewCounterfactual deploys the safe and executes its first transaction in one go.
func NewCounterfactual() *TerminalAction {
	return &TerminalAction{
		id:     COUNTERFACTUAL_ID,
		label:  "Deploy and execute",
		slot:   slot.COMBO_SUBMIT,
		method: model.METHOD_COUNTERFACTUAL,
		track:  wizard.TrackOpts{Executed: true},
		call: func(ctx context.Context, wc *wizard.Context, d *model.SafeTxDraft) (string, error) {
			return wc.Wallet().DeployAndExecute(ctx, d, wc.Origin())
		},
	}
}
