// Package changethreshold changes how many owner confirmations the safe requires.
package changethreshold

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mohitkumar/txwizard/action"
	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/feature"
	"github.com/mohitkumar/txwizard/flow"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/view"
	"github.com/mohitkumar/txwizard/wizard"
)

// changeThreshold(uint256)
var changeThresholdSelector = []byte{0x69, 0x4e, 0x80, 0xc3}

type Params struct {
	Threshold int `json:"threshold"`
}

var Layout = model.TxLayoutProps{
	Title:    "Change threshold",
	Subtitle: "New threshold {$.threshold}",
	Icon:     "assets/new-tx/owners",
}

func Load(ctx context.Context, env wizard.Env) (flow.Session, error) {
	return New(env, wizard.Props{}, Params{}), nil
}

func New(env wizard.Env, props wizard.Props, initial Params) *flow.StepFlow[Params] {
	if props.FlowID == "" {
		props.FlowID = string(flow.CHANGE_THRESHOLD)
	}
	props.TotalSteps = 2
	props.Layout = Layout.Merge(props.Layout)
	w := wizard.New[Params](env, props, initial, BuildDraft)
	form := composer.BuildStep(composer.ContentFunc(func(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node {
		return view.New("form", map[string]any{
			"threshold":        w.Data().Threshold,
			"currentThreshold": wc.Identity().Threshold,
		})
	}), nil, nil)
	review := composer.BuildStep(composer.ContentFunc(func(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node {
		children := append([]view.Node{view.New("thresholdSummary", map[string]any{
			"from": wc.Identity().Threshold,
			"to":   w.Data().Threshold,
		})}, features...)
		children = append(children, view.New("actions", nil, actions...))
		return view.New("review", nil, children...)
	}), feature.Review(), action.TerminalActions())
	return flow.NewStepFlow[Params](flow.CHANGE_THRESHOLD, w, form, review)
}

// BuildDraft calls changeThreshold on the safe itself.
func BuildDraft(ctx context.Context, p Params, id model.Identity, txNonce *uint64) (*model.SafeTxDraft, error) {
	if p.Threshold < 1 {
		return nil, fmt.Errorf("threshold must be at least 1, got %d", p.Threshold)
	}
	nonce := id.SafeNonce
	if txNonce != nil {
		nonce = *txNonce
	}
	data := append([]byte{}, changeThresholdSelector...)
	data = append(data, common.LeftPadBytes(big.NewInt(int64(p.Threshold)).Bytes(), 32)...)
	return &model.SafeTxDraft{
		To:        id.SafeAddress,
		Value:     big.NewInt(0),
		Data:      data,
		Operation: model.OPERATION_CALL,
		Nonce:     nonce,
	}, nil
}
