// Package tokentransfer sends native or ERC-20 tokens from the safe.
package tokentransfer

import (
	"context"
	"errors"
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

// transfer(address,uint256)
var transferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}

var ErrMissingRecipient = errors.New("recipient is required")
var ErrInvalidAmount = errors.New("amount must be a positive integer")

type Params struct {
	Recipient    string `json:"recipient"`
	TokenAddress string `json:"tokenAddress,omitempty"`
	Amount       string `json:"amount"`
}

var Layout = model.TxLayoutProps{
	Title:     "Send tokens",
	Subtitle:  "{$.amount} to {$.recipient}",
	Icon:      "assets/new-tx/token",
	TxSummary: "Send {$.amount}",
}

func Load(ctx context.Context, env wizard.Env) (flow.Session, error) {
	return New(env, wizard.Props{}, Params{}), nil
}

// New opens the flow. Props.FlowID and Props.Layout are filled in when empty.
func New(env wizard.Env, props wizard.Props, initial Params) *flow.StepFlow[Params] {
	if props.FlowID == "" {
		props.FlowID = string(flow.TOKEN_TRANSFER)
	}
	props.TotalSteps = 2
	props.Layout = Layout.Merge(props.Layout)
	w := wizard.New[Params](env, props, initial, BuildDraft)
	form := composer.BuildStep(formContent(w), nil, nil)
	review := composer.BuildStep(reviewContent(w), feature.Review(), append(action.TerminalActions(), action.NewBatch()))
	return flow.NewStepFlow[Params](flow.TOKEN_TRANSFER, w, form, review)
}

func BuildDraft(ctx context.Context, p Params, id model.Identity, txNonce *uint64) (*model.SafeTxDraft, error) {
	if p.Recipient == "" || !common.IsHexAddress(p.Recipient) {
		return nil, ErrMissingRecipient
	}
	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%q: %w", p.Amount, ErrInvalidAmount)
	}
	nonce := id.SafeNonce
	if txNonce != nil {
		nonce = *txNonce
	}
	recipient := common.HexToAddress(p.Recipient)
	if p.TokenAddress == "" {
		return &model.SafeTxDraft{
			To:        recipient,
			Value:     amount,
			Operation: model.OPERATION_CALL,
			Nonce:     nonce,
		}, nil
	}
	if !common.IsHexAddress(p.TokenAddress) {
		return nil, fmt.Errorf("invalid token address %q", p.TokenAddress)
	}
	data := make([]byte, 0, 4+32+32)
	data = append(data, transferSelector...)
	data = append(data, common.LeftPadBytes(recipient.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return &model.SafeTxDraft{
		To:        common.HexToAddress(p.TokenAddress),
		Value:     big.NewInt(0),
		Data:      data,
		Operation: model.OPERATION_CALL,
		Nonce:     nonce,
	}, nil
}

func formContent(w *wizard.Wizard[Params]) composer.Content {
	return composer.ContentFunc(func(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node {
		p := w.Data()
		return view.New("form", map[string]any{
			"recipient":    p.Recipient,
			"tokenAddress": p.TokenAddress,
			"amount":       p.Amount,
		}, append(features, view.New("button", map[string]any{"label": "Next"}).WithID("next"))...)
	})
}

func reviewContent(w *wizard.Wizard[Params]) composer.Content {
	return composer.ContentFunc(func(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node {
		p := w.Data()
		summary := view.New("transferSummary", map[string]any{
			"recipient":    p.Recipient,
			"tokenAddress": p.TokenAddress,
			"amount":       p.Amount,
		})
		children := append([]view.Node{summary}, features...)
		children = append(children, view.New("actions", nil, actions...))
		return view.New("review", nil, children...)
	})
}
