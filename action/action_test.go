package action

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/feature"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/view"
	"github.com/mohitkumar/txwizard/wallet"
	"github.com/mohitkumar/txwizard/wizard"
	"github.com/stretchr/testify/require"
)

var safe = common.HexToAddress("0x00000000000000000000000000000000000000aa")

type payload struct {
	Value int64 `json:"value"`
}

func buildPayload(ctx context.Context, data payload, id model.Identity, txNonce *uint64) (*model.SafeTxDraft, error) {
	if data.Value < 0 {
		return nil, errors.New("negative value")
	}
	return &model.SafeTxDraft{To: id.SafeAddress, Value: big.NewInt(data.Value), Nonce: id.SafeNonce}, nil
}

var content = composer.ContentFunc(func(wc *wizard.Context, features []view.Node, actions []view.Node) view.Node {
	return view.New("review", nil, view.New("features", nil, features...), view.New("actions", nil, actions...))
})

func reviewStep() *composer.Step {
	return composer.BuildStep(content, feature.Review(), append(TerminalActions(), NewBatch()))
}

func childIDs(n view.Node, typ string) []string {
	var res []string
	for _, c := range n.Find(typ)[0].Children {
		if c.ID != "" {
			res = append(res, c.ID)
		} else {
			res = append(res, c.Type)
		}
	}
	return res
}

func newWizard(t *testing.T, id model.Identity, w wallet.Actions, defaultExecute bool) *wizard.Wizard[payload] {
	wz := wizard.New[payload](wizard.Env{
		Identity:       wizard.StaticIdentity(id),
		Wallet:         w,
		DefaultExecute: defaultExecute,
	}, wizard.Props{FlowID: "Test", TotalSteps: 1}, payload{Value: 1}, buildPayload)
	require.True(t, <-wz.RebuildDraft(context.Background()))
	return wz
}

func TestOfferedActions(t *testing.T) {
	role := &model.Role{Key: "treasurer", ModAddress: common.HexToAddress("0x0b")}
	scenarios := map[string]struct {
		identity         model.Identity
		defaultExecute   bool
		expectedFeatures []string
		expectedActions  []string
	}{
		"owner of 1 of n safe executes": {
			identity:         model.Identity{SafeAddress: safe, IsSafeOwner: true, Threshold: 1},
			defaultExecute:   true,
			expectedFeatures: []string{feature.EXECUTE_CHECKBOX_ID},
			expectedActions:  []string{EXECUTE_ID},
		},
		"owner of 1 of n safe opting out signs": {
			identity:         model.Identity{SafeAddress: safe, IsSafeOwner: true, Threshold: 1},
			defaultExecute:   false,
			expectedFeatures: []string{feature.EXECUTE_CHECKBOX_ID},
			expectedActions:  []string{BATCH_ID, SIGN_ID},
		},
		"owner of 2 of n safe signs": {
			identity:        model.Identity{SafeAddress: safe, IsSafeOwner: true, Threshold: 2},
			defaultExecute:  true,
			expectedActions: []string{BATCH_ID, SIGN_ID},
		},
		"proposer proposes": {
			identity:        model.Identity{SafeAddress: safe, IsWalletProposer: true, Threshold: 2},
			defaultExecute:  true,
			expectedActions: []string{PROPOSE_ID},
		},
		"counterfactual safe deploys": {
			identity:        model.Identity{SafeAddress: safe, IsSafeOwner: true, IsCounterfactualSafe: true, Threshold: 1},
			defaultExecute:  true,
			expectedActions: []string{COUNTERFACTUAL_ID},
		},
		"role member executes through role": {
			identity:         model.Identity{SafeAddress: safe, Threshold: 2, AllowingRole: role},
			defaultExecute:   true,
			expectedFeatures: []string{feature.EXECUTE_CHECKBOX_ID},
			expectedActions:  []string{EXECUTE_THROUGH_ROLE_ID},
		},
	}
	for name, s := range scenarios {
		t.Run(name, func(t *testing.T) {
			wz := newWizard(t, s.identity, wallet.NewDryRun("Custom"), s.defaultExecute)
			n := reviewStep().Render(wz.Context)
			require.Equal(t, s.expectedFeatures, childIDs(n, "features"))
			require.Equal(t, s.expectedActions, childIDs(n, "actions"))
		})
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	dryRun := wallet.NewDryRun("Custom")
	wz := newWizard(t, model.Identity{SafeAddress: safe, IsSafeOwner: true, Threshold: 1}, dryRun, true)
	step := reviewStep()
	step.Render(wz.Context)

	var submitted string
	require.NoError(t, step.Submit(ctx, wz.Context, EXECUTE_ID, func(txId string) { submitted = txId }))
	require.NotEmpty(t, submitted)
	details, err := dryRun.GetTxDetails(ctx, submitted)
	require.NoError(t, err)
	require.True(t, details.Executed)
	require.False(t, wz.IsSubmittable())
}

func TestSubmitRejected(t *testing.T) {
	ctx := context.Background()
	dryRun := wallet.NewDryRun("Custom")
	wz := newWizard(t, model.Identity{SafeAddress: safe, IsSafeOwner: true, Threshold: 2}, dryRun, true)
	step := reviewStep()
	step.Render(wz.Context)

	dryRun.RejectNext(1)
	called := false
	err := step.Submit(ctx, wz.Context, SIGN_ID, func(string) { called = true })
	require.True(t, wallet.IsRejection(err))
	require.False(t, called)
	require.True(t, wz.IsSubmittable())
	require.True(t, wz.IsRejectedByUser())

	n := step.Render(wz.Context)
	notice, ok := n.FindID(feature.SUBMIT_ERROR_ID)
	require.True(t, ok)
	require.Equal(t, feature.REJECTED_MESSAGE, notice.Props["message"])

	require.NoError(t, step.Submit(ctx, wz.Context, SIGN_ID, func(string) { called = true }))
	require.True(t, called)
	require.False(t, wz.IsRejectedByUser())
}

func TestSubmitWithoutDraft(t *testing.T) {
	ctx := context.Background()
	wz := newWizard(t, model.Identity{SafeAddress: safe, IsSafeOwner: true, Threshold: 2}, wallet.NewDryRun("Custom"), true)
	wz.SetData(payload{Value: -1})
	require.True(t, <-wz.RebuildDraft(ctx))
	require.Nil(t, wz.Drafts().Draft())

	err := NewSign().Submit(ctx, wz.Context, func(string) {})
	require.ErrorIs(t, err, ErrDraftNotReady)
	require.True(t, wz.IsSubmittable())

	step := reviewStep()
	n := step.Render(wz.Context)
	require.Equal(t, []string{feature.DRAFT_ERROR_ID}, childIDs(n, "features"))
	require.Equal(t, []string{"loading"}, childIDs(n, "actions"))
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	dryRun := wallet.NewDryRun("Custom")
	wz := newWizard(t, model.Identity{SafeAddress: safe, IsSafeOwner: true, Threshold: 2}, dryRun, false)
	step := reviewStep()
	step.Render(wz.Context)

	require.NoError(t, step.Submit(ctx, wz.Context, BATCH_ID, func(txId string) {
		require.Empty(t, txId)
	}))
	require.Len(t, dryRun.Batch(), 1)
}
