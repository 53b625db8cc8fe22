package tokentransfer

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mohitkumar/txwizard/action"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/persistence"
	"github.com/mohitkumar/txwizard/util"
	"github.com/mohitkumar/txwizard/wallet"
	"github.com/mohitkumar/txwizard/wizard"
	"github.com/stretchr/testify/require"
)

const recipient = "0x00000000000000000000000000000000000000Bb"
const token = "0x00000000000000000000000000000000000000cC"

func TestBuildDraft(t *testing.T) {
	ctx := context.Background()
	id := model.Identity{SafeNonce: 7}

	t.Run("native", func(t *testing.T) {
		d, err := BuildDraft(ctx, Params{Recipient: recipient, Amount: "1000"}, id, nil)
		require.NoError(t, err)
		require.Equal(t, common.HexToAddress(recipient), d.To)
		require.Equal(t, int64(1000), d.Value.Int64())
		require.Empty(t, d.Data)
		require.Equal(t, uint64(7), d.Nonce)
	})

	t.Run("erc20", func(t *testing.T) {
		nonce := uint64(9)
		d, err := BuildDraft(ctx, Params{Recipient: recipient, TokenAddress: token, Amount: "255"}, id, &nonce)
		require.NoError(t, err)
		require.Equal(t, common.HexToAddress(token), d.To)
		require.Equal(t, int64(0), d.Value.Int64())
		require.Equal(t, uint64(9), d.Nonce)
		require.Len(t, d.Data, 68)
		require.Equal(t, "a9059cbb", hex.EncodeToString(d.Data[:4]))
		require.Equal(t, common.HexToAddress(recipient).Bytes(), d.Data[16:36])
		require.Equal(t, byte(0xff), d.Data[67])
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := BuildDraft(ctx, Params{Amount: "1"}, id, nil)
		require.ErrorIs(t, err, ErrMissingRecipient)
		_, err = BuildDraft(ctx, Params{Recipient: recipient, Amount: "-1"}, id, nil)
		require.ErrorIs(t, err, ErrInvalidAmount)
		_, err = BuildDraft(ctx, Params{Recipient: recipient, Amount: "abc"}, id, nil)
		require.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestTransferFlow(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewSessionFlowStateStore(persistence.NewMemorySessionStorage(time.Hour), util.NewJsonEncoderDecoder[model.PersistedFlowState]())
	dryRun := wallet.NewDryRun("Send")
	env := wizard.Env{
		Identity: wizard.StaticIdentity(model.Identity{
			ChainID:     "1",
			SafeAddress: common.HexToAddress("0xaa"),
			IsSafeOwner: true,
			Threshold:   2,
		}),
		Wallet: dryRun,
		Store:  store,
	}

	f := New(env, wizard.Props{}, Params{})
	n := f.Render()
	require.Equal(t, "txLayout", n.Type)
	require.Equal(t, 50, n.Props["progress"])
	require.Len(t, n.Find("form"), 1)

	require.NoError(t, f.Advance([]byte(`{"recipient":"`+recipient+`","amount":"5"}`)))
	require.True(t, <-f.Wizard().RebuildDraft(ctx))

	n = f.Render()
	require.Equal(t, 100, n.Props["progress"])
	require.Equal(t, "5 to "+recipient, n.Props["subtitle"])
	_, ok := n.FindID(action.SIGN_ID)
	require.True(t, ok)

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "TokenTransfer", state.FlowType)
	require.Equal(t, 1, state.Step)

	var submitted string
	require.NoError(t, f.Submit(ctx, action.SIGN_ID, func(txId string) { submitted = txId }))
	require.NotEmpty(t, submitted)
	require.NoError(t, f.Close(ctx))

	state, err = store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestInvalidAdvance(t *testing.T) {
	f := New(wizard.Env{}, wizard.Props{}, Params{})
	require.Error(t, f.Advance([]byte(`{"amount":5}`)))
	require.Equal(t, 0, f.Context().StepIndex())
}
