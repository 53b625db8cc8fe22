package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"go.uber.org/zap"
)

var _ Actions = new(DryRun)
var _ DetailsFetcher = new(DryRun)

// DryRun accepts every request without touching a chain and remembers what it saw,
// so the read side can describe transactions it issued.
type DryRun struct {
	txType  string
	txs     map[string]*model.TxDetails
	batch   []*model.SafeTxDraft
	rejects int
	mu      sync.Mutex
}

func NewDryRun(txType string) *DryRun {
	return &DryRun{
		txType: txType,
		txs:    make(map[string]*model.TxDetails),
	}
}

// RejectNext makes the next n wallet calls fail as if the user dismissed the prompt.
func (d *DryRun) RejectNext(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejects = n
}

func (d *DryRun) SignTx(ctx context.Context, draft *model.SafeTxDraft, txId string, origin string) (string, error) {
	return d.record(ctx, "sign", draft, txId, false)
}

func (d *DryRun) ExecuteTx(ctx context.Context, draft *model.SafeTxDraft, txId string, origin string) (string, error) {
	return d.record(ctx, "execute", draft, txId, true)
}

func (d *DryRun) ExecuteThroughRole(ctx context.Context, draft *model.SafeTxDraft, role model.Role, origin string) (string, error) {
	logger.Debug("dry run role execution", zap.String("role", role.Key), zap.String("mod", role.ModAddress.Hex()))
	return d.record(ctx, "executeThroughRole", draft, "", true)
}

func (d *DryRun) ProposeTx(ctx context.Context, draft *model.SafeTxDraft, txId string, origin string) (string, error) {
	return d.record(ctx, "propose", draft, txId, false)
}

func (d *DryRun) DeployAndExecute(ctx context.Context, draft *model.SafeTxDraft, origin string) (string, error) {
	return d.record(ctx, "deployAndExecute", draft, "", true)
}

func (d *DryRun) AddToBatch(ctx context.Context, draft *model.SafeTxDraft, origin string) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batch = append(d.batch, draft)
	logger.Info("dry run added draft to batch", zap.Int("size", len(d.batch)))
	return nil
}

func (d *DryRun) Batch() []*model.SafeTxDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*model.SafeTxDraft(nil), d.batch...)
}

func (d *DryRun) GetTxDetails(ctx context.Context, txId string) (*model.TxDetails, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	details, ok := d.txs[txId]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", txId)
	}
	cp := *details
	return &cp, nil
}

func (d *DryRun) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rejects > 0 {
		d.rejects--
		return RejectionError{Reason: "dry run rejection"}
	}
	return nil
}

func (d *DryRun) record(ctx context.Context, op string, draft *model.SafeTxDraft, txId string, executed bool) (string, error) {
	if err := d.check(ctx); err != nil {
		return "", err
	}
	if draft == nil {
		return "", fmt.Errorf("%s: no transaction to submit", op)
	}
	if txId == "" {
		txId = fmt.Sprintf("multisig_%s_%s", draft.To.Hex(), uuid.New().String())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	details, ok := d.txs[txId]
	if !ok {
		details = &model.TxDetails{TxID: txId, TxType: d.txType}
		d.txs[txId] = details
	}
	details.Executed = details.Executed || executed
	logger.Info("dry run wallet call", zap.String("op", op), zap.String("txId", txId), zap.Bool("executed", executed))
	return txId, nil
}
