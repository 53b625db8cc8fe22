package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohitkumar/txwizard/model"
)

// Actions are the terminal wallet operations. Each returns the id of the resulting
// transaction, or a RejectionError when the user dismissed the wallet prompt.
type Actions interface {
	SignTx(ctx context.Context, draft *model.SafeTxDraft, txId string, origin string) (string, error)
	ExecuteTx(ctx context.Context, draft *model.SafeTxDraft, txId string, origin string) (string, error)
	ExecuteThroughRole(ctx context.Context, draft *model.SafeTxDraft, role model.Role, origin string) (string, error)
	ProposeTx(ctx context.Context, draft *model.SafeTxDraft, txId string, origin string) (string, error)
	DeployAndExecute(ctx context.Context, draft *model.SafeTxDraft, origin string) (string, error)
	AddToBatch(ctx context.Context, draft *model.SafeTxDraft, origin string) error
}

// DetailsFetcher is the read side used to label analytics events.
type DetailsFetcher interface {
	GetTxDetails(ctx context.Context, txId string) (*model.TxDetails, error)
}

type RejectionError struct {
	Reason string
}

func (e RejectionError) Error() string {
	return fmt.Sprintf("user rejected the request: %s", e.Reason)
}

// IsRejection reports whether err, or anything it wraps, is a wallet prompt rejection.
func IsRejection(err error) bool {
	var rejection RejectionError
	if errors.As(err, &rejection) {
		return true
	}
	var rejectionPtr *RejectionError
	return errors.As(err, &rejectionPtr)
}
