package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Operation uint8

const OPERATION_CALL Operation = 0
const OPERATION_DELEGATE_CALL Operation = 1

// SafeTxDraft is the pending multisig transaction built from step data.
type SafeTxDraft struct {
	To         common.Address            `json:"to"`
	Value      *big.Int                  `json:"value"`
	Data       []byte                    `json:"data"`
	Operation  Operation                 `json:"operation"`
	Nonce      uint64                    `json:"nonce"`
	Signatures map[common.Address][]byte `json:"signatures,omitempty"`
}

// HasSignatures reports whether any owner has already signed, after which the draft is frozen.
func (d *SafeTxDraft) HasSignatures() bool {
	return d != nil && len(d.Signatures) > 0
}

func (d *SafeTxDraft) SignatureCount() int {
	if d == nil {
		return 0
	}
	return len(d.Signatures)
}
