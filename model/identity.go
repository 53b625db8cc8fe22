package model

import "github.com/ethereum/go-ethereum/common"

// Role is a delegated permission held by a wallet through a roles module.
type Role struct {
	Key        string         `json:"roleKey"`
	ModAddress common.Address `json:"modAddress"`
}

// Identity is the wallet, safe and chain facts supplied by the host on every render.
type Identity struct {
	ChainID              string         `json:"chainId"`
	SafeAddress          common.Address `json:"safeAddress"`
	WalletAddress        common.Address `json:"walletAddress"`
	IsCounterfactualSafe bool           `json:"isCounterfactualSafe"`
	IsSafeOwner          bool           `json:"isSafeOwner"`
	IsWalletProposer     bool           `json:"isWalletProposer"`
	IsParentSigner       bool           `json:"isParentSigner"`
	IsNestedConfirmation bool           `json:"isNestedConfirmation"`
	Threshold            int            `json:"threshold"`
	SafeNonce            uint64         `json:"safeNonce"`
	AllowingRole         *Role          `json:"allowingRole,omitempty"`
	MostLikelyRole       *Role          `json:"mostLikelyRole,omitempty"`
}

// SameSafe reports whether both identities point at the same safe on the same chain.
func (i Identity) SameSafe(other Identity) bool {
	return i.ChainID == other.ChainID && i.SafeAddress == other.SafeAddress
}
