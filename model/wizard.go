package model

import "encoding/json"

// WizardState is the step position and payload of one open wizard.
type WizardState[T any] struct {
	StepIndex int     `json:"stepIndex"`
	Data      T       `json:"data"`
	FlowID    string  `json:"flowId"`
	TxID      string  `json:"txId,omitempty"`
	TxNonce   *uint64 `json:"txNonce,omitempty"`
}

// PersistedFlowState is what survives a reload of the host.
type PersistedFlowState struct {
	FlowType  string          `json:"flowType"`
	Step      int             `json:"step"`
	Data      json.RawMessage `json:"data"`
	TxID      string          `json:"txId,omitempty"`
	TxNonce   *uint64         `json:"txNonce,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// TxLayoutProps drive the chrome around step content.
type TxLayoutProps struct {
	Title         string `json:"title,omitempty"`
	Subtitle      string `json:"subtitle,omitempty"`
	Icon          string `json:"icon,omitempty"`
	TxSummary     string `json:"txSummary,omitempty"`
	HideNonce     bool   `json:"hideNonce,omitempty"`
	IsReplacement bool   `json:"isReplacement,omitempty"`
	IsBatch       bool   `json:"isBatch,omitempty"`
}

// Merge returns p with every non-zero field of override applied on top.
func (p TxLayoutProps) Merge(override TxLayoutProps) TxLayoutProps {
	if override.Title != "" {
		p.Title = override.Title
	}
	if override.Subtitle != "" {
		p.Subtitle = override.Subtitle
	}
	if override.Icon != "" {
		p.Icon = override.Icon
	}
	if override.TxSummary != "" {
		p.TxSummary = override.TxSummary
	}
	if override.HideNonce {
		p.HideNonce = true
	}
	if override.IsReplacement {
		p.IsReplacement = true
	}
	if override.IsBatch {
		p.IsBatch = true
	}
	return p
}
