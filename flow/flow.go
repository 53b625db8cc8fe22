// Package flow names every wizard flow this module can open and resolves a flow
// kind to the code that builds it.
package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohitkumar/txwizard/wizard"
)

var ErrFlowNotAvailable = errors.New("flow not available")

type Kind string

const TOKEN_TRANSFER Kind = "TokenTransfer"
const CHANGE_THRESHOLD Kind = "ChangeThreshold"
const ADD_OWNER Kind = "AddOwner"
const REMOVE_OWNER Kind = "RemoveOwner"
const REJECT_TX Kind = "RejectTx"
const CONFIRM_TX Kind = "ConfirmTx"

var KINDS = []Kind{
	TOKEN_TRANSFER,
	CHANGE_THRESHOLD,
	ADD_OWNER,
	REMOVE_OWNER,
	REJECT_TX,
	CONFIRM_TX,
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case TOKEN_TRANSFER, CHANGE_THRESHOLD, ADD_OWNER, REMOVE_OWNER, REJECT_TX, CONFIRM_TX:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown flow kind %q", s)
}

// Loader builds a flow. A flow built with a store recovers its own saved state.
type Loader func(ctx context.Context, env wizard.Env) (Session, error)

// Catalog has one field per kind so that adding a kind forces a decision here.
type Catalog struct {
	TokenTransfer   Loader
	ChangeThreshold Loader
	AddOwner        Loader
	RemoveOwner     Loader
	RejectTx        Loader
	ConfirmTx       Loader
}

func (c Catalog) loader(kind Kind) Loader {
	switch kind {
	case TOKEN_TRANSFER:
		return c.TokenTransfer
	case CHANGE_THRESHOLD:
		return c.ChangeThreshold
	case ADD_OWNER:
		return c.AddOwner
	case REMOVE_OWNER:
		return c.RemoveOwner
	case REJECT_TX:
		return c.RejectTx
	case CONFIRM_TX:
		return c.ConfirmTx
	}
	return nil
}

func (c Catalog) Available() []Kind {
	var res []Kind
	for _, k := range KINDS {
		if c.loader(k) != nil {
			res = append(res, k)
		}
	}
	return res
}

func (c Catalog) Load(ctx context.Context, kind Kind, env wizard.Env) (Session, error) {
	l := c.loader(kind)
	if l == nil {
		return nil, fmt.Errorf("%s: %w", kind, ErrFlowNotAvailable)
	}
	s, err := l(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("error loading flow %s: %w", kind, err)
	}
	return s, nil
}
