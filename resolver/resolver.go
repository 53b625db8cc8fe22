// Package resolver decides which terminal action a wizard offers for the current
// wallet, safe and transaction facts. Everything here is pure and cheap enough to
// call on every render.
package resolver

import "github.com/mohitkumar/txwizard/model"

type Facts struct {
	IsCounterfactualSafe    bool
	IsSafeOwner             bool
	IsWalletProposer        bool
	IsCreation              bool
	IsCorrectNonce          bool
	IsExecutableAlready     bool
	IsImmediatelyExecutable bool
	AllowingRole            *model.Role
	MostLikelyRole          *model.Role
	UserWantsExecute        bool
	OnlyExecute             bool
	HasDraft                bool
}

// Decision carries the intermediate predicates next to the chosen method so
// participants and features can reuse them without recomputing.
type Decision struct {
	CanExecute        bool
	CanExecuteByRole  bool
	PreferRole        bool
	WillExecute       bool
	WillExecuteByRole bool
	IsProposing       bool
	Method            model.ExecutionMethod
	Role              *model.Role
}

func Evaluate(f Facts) Decision {
	var d Decision
	wantsExecute := f.OnlyExecute || f.UserWantsExecute
	d.CanExecute = f.IsCorrectNonce && (f.IsExecutableAlready || f.IsImmediatelyExecutable)
	d.CanExecuteByRole = f.AllowingRole != nil || (f.MostLikelyRole != nil && !f.IsSafeOwner)
	d.PreferRole = d.CanExecuteByRole && !f.IsSafeOwner
	d.WillExecute = wantsExecute && d.CanExecute && !d.PreferRole
	d.WillExecuteByRole = wantsExecute && d.CanExecuteByRole && (!d.CanExecute || d.PreferRole)
	d.IsProposing = f.IsWalletProposer && !f.IsSafeOwner && f.IsCreation

	d.Method = model.METHOD_NONE
	for i, holds := range rules(f, d) {
		if holds {
			d.Method = ruleMethods[i]
			break
		}
	}
	if d.Method == model.METHOD_EXECUTE_THROUGH_ROLE {
		d.Role = ResolveRole(f)
	}
	return d
}

// ruleMethods is the precedence order; the first rule that holds decides.
var ruleMethods = [...]model.ExecutionMethod{
	model.METHOD_COUNTERFACTUAL,
	model.METHOD_EXECUTE,
	model.METHOD_EXECUTE_THROUGH_ROLE,
	model.METHOD_SIGN,
	model.METHOD_PROPOSE,
}

// rules evaluates every rule on its own. Only role execution and propose can hold
// together, for a non-owner proposer holding a role who wants to execute.
func rules(f Facts, d Decision) [len(ruleMethods)]bool {
	return [...]bool{
		f.IsCounterfactualSafe && f.IsCreation && !d.IsProposing,
		!f.IsCounterfactualSafe && d.WillExecute && !d.IsProposing,
		!f.IsCounterfactualSafe && d.WillExecuteByRole,
		!f.IsCounterfactualSafe && !d.WillExecute && !d.WillExecuteByRole && !d.IsProposing && f.HasDraft,
		d.IsProposing,
	}
}

// Resolve returns the single terminal method for f, or METHOD_NONE while facts are
// still incomplete.
func Resolve(f Facts) model.ExecutionMethod {
	return Evaluate(f).Method
}

// ResolveRole prefers the role explicitly allowing the transaction over the guessed one.
func ResolveRole(f Facts) *model.Role {
	if f.AllowingRole != nil {
		return f.AllowingRole
	}
	return f.MostLikelyRole
}

// IsImmediatelyExecutable is true for a new transaction on a 1-of-n safe.
func IsImmediatelyExecutable(threshold int, isCreation bool) bool {
	return isCreation && threshold == 1
}

// IsExecutableAlready is true for an existing transaction that has collected enough signatures.
func IsExecutableAlready(signatures int, threshold int, isCreation bool) bool {
	return !isCreation && threshold > 0 && signatures >= threshold
}
