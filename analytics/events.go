package analytics

const CREATE = "Create transaction"
const CREATE_VIA_PROPOSER = "Create via proposer"
const CREATE_VIA_ROLE = "Create via role"
const CREATE_VIA_PARENT = "Create via parent"
const EXECUTE = "Execute transaction"
const EXECUTE_VIA_ROLE = "Execute via role"
const EXECUTE_VIA_PARENT = "Execute via parent"
const CONFIRM = "Confirm transaction"
const CONFIRM_VIA_PARENT = "Confirm via parent"
const CONFIRM_IN_PARENT = "Confirm in parent"
const ADD_TO_BATCH = "Add to batch"

// TrackRequest describes a completed submission.
type TrackRequest struct {
	TxID               string
	IsCreation         bool
	Executed           bool
	RoleExecution      bool
	ProposerCreation   bool
	ParentSigner       bool
	NestedConfirmation bool
}

// TxActions maps a submission to the event actions it produces. A creation that was
// also executed yields two actions, everything else yields one.
func TxActions(req TrackRequest) []string {
	if req.IsCreation {
		actions := []string{creationAction(req)}
		if req.Executed {
			actions = append(actions, executionAction(req))
		}
		return actions
	}
	if req.Executed {
		return []string{executionAction(req)}
	}
	switch {
	case req.NestedConfirmation:
		return []string{CONFIRM_IN_PARENT}
	case req.ParentSigner:
		return []string{CONFIRM_VIA_PARENT}
	}
	return []string{CONFIRM}
}

func creationAction(req TrackRequest) string {
	switch {
	case req.ProposerCreation:
		return CREATE_VIA_PROPOSER
	case req.RoleExecution:
		return CREATE_VIA_ROLE
	case req.ParentSigner:
		return CREATE_VIA_PARENT
	}
	return CREATE
}

func executionAction(req TrackRequest) string {
	switch {
	case req.RoleExecution:
		return EXECUTE_VIA_ROLE
	case req.ParentSigner:
		return EXECUTE_VIA_PARENT
	}
	return EXECUTE
}
