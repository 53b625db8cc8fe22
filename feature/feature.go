// Package feature holds the participants rendered inside step content.
package feature

import (
	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/view"
	"github.com/mohitkumar/txwizard/wizard"
)

const EXECUTE_CHECKBOX_ID = "executeCheckbox"
const DRAFT_ERROR_ID = "draftError"
const SUBMIT_ERROR_ID = "submitError"

const REJECTED_MESSAGE = "Transaction was rejected in your wallet. You can try again."
const SUBMIT_FAILED_MESSAGE = "Error submitting the transaction. Please try again."

var _ composer.Feature = new(ExecuteCheckbox)
var _ composer.Feature = new(DraftErrorNotice)
var _ composer.Feature = new(SubmitErrorNotice)

// ExecuteCheckbox lets the user choose between executing now and only signing, when
// executing is possible at all.
type ExecuteCheckbox struct{}

func NewExecuteCheckbox() *ExecuteCheckbox {
	return &ExecuteCheckbox{}
}

func (e *ExecuteCheckbox) ID() string {
	return EXECUTE_CHECKBOX_ID
}

func (e *ExecuteCheckbox) Condition(wc *wizard.Context) bool {
	if wc.OnlyExecute() {
		return false
	}
	facts := wc.ExecutionFacts()
	if facts.IsCounterfactualSafe {
		return false
	}
	d := wc.Decision()
	return facts.IsCreation && (d.CanExecute || d.CanExecuteByRole)
}

func (e *ExecuteCheckbox) Render(wc *wizard.Context) view.Node {
	return view.New("checkbox", map[string]any{
		"label":   "Execute transaction",
		"checked": wc.ShouldExecute(),
	})
}

type DraftErrorNotice struct{}

func NewDraftErrorNotice() *DraftErrorNotice {
	return &DraftErrorNotice{}
}

func (n *DraftErrorNotice) ID() string {
	return DRAFT_ERROR_ID
}

func (n *DraftErrorNotice) Condition(wc *wizard.Context) bool {
	return wc.Drafts().Error() != nil
}

func (n *DraftErrorNotice) Render(wc *wizard.Context) view.Node {
	msg := ""
	if err := wc.Drafts().Error(); err != nil {
		msg = err.Error()
	}
	return view.New("error", map[string]any{
		"title":   "This transaction will most likely fail",
		"message": msg,
	})
}

// SubmitErrorNotice tells a wallet rejection apart from any other failure.
type SubmitErrorNotice struct{}

func NewSubmitErrorNotice() *SubmitErrorNotice {
	return &SubmitErrorNotice{}
}

func (n *SubmitErrorNotice) ID() string {
	return SUBMIT_ERROR_ID
}

func (n *SubmitErrorNotice) Condition(wc *wizard.Context) bool {
	return wc.IsRejectedByUser() || wc.SubmitError() != nil
}

func (n *SubmitErrorNotice) Render(wc *wizard.Context) view.Node {
	if wc.IsRejectedByUser() {
		return view.New("warning", map[string]any{"message": REJECTED_MESSAGE})
	}
	return view.New("error", map[string]any{"message": SUBMIT_FAILED_MESSAGE})
}

// Review is the feature set of a review step.
func Review() []composer.Feature {
	return []composer.Feature{
		NewExecuteCheckbox(),
		NewDraftErrorNotice(),
		NewSubmitErrorNotice(),
	}
}
