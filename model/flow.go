package model

type StepDirection string

const STEP_FORWARD StepDirection = "FORWARD"
const STEP_BACK StepDirection = "BACK"

// StepTransition is emitted whenever a wizard moves between steps.
// Step is the index the wizard left, not the one it arrived at.
type StepTransition struct {
	FlowId    string
	Step      int
	Direction StepDirection
}

type SubmitState string

const SUBMIT_IDLE SubmitState = "IDLE"
const SUBMIT_PENDING SubmitState = "PENDING"
const SUBMIT_REJECTED SubmitState = "REJECTED"
const SUBMIT_FAILED SubmitState = "FAILED"
