package model

type ExecutionMethod string

const METHOD_NONE ExecutionMethod = ""
const METHOD_COUNTERFACTUAL ExecutionMethod = "COUNTERFACTUAL"
const METHOD_EXECUTE ExecutionMethod = "EXECUTE"
const METHOD_EXECUTE_THROUGH_ROLE ExecutionMethod = "EXECUTE_THROUGH_ROLE"
const METHOD_SIGN ExecutionMethod = "SIGN"
const METHOD_PROPOSE ExecutionMethod = "PROPOSE"

// TxDetails is the read-side view of a submitted transaction.
type TxDetails struct {
	TxID     string `json:"txId"`
	TxType   string `json:"txType"`
	Executed bool   `json:"executed"`
}
