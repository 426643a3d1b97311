package contract

import "fmt"

// Operation identifies which parse failed; each has its own user message.
type Operation string

const (
	OpThread     Operation = "thread"
	OpRefinement Operation = "refinement"
	OpBody       Operation = "body"
	OpHook       Operation = "hook"
)

var userMessages = map[Operation]string{
	OpThread:     "The AI returned an invalid response. Please try again.",
	OpRefinement: "The AI returned an invalid refinement. Please try again.",
	OpBody:       "The AI returned an invalid response for the thread body. Please try again.",
	OpHook:       "The AI returned an empty hook. Please try again.",
}

// Violation reports a reply that does not satisfy the contract.
type Violation struct {
	Operation Operation
	Reason    string
	Err       error
}

func (v *Violation) Error() string {
	if v.Err != nil {
		return fmt.Sprintf("contract violation (%s): %s: %v", v.Operation, v.Reason, v.Err)
	}
	return fmt.Sprintf("contract violation (%s): %s", v.Operation, v.Reason)
}

func (v *Violation) Unwrap() error { return v.Err }

// UserMessage is the text shown to the user for this violation.
func (v *Violation) UserMessage() string {
	if msg, ok := userMessages[v.Operation]; ok {
		return msg
	}
	return userMessages[OpThread]
}
