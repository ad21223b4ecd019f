// Package status holds the request lifecycle shared by the session and entry
// stores.
package status

// Status is the state of the most recent request a store issued.
type Status string

const (
	Idle    Status = "idle"
	Pending Status = "pending"
	Error   Status = "error"
)

// State pairs a Status with the user-presentable message of a failure.
type State struct {
	Status  Status `json:"status"`
	Message string `json:"error,omitempty"`
}

// Loading reports whether a request is in flight.
func (s State) Loading() bool {
	return s.Status == Pending
}

// Failed reports whether the last request failed.
func (s State) Failed() bool {
	return s.Status == Error
}

func Ok() State {
	return State{Status: Idle}
}

func Busy() State {
	return State{Status: Pending}
}

func Failure(msg string) State {
	return State{Status: Error, Message: msg}
}
