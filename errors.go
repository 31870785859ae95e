package openpermit

import (
	"fmt"

	"github.com/openpermit/openpermit/pkg/protocol"
)

// CallError is a failed response from the worker.
type CallError struct {
	Action  string
	Code    string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Action, e.Message)
}

// Unwrap exposes the domain sentinel matching Code.
func (e *CallError) Unwrap() error {
	return protocol.SentinelOf(e.Code)
}
