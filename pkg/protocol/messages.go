package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/openpermit/openpermit/pkg/domain"
)

// Supported actions.
const (
	ActionCreateNode      = "CREATE_NODE"
	ActionValidateNode    = "VALIDATE_NODE"
	ActionCreateCrosswalk = "CREATE_CROSSWALK"
)

// MessageTypeReady marks the out-of-band readiness message.
const MessageTypeReady = "ready"

// Failure codes carried next to the human readable error.
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeUnknownAction   = "UNKNOWN_ACTION"
	CodeWorkerFault     = "WORKER_FAULT"
)

// Request is sent by the client to the worker.
// CallbackID is opaque to the worker and echoed back verbatim.
type Request struct {
	CallbackID json.RawMessage `json:"callbackId,omitempty"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Message is any frame sent by the worker to the client: a response or the readiness signal.
type Message struct {
	Type       string          `json:"type,omitempty"`
	CallbackID json.RawMessage `json:"callbackId,omitempty"`
	Success    bool            `json:"success"`
	Node       json.RawMessage `json:"node,omitempty"`
	Results    json.RawMessage `json:"results,omitempty"`
	Crosswalk  json.RawMessage `json:"crosswalk,omitempty"`
	Error      string          `json:"error,omitempty"`
	Code       string          `json:"code,omitempty"`
}

// IsReady reports whether m is the readiness signal.
func (m Message) IsReady() bool {
	return m.Type == MessageTypeReady && len(m.CallbackID) == 0
}

// Ready returns the readiness signal.
func Ready() Message {
	return Message{Type: MessageTypeReady}
}

// Success builds a successful response. The action selects which payload slot is filled.
func Success(token json.RawMessage, action string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s result: %w", action, err)
	}
	msg := Message{CallbackID: token, Success: true}
	switch action {
	case ActionCreateNode:
		msg.Node = data
	case ActionValidateNode:
		msg.Results = data
	case ActionCreateCrosswalk:
		msg.Crosswalk = data
	default:
		return Message{}, &domain.UnknownActionError{Action: action}
	}
	return msg, nil
}

// Failure builds a failed response from err, classifying it into a code.
func Failure(token json.RawMessage, err error) Message {
	return Message{
		CallbackID: token,
		Success:    false,
		Error:      err.Error(),
		Code:       CodeOf(err),
	}
}

// CodeOf classifies err into one of the failure codes.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, domain.ErrUnknownAction):
		return CodeUnknownAction
	default:
		return CodeWorkerFault
	}
}

// SentinelOf maps a failure code back to its domain error.
func SentinelOf(code string) error {
	switch code {
	case CodeInvalidArgument:
		return domain.ErrInvalidArgument
	case CodeUnknownAction:
		return domain.ErrUnknownAction
	default:
		return domain.ErrWorkerFault
	}
}

// Token encodes a client correlation id.
func Token(id uint64) json.RawMessage {
	return json.RawMessage(strconv.FormatUint(id, 10))
}

// ParseToken decodes a correlation id produced by Token.
func ParseToken(raw json.RawMessage) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
