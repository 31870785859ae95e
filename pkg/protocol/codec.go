package protocol

import (
	"encoding/json"
	"fmt"
)

// EncodeRequest serializes a request frame.
func EncodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

// DecodeRequest parses a request frame.
//
// When the frame is valid JSON but not a well-formed request, the returned token
// still carries whatever callbackId could be recovered so the caller can answer.
func DecodeRequest(frame []byte) (Request, json.RawMessage, error) {
	var req Request
	err := json.Unmarshal(frame, &req)
	if err == nil {
		return req, req.CallbackID, nil
	}

	var probe struct {
		CallbackID json.RawMessage `json:"callbackId"`
	}
	if json.Unmarshal(frame, &probe) != nil {
		return Request{}, nil, fmt.Errorf("malformed request: %w", err)
	}
	return Request{}, probe.CallbackID, fmt.Errorf("malformed request: %w", err)
}

// EncodeMessage serializes a worker frame.
// The readiness signal is written as the bare {"type":"ready"} object.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg.IsReady() {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: msg.Type})
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a worker frame.
func DecodeMessage(frame []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return Message{}, fmt.Errorf("malformed message: %w", err)
	}
	return msg, nil
}
