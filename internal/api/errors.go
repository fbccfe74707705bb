package api

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// GenericConnectionMessage is shown when a failure carries no server
// detail.
const GenericConnectionMessage = "Connection error talking to the server"

// RemoteRejection is a non-success response from the server. Detail holds
// the server's message and is shown to the user verbatim when present.
type RemoteRejection struct {
	StatusCode int
	Detail     string
}

func (e *RemoteRejection) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server rejected request (status %d)", e.StatusCode)
}

// UserMessage returns the text to surface in the UI.
func (e *RemoteRejection) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return GenericConnectionMessage
}

// ConnectionError is a network or transport failure. It is always shown
// as a generic message, never retried automatically.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// errorBody matches the server's error envelope. detail is either a plain
// string or a list of {msg} objects; both shapes occur in the wild.
type errorBody struct {
	Detail errorDetail `json:"detail"`
}

type errorDetail struct {
	text string
}

func (d *errorDetail) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		d.text = s
		return nil
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := sonic.Unmarshal(data, &items); err == nil && len(items) > 0 {
		d.text = items[0].Msg
		return nil
	}
	// Unknown shape: leave empty so callers fall back to the generic
	// message.
	d.text = ""
	return nil
}

// decodeErrorDetail extracts the server detail message from an error
// response body, returning "" when the body does not carry one.
func decodeErrorDetail(body []byte) string {
	var eb errorBody
	if err := sonic.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Detail.text
}
