// Package dispatch contains the public contract and wire models for sending
// a notification to a delivery-service topic.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SendErrorMessage is the only failure text a caller ever sees.
const SendErrorMessage = "Error sending notification"

// SendError is the error returned for every failed send, whatever the cause.
func SendError() error {
	return status.Error(codes.Internal, SendErrorMessage)
}

// Notification is the human-visible part of a push message.
type Notification struct {
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// UnmarshalJSON rejects keys the delivery service would not accept instead
// of silently dropping them.
func (n *Notification) UnmarshalJSON(b []byte) error {
	type plain Notification
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var p plain
	if err := dec.Decode(&p); err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}
	*n = Notification(p)
	return nil
}

// NotificationRequest is the caller-supplied payload of a single send.
type NotificationRequest struct {
	Topic        string            `json:"topic"`
	Notification *Notification     `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// DecodeRequest parses a raw request payload. An empty payload or a JSON null
// yields the zero request.
func DecodeRequest(raw []byte) (*NotificationRequest, error) {
	var req NotificationRequest
	if len(raw) == 0 {
		return &req, nil
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("failed to decode notification request: %w", err)
	}
	return &req, nil
}

// NotificationResult is returned when the delivery service accepted the message.
type NotificationResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// Dispatcher defines the contract for a component that forwards a request to
// the delivery service (e.g., Google's FCM).
type Dispatcher interface {
	// Dispatch makes exactly one send attempt. Any failure is reported as
	// SendError.
	Dispatch(ctx context.Context, req *NotificationRequest) (*NotificationResult, error)
}
