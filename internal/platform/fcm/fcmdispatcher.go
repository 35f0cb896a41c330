package fcm

import (
	"context"
	"log/slog"

	"firebase.google.com/go/v4/messaging"

	"github.com/tinywideclouds/go-notification-callable/pkg/dispatch"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// This interface allows us to mock the client for unit testing.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Dispatcher struct {
	client MessagingClient
	logger *slog.Logger
}

// NewDispatcher accepts the concrete client but stores it as the interface.
// Note: *messaging.Client automatically satisfies this interface.
func NewDispatcher(client MessagingClient, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		logger: logger.With("component", "FCMDispatcher"),
	}
}

// BuildMessage copies the three request fields into an FCM envelope.
// Nothing is validated, defaulted or added.
func BuildMessage(req *dispatch.NotificationRequest) *messaging.Message {
	msg := &messaging.Message{
		Data:  req.Data,
		Topic: req.Topic,
	}
	if req.Notification != nil {
		msg.Notification = &messaging.Notification{
			Title:    req.Notification.Title,
			Body:     req.Notification.Body,
			ImageURL: req.Notification.ImageURL,
		}
	}
	return msg
}

// Dispatch sends the request to its topic once. FCM is left to reject bad
// topics and payloads; every failure collapses into a single Internal error.
func (d *Dispatcher) Dispatch(ctx context.Context, req *dispatch.NotificationRequest) (*dispatch.NotificationResult, error) {
	if req == nil {
		d.logger.Error("Error sending notification", "err", "nil request")
		return nil, dispatch.SendError()
	}
	msg := BuildMessage(req)

	id, err := d.client.Send(ctx, msg)
	if err != nil {
		d.logger.Error("Error sending notification", "topic", req.Topic, "err", err)
		return nil, dispatch.SendError()
	}

	d.logger.Debug("Notification sent", "topic", req.Topic, "message_id", id)
	return &dispatch.NotificationResult{Success: true, Response: id}, nil
}
