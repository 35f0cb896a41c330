package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tinywideclouds/go-notification-callable/internal/callable"
	"github.com/tinywideclouds/go-notification-callable/pkg/dispatch"
)

type NotificationAPI struct {
	Dispatcher dispatch.Dispatcher
	Logger     *slog.Logger
}

func NewNotificationAPI(dispatcher dispatch.Dispatcher, logger *slog.Logger) *NotificationAPI {
	return &NotificationAPI{
		Dispatcher: dispatcher,
		Logger:     logger,
	}
}

// SendNotification decodes the payload and forwards it to the dispatcher.
// A payload that does not fit the request shape is answered with the same
// error as a failed send. The call context is logged but plays no part in
// the send.
func (api *NotificationAPI) SendNotification(ctx context.Context, raw *json.RawMessage, call callable.CallContext) (*dispatch.NotificationResult, error) {
	req, err := dispatch.DecodeRequest(*raw)
	if err != nil {
		api.Logger.Error("Error sending notification", "execution_id", call.ExecutionID, "err", err)
		return nil, dispatch.SendError()
	}

	api.Logger.Info("SendNotification: request received",
		"execution_id", call.ExecutionID,
		"topic", req.Topic,
		"has_notification", req.Notification != nil,
		"data_keys", len(req.Data),
	)

	result, err := api.Dispatcher.Dispatch(ctx, req)
	if err != nil {
		// The dispatcher has already logged the cause.
		return nil, err
	}

	api.Logger.Info("SendNotification: delivered", "execution_id", call.ExecutionID, "response", result.Response)
	return result, nil
}

// Handler serves SendNotification over the callable protocol.
func (api *NotificationAPI) Handler() http.Handler {
	return callable.Handler(api.SendNotification, api.Logger)
}
