package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-notification-callable/internal/api"
	"github.com/tinywideclouds/go-notification-callable/internal/platform/fcm"
	"github.com/tinywideclouds/go-notification-callable/pkg/dispatch"
)

// --- Mocks ---
type MockMessagingClient struct {
	mock.Mock
}

func (m *MockMessagingClient) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// --- Setup ---
func setupAPI(t *testing.T) (http.Handler, *MockMessagingClient) {
	t.Helper()
	mockClient := new(MockMessagingClient)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := fcm.NewDispatcher(mockClient, logger)
	return api.NewNotificationAPI(dispatcher, logger).Handler(), mockClient
}

func call(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/sendNotification", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestSendNotification(t *testing.T) {
	const newsCall = `{"data": {"topic": "news", "notification": {"title": "Hi"}, "data": {"k": "v"}}}`

	t.Run("Success", func(t *testing.T) {
		handler, mockClient := setupAPI(t)

		expected := &messaging.Message{
			Topic:        "news",
			Notification: &messaging.Notification{Title: "Hi"},
			Data:         map[string]string{"k": "v"},
		}
		mockClient.On("Send", mock.Anything, expected).Return("msg-123", nil)

		w := call(handler, newsCall)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"result": {"success": true, "response": "msg-123"}}`, w.Body.String())
		mockClient.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("Send failure hides the cause", func(t *testing.T) {
		handler, mockClient := setupAPI(t)
		mockClient.On("Send", mock.Anything, mock.Anything).Return("", errors.New("generic failure"))

		w := call(handler, newsCall)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": {"status": "INTERNAL", "message": "Error sending notification"}}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "generic failure")
		mockClient.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("Omitted data reaches FCM as nil", func(t *testing.T) {
		handler, mockClient := setupAPI(t)
		mockClient.On("Send", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
			return m.Data == nil && m.Topic == "news" && m.Notification.Title == "Hi"
		})).Return("msg-456", nil)

		w := call(handler, `{"data": {"topic": "news", "notification": {"title": "Hi"}}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Result dispatch.NotificationResult `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dispatch.NotificationResult{Success: true, Response: "msg-456"}, resp.Result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Malformed payloads report the send error", func(t *testing.T) {
		bodies := map[string]string{
			"non-string data value":     `{"data": {"topic": "news", "data": {"count": 3}}}`,
			"numeric topic":             `{"data": {"topic": 42}}`,
			"string notification":       `{"data": {"topic": "news", "notification": "hi"}}`,
			"unknown notification keys": `{"data": {"topic": "news", "notification": {"title": "Hi", "sound": "ding", "titel": "typo"}}}`,
			"payload is not an object":  `{"data": ["news"]}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				handler, mockClient := setupAPI(t)

				w := call(handler, body)

				assert.Equal(t, http.StatusInternalServerError, w.Code)
				assert.JSONEq(t, `{"error": {"status": "INTERNAL", "message": "Error sending notification"}}`, w.Body.String())
				mockClient.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Null payload is sent for FCM to reject", func(t *testing.T) {
		handler, mockClient := setupAPI(t)
		mockClient.On("Send", mock.Anything, &messaging.Message{}).Return("", errors.New("topic required"))

		w := call(handler, `{"data": null}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": {"status": "INTERNAL", "message": "Error sending notification"}}`, w.Body.String())
		mockClient.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("Missing data field is a protocol fault", func(t *testing.T) {
		handler, mockClient := setupAPI(t)

		w := call(handler, `{"topic": "news"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockClient.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}
