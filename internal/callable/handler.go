package callable

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/google/uuid"
)

const (
	// ExecutionIDHeader is set by the hosting platform on every invocation.
	ExecutionIDHeader = "Function-Execution-Id"
	// InstanceIDHeader carries the caller's app instance token, if any.
	InstanceIDHeader = "Firebase-Instance-ID-Token"

	maxBodyBytes = 10 << 20
)

// CallContext describes the invocation. Nothing in it has been verified.
type CallContext struct {
	ExecutionID     string
	InstanceIDToken string
	RawRequest      *http.Request
}

// Func is a function that can be served as a callable.
type Func[Req, Res any] func(ctx context.Context, req *Req, call CallContext) (Res, error)

// Handler adapts fn to the callable protocol.
func Handler[Req, Res any](fn Func[Req, Res], logger *slog.Logger) http.HandlerFunc {
	logger = logger.With("component", "CallableHandler")

	return func(w http.ResponseWriter, r *http.Request) {
		executionID := r.Header.Get(ExecutionIDHeader)
		if executionID == "" {
			executionID = uuid.NewString()
		}
		callLogger := logger.With("execution_id", executionID, "path", r.URL.Path)

		if r.Method != http.MethodPost {
			callLogger.Warn("Invalid request, unable to process", "reason", "method", "method", r.Method)
			writeError(w, callLogger, ErrorBody{Status: "INVALID_ARGUMENT", Message: "Bad Request"}, http.StatusBadRequest)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			callLogger.Warn("Invalid request, unable to process", "reason", "content_type", "content_type", r.Header.Get("Content-Type"))
			writeError(w, callLogger, ErrorBody{Status: "INVALID_ARGUMENT", Message: "Bad Request"}, http.StatusBadRequest)
			return
		}

		var env requestEnvelope
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&env); err != nil {
			callLogger.Warn("Invalid request, unable to process", "reason", "body", "err", err)
			writeError(w, callLogger, ErrorBody{Status: "INVALID_ARGUMENT", Message: "Bad Request"}, http.StatusBadRequest)
			return
		}
		if len(env.Data) == 0 {
			callLogger.Warn("Invalid request, unable to process", "reason", "missing data")
			writeError(w, callLogger, ErrorBody{Status: "INVALID_ARGUMENT", Message: "Bad Request"}, http.StatusBadRequest)
			return
		}

		var req Req
		if err := json.Unmarshal(env.Data, &req); err != nil {
			callLogger.Warn("Invalid request, unable to process", "reason", "data", "err", err)
			writeError(w, callLogger, ErrorBody{Status: "INVALID_ARGUMENT", Message: "Bad Request"}, http.StatusBadRequest)
			return
		}

		call := CallContext{
			ExecutionID:     executionID,
			InstanceIDToken: r.Header.Get(InstanceIDHeader),
			RawRequest:      r,
		}

		res, err := fn(r.Context(), &req, call)
		if err != nil {
			body, code := errorFor(err)
			callLogger.Info("Callable returned an error", "status", body.Status, "http_status", code)
			writeError(w, callLogger, body, code)
			return
		}

		writeJSON(w, callLogger, http.StatusOK, resultEnvelope{Result: res})
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, body ErrorBody, code int) {
	writeJSON(w, logger, code, errorEnvelope{Error: body})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write callable response", "err", err)
	}
}
