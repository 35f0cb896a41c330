// Package callable serves Go functions over the Firebase callable HTTPS protocol.
//
// A call is a POST with a JSON body of the form {"data": ...}. A successful
// call answers 200 with {"result": ...}; a failed call answers with the HTTP
// status of its canonical code and {"error": {"status": ..., "message": ...}}.
package callable

import (
	"encoding/json"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type requestEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type resultEnvelope struct {
	Result any `json:"result"`
}

// ErrorBody is the "error" member of a failed call's response.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type canonical struct {
	name       string
	httpStatus int
}

var canonicalCodes = map[codes.Code]canonical{
	codes.OK:                 {"OK", http.StatusOK},
	codes.Canceled:           {"CANCELLED", 499},
	codes.Unknown:            {"UNKNOWN", http.StatusInternalServerError},
	codes.InvalidArgument:    {"INVALID_ARGUMENT", http.StatusBadRequest},
	codes.DeadlineExceeded:   {"DEADLINE_EXCEEDED", http.StatusGatewayTimeout},
	codes.NotFound:           {"NOT_FOUND", http.StatusNotFound},
	codes.AlreadyExists:      {"ALREADY_EXISTS", http.StatusConflict},
	codes.PermissionDenied:   {"PERMISSION_DENIED", http.StatusForbidden},
	codes.ResourceExhausted:  {"RESOURCE_EXHAUSTED", http.StatusTooManyRequests},
	codes.FailedPrecondition: {"FAILED_PRECONDITION", http.StatusBadRequest},
	codes.Aborted:            {"ABORTED", http.StatusConflict},
	codes.OutOfRange:         {"OUT_OF_RANGE", http.StatusBadRequest},
	codes.Unimplemented:      {"UNIMPLEMENTED", http.StatusNotImplemented},
	codes.Internal:           {"INTERNAL", http.StatusInternalServerError},
	codes.Unavailable:        {"UNAVAILABLE", http.StatusServiceUnavailable},
	codes.DataLoss:           {"DATA_LOSS", http.StatusInternalServerError},
	codes.Unauthenticated:    {"UNAUTHENTICATED", http.StatusUnauthorized},
}

// errorFor converts a handler error into the wire body and HTTP status.
// Errors that are not gRPC statuses are reported as a bare INTERNAL.
func errorFor(err error) (ErrorBody, int) {
	st, ok := status.FromError(err)
	if !ok {
		return ErrorBody{Status: "INTERNAL", Message: "INTERNAL"}, http.StatusInternalServerError
	}
	c, known := canonicalCodes[st.Code()]
	if !known {
		return ErrorBody{Status: "INTERNAL", Message: "INTERNAL"}, http.StatusInternalServerError
	}
	return ErrorBody{Status: c.name, Message: st.Message()}, c.httpStatus
}
