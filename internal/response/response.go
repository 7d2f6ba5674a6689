// file: internal/response/response.go
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"coursehub/internal/services"

	"go.uber.org/zap"
)

// Writer serializes service results and errors onto the wire. Payload shapes
// are written as-is so handlers control the exact contract; errors always
// come out as {"error": message}.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new response writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// errorBody is the uniform error payload.
type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes payload with the given status code.
func (w *Writer) WriteJSON(ctx context.Context, rw http.ResponseWriter, status int, payload interface{}) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(rw).Encode(payload); err != nil {
		w.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// WriteCreated writes payload with 201.
func (w *Writer) WriteCreated(ctx context.Context, rw http.ResponseWriter, payload interface{}) {
	w.WriteJSON(ctx, rw, http.StatusCreated, payload)
}

// WriteMessage writes a {"message": ...} payload with 200.
func (w *Writer) WriteMessage(ctx context.Context, rw http.ResponseWriter, message string) {
	w.WriteJSON(ctx, rw, http.StatusOK, map[string]string{"message": message})
}

// WriteServiceError maps a service error onto its HTTP status. Internal
// failures are masked with a generic message; everything else surfaces the
// service's own wording.
func (w *Writer) WriteServiceError(ctx context.Context, rw http.ResponseWriter, err error) {
	if svcErr := services.GetServiceError(err); svcErr != nil {
		message := svcErr.Message
		if svcErr.Type == services.TypeInternal {
			w.logger.Error("Internal service error", zap.Error(err))
			message = "internal server error"
		}
		w.WriteJSON(ctx, rw, svcErr.GetStatusCode(), errorBody{Error: message})
		return
	}

	w.logger.Error("Unclassified error", zap.Error(err))
	w.WriteJSON(ctx, rw, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// WriteError writes a bare {"error": message} with the given status. Used by
// middleware that has no Writer wired.
func WriteError(rw http.ResponseWriter, status int, message string) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(errorBody{Error: message}) //nolint:errcheck
}
