package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"catalog-be/internal/logger"
	"catalog-be/internal/product"
	"catalog-be/internal/result"
	"catalog-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes int64 = 1 << 20

var errEmptyBody = errors.New("request body is required")

func respondJSON(w http.ResponseWriter, status int, data any) {
	utils.WriteJSON(w, status, data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	utils.WriteJSONError(w, status, code, message)
}

func respondValidation(w http.ResponseWriter, fields map[string][]string) {
	respondJSON(w, http.StatusUnprocessableEntity, utils.ErrorResponse{
		Error:  "one or more validation errors occurred",
		Code:   "validation_failed",
		Errors: fields,
	})
}

// respondFailure maps service errors onto HTTP status codes. Unknown errors
// are logged and hidden behind a generic 500.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *product.ValidationError
	if errors.As(err, &verr) {
		respondValidation(w, verr.Fields)
		return
	}

	if kind, ok := result.KindOf(err); ok {
		respondError(w, statusForKind(kind), string(kind), err.Error())
		return
	}

	logger.FromCtx(r.Context()).Error("request failed",
		zap.String("layer", "transport"),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func statusForKind(kind result.Kind) int {
	switch kind {
	case result.NotFound:
		return http.StatusNotFound
	case result.Conflict:
		return http.StatusConflict
	case result.InvalidArgument, result.InvalidState, result.InsufficientStock:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a single JSON document into dst, rejecting unknown fields.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	case errors.Is(err, io.EOF):
		respondError(w, http.StatusBadRequest, "invalid_request", errEmptyBody.Error())
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid JSON body: %v", err))
	}
	return false
}

// pathID parses a positive numeric URL parameter, writing a 400 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := utils.ParseID(chi.URLParam(r, name))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_id", fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, ok
}
