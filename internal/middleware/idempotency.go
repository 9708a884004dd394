package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"catalog-be/internal/idempotency"
	"catalog-be/internal/logger"
	"catalog-be/internal/metrics"
	"catalog-be/internal/utils"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	ReplayedHeader = "Idempotent-Replayed"

	// MaxBodyBytes caps request bodies hashed for idempotency.
	MaxBodyBytes int64 = 1 << 20

	// processingTTL bounds how long a crashed request can hold its key.
	processingTTL = 2 * time.Minute
)

// Idempotency makes POST, PUT and PATCH requests carrying an Idempotency-Key
// safe to retry. Successful responses are stored for ttl and replayed;
// failed ones release the key.
func Idempotency(store idempotency.Store, ttl time.Duration, m *metrics.IdempotencyMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isUnsafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := idempotency.Key(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > idempotency.MaxKeyLength {
				utils.WriteJSONError(w, http.StatusBadRequest, "invalid_idempotency_key", "Idempotency-Key is too long")
				return
			}

			log := logger.FromCtx(r.Context()).With(
				zap.String("layer", "middleware"),
				zap.String("method", "Idempotency"),
				zap.String("idempotency_key", key),
			)

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					utils.WriteJSONError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
					return
				}
				utils.WriteJSONError(w, http.StatusBadRequest, "invalid_request", "could not read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			subject, _ := utils.GetUserIDFromContext(r.Context())
			storeKey := scopedKey(subject, key)
			hash := idempotency.RequestHash(r.Method, r.URL.Path, subject, body)

			// 1️⃣ Claim the key or find out why we can't
			rec, err := store.Reserve(r.Context(), storeKey, hash, processingTTL)
			switch {
			case err == nil:
			case errors.Is(err, idempotency.ErrAlreadyCompleted):
				m.Observe("replayed")
				replay(w, rec.Response)
				return
			case errors.Is(err, idempotency.ErrInFlight):
				m.Observe("in_flight")
				utils.WriteJSONError(w, http.StatusConflict, "idempotency_in_flight", err.Error())
				return
			case errors.Is(err, idempotency.ErrHashMismatch):
				m.Observe("mismatch")
				utils.WriteJSONError(w, http.StatusUnprocessableEntity, "idempotency_key_reused", err.Error())
				return
			default:
				// store down: serve without protection rather than fail the request
				m.Observe("bypassed")
				log.Warn("idempotency store unavailable, serving request unguarded", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			// 2️⃣ Run the handler, capturing what it writes
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			var captured bytes.Buffer
			ww.Tee(&captured)

			// the response is stored even if the client went away
			storeCtx := context.WithoutCancel(r.Context())
			defer func() {
				if p := recover(); p != nil {
					_ = store.Release(storeCtx, storeKey)
					panic(p)
				}
			}()

			next.ServeHTTP(ww, r)

			// 3️⃣ Keep 2xx for replay, free the key otherwise
			status := statusOf(ww)
			if status >= 200 && status < 300 {
				resp := idempotency.Response{
					StatusCode:  status,
					ContentType: ww.Header().Get("Content-Type"),
					Body:        captured.Bytes(),
				}
				if err := store.Complete(storeCtx, storeKey, resp, ttl); err != nil {
					log.Error("failed to store idempotent response", zap.Error(err))
					return
				}
				m.Observe("stored")
				return
			}

			if err := store.Release(storeCtx, storeKey); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
				return
			}
			m.Observe("released")
		})
	}
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func scopedKey(subject, key string) string {
	if subject == "" {
		subject = "anonymous"
	}
	return subject + ":" + key
}

func replay(w http.ResponseWriter, resp *idempotency.Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
