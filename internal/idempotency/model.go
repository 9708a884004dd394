package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

const HeaderKey = "Idempotency-Key"

// MaxKeyLength bounds client-supplied keys.
const MaxKeyLength = 255

type State string

const (
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
)

// Response is the stored copy of a successful reply.
type Response struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type Record struct {
	Key         string    `json:"key"`
	RequestHash string    `json:"request_hash"`
	State       State     `json:"state"`
	Response    *Response `json:"response,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Response != nil {
		resp := *r.Response
		resp.Body = append([]byte(nil), r.Response.Body...)
		out.Response = &resp
	}
	return &out
}

// Key reads and trims the Idempotency-Key header.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderKey))
}

// RequestHash fingerprints a request so a reused key with a different
// payload can be told apart from a retry.
func RequestHash(method, path, subject string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(subject))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
