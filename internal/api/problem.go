package api

import (
	"fmt"
	mathrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/eugenenazirov/example-backend/internal/jsonutil"
)

const (
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://developer.mozilla.org/en-US/docs/Web/HTTP/Status"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// ProblemDetails is an RFC 9457 problem document.
type ProblemDetails struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func newTraceID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func newProblem(r *http.Request, status int, detail string) ProblemDetails {
	p := ProblemDetails{
		Type:      fmt.Sprintf("%s/%d", statusDocBaseURL, status),
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    detail,
		TraceID:   newTraceID(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if r != nil && r.URL != nil {
		p.Instance = r.URL.Path
	}
	return p
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	_ = jsonutil.Encode(w, newProblem(r, status, detail))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = jsonutil.Encode(w, payload)
}

// internalErrorDetail is the only detail clients see for 500 responses.
const internalErrorDetail = "unexpected server error"
