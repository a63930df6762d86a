package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/example-backend/internal/docs"
	"github.com/eugenenazirov/example-backend/internal/models"
	"github.com/eugenenazirov/example-backend/internal/storage"
	"github.com/eugenenazirov/example-backend/internal/tags"
)

var fixedNow = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T, opts ...RouterOption) http.Handler {
	t.Helper()

	handler := NewHandler(Dependencies{}, WithClock(func() time.Time { return fixedNow }))
	logger := zaptest.NewLogger(t)
	opts = append([]RouterOption{WithLogging(false), WithRateLimit(0, 0)}, opts...)
	return NewRouter(handler, logger, opts...)
}

func setupValidatedRouter(t *testing.T) http.Handler {
	t.Helper()

	handler := NewHandler(Dependencies{})
	builder := docs.NewBuilder(docs.Info{Title: "Example Backend", Version: "0.1.0"}, tags.Catalog())
	for _, op := range handler.Operations() {
		if err := builder.Add(op); err != nil {
			t.Fatalf("Add(%s %s) returned error: %v", op.Method, op.Path, err)
		}
	}
	doc, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return NewRouter(handler, zaptest.NewLogger(t), WithLogging(false), WithRateLimit(0, 0), WithValidation(doc))
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != problemContentType {
		t.Fatalf("expected content type %s, got %s", problemContentType, ct)
	}
	var p ProblemDetails
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode problem: %v", err)
	}
	return p
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

type failingStore[T any] struct {
	err error
}

func (f failingStore[T]) Get(int) (T, error) {
	var zero T
	return zero, f.err
}

func (f failingStore[T]) List() ([]T, error) { return nil, f.err }

func (f failingStore[T]) Find(func(T) bool) ([]T, error) { return nil, f.err }

func TestInternalErrorsHideCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	storeErr := assertError("connection refused by 10.0.0.7")
	handler := NewHandler(Dependencies{
		Customers: failingStore[models.B2CCustomer]{err: storeErr},
		Products:  failingStore[models.Product]{err: storeErr},
	}, WithHandlerLogger(zap.New(core)))
	router := NewRouter(handler, zaptest.NewLogger(t), WithLogging(false), WithRateLimit(0, 0))

	for _, path := range []string{"/v1/customer/b2c", "/v1/customer/b2c/1", "/v1/product/search"} {
		rec := serve(router, http.MethodGet, path)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected status 500, got %d", path, rec.Code)
		}
		p := decodeProblem(t, rec)
		if p.Detail != internalErrorDetail {
			t.Fatalf("%s: expected fixed detail, got %q", path, p.Detail)
		}
	}

	entries := logs.FilterMessage("request failed").All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 logged failures, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != string(storeErr) {
		t.Fatalf("expected store error in log, got %v", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := serve(setupTestRouter(t), http.MethodGet, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(fixedNow) {
		t.Fatalf("expected timestamp %s, got %s", fixedNow, body.Timestamp)
	}
}

func TestListCustomersReturnsSeedInOrder(t *testing.T) {
	rec := serve(setupTestRouter(t), http.MethodGet, "/v1/customer/b2c")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got []models.B2CCustomer
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := []models.B2CCustomer{{ID: 1, Name: "Alice", Email: ""}, {ID: 2, Name: "Bob", Email: ""}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestGetCustomer(t *testing.T) {
	router := setupTestRouter(t)

	customers, err := storage.NewCustomerStore().List()
	if err != nil {
		t.Fatalf("failed to list seeded customers: %v", err)
	}
	for _, want := range customers {
		rec := serve(router, http.MethodGet, "/v1/customer/b2c/"+strconv.Itoa(want.ID))
		if rec.Code != http.StatusOK {
			t.Fatalf("customer %d: expected status 200, got %d", want.ID, rec.Code)
		}
		var got models.B2CCustomer
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	router := setupTestRouter(t)

	for _, id := range []string{"0", "3", "-1", "999"} {
		rec := serve(router, http.MethodGet, "/v1/customer/b2c/"+id)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("id %s: expected status 404, got %d", id, rec.Code)
		}
		p := decodeProblem(t, rec)
		if p.Detail != "Customer not found" {
			t.Fatalf("id %s: expected detail %q, got %q", id, "Customer not found", p.Detail)
		}
		if p.Status != http.StatusNotFound || p.TraceID == "" {
			t.Fatalf("id %s: unexpected problem %+v", id, p)
		}
	}
}

func TestGetCustomerRejectsNonInteger(t *testing.T) {
	rec := serve(setupTestRouter(t), http.MethodGet, "/v1/customer/b2c/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	decodeProblem(t, rec)
}

func TestGetProductAndOrder(t *testing.T) {
	router := setupTestRouter(t)

	rec := serve(router, http.MethodGet, "/v1/product/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var product models.Product
	if err := json.NewDecoder(rec.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	if product.ID != 2 || product.Name != "Wireless Mouse" {
		t.Fatalf("unexpected product %+v", product)
	}

	rec = serve(router, http.MethodGet, "/v1/order/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var order models.Order
	if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
		t.Fatalf("failed to decode order: %v", err)
	}
	if order.ID != 1 || !reflect.DeepEqual(order.ProductIDs, []int{1, 3}) {
		t.Fatalf("unexpected order %+v", order)
	}

	if rec := serve(router, http.MethodGet, "/v1/product/42"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown product, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/order/42"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown order, got %d", rec.Code)
	}
}

func TestSearchProducts(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		query string
		want  []int
	}{
		{query: "", want: []int{1, 2, 3}},
		{query: "?q=mouse", want: []int{2}},
		{query: "?q=KEY", want: []int{1}},
		{query: "?q=nothing", want: []int{}},
	}

	for _, tt := range tests {
		rec := serve(router, http.MethodGet, "/v1/product/search"+tt.query)
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: expected status 200, got %d", tt.query, rec.Code)
		}
		var got []models.Product
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("%q: failed to decode response: %v", tt.query, err)
		}
		ids := make([]int, 0, len(got))
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		if !reflect.DeepEqual(ids, tt.want) {
			t.Fatalf("%q: expected ids %v, got %v", tt.query, tt.want, ids)
		}
	}
}

func TestAccountEndpointsStatusCodes(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{path: "/v1/account/password/change", want: http.StatusNoContent},
		{path: "/v1/account/password/request-reset", want: http.StatusAccepted},
		{path: "/v1/account/password/reset", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		if rec := serve(router, http.MethodPost, tt.path); rec.Code != tt.want {
			t.Fatalf("%s: expected status %d, got %d", tt.path, tt.want, rec.Code)
		}
	}
}

func TestValidationRejectsNonIntegerPathParameter(t *testing.T) {
	router := setupValidatedRouter(t)

	rec := serve(router, http.MethodGet, "/v1/customer/b2c/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	p := decodeProblem(t, rec)
	if p.Instance != "/v1/customer/b2c/abc" {
		t.Fatalf("expected instance to be the request path, got %q", p.Instance)
	}
	if p.Detail == "" || strings.Contains(p.Detail, "\n") {
		t.Fatalf("expected a single line detail, got %q", p.Detail)
	}

	rec = serve(router, http.MethodGet, "/v1/unknown")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for undocumented route, got %d", rec.Code)
	}
	if p := decodeProblem(t, rec); p.Instance != "/v1/unknown" {
		t.Fatalf("expected instance /v1/unknown, got %q", p.Instance)
	}

	rec = serve(router, http.MethodGet, "/v1/customer/b2c/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected valid request to pass validation, got %d", rec.Code)
	}
	rec = serve(router, http.MethodGet, "/v1/product/search?q=hub")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected search to be routed before the id route, got %d", rec.Code)
	}
}

func TestOperationsUseRegisteredTags(t *testing.T) {
	registry := tags.Catalog()
	for _, op := range NewHandler(Dependencies{}).Operations() {
		if len(op.Tags) == 0 {
			t.Fatalf("%s %s has no tags", op.Method, op.Path)
		}
		for _, tag := range op.Tags {
			if !registry.Contains(tag) {
				t.Fatalf("%s %s uses unknown tag %q", op.Method, op.Path, tag)
			}
		}
	}
}
