package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/example-backend/internal/models"
	"github.com/eugenenazirov/example-backend/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Dependencies holds the stores the handlers read from.
type Dependencies struct {
	Customers storage.Store[models.B2CCustomer]
	Products  storage.Store[models.Product]
	Orders    storage.Store[models.Order]
}

// Handler serves the sample /v1 endpoints.
type Handler struct {
	customers storage.Store[models.B2CCustomer]
	products  storage.Store[models.Product]
	orders    storage.Store[models.Order]

	clock  func() time.Time
	logger *zap.Logger
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithHandlerLogger sets the logger used for handler level diagnostics.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a Handler. Stores left nil in deps are replaced by
// the seeded in-memory stores.
func NewHandler(deps Dependencies, opts ...HandlerOption) *Handler {
	h := &Handler{
		customers: deps.Customers,
		products:  deps.Products,
		orders:    deps.Orders,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		logger: zap.NewNop(),
	}
	if h.customers == nil {
		h.customers = storage.NewCustomerStore()
	}
	if h.products == nil {
		h.products = storage.NewProductStore()
	}
	if h.orders == nil {
		h.orders = storage.NewOrderStore()
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List()
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer_id")
	if !ok {
		return
	}
	customer, err := h.customers.Get(id)
	if err != nil {
		h.writeLookupError(w, r, err, "Customer not found")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	product, err := h.products.Get(id)
	if err != nil {
		h.writeLookupError(w, r, err, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	products, err := h.products.Find(func(p models.Product) bool {
		return query == "" || strings.Contains(strings.ToLower(p.Name), query)
	})
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}
	order, err := h.orders.Get(id)
	if err != nil {
		h.writeLookupError(w, r, err, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("password change accepted", zap.String("request_id", requestIDFromContext(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("password reset requested", zap.String("request_id", requestIDFromContext(r.Context())))
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("password reset completed", zap.String("request_id", requestIDFromContext(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeProblem(w, r, http.StatusNotFound, notFound)
		return
	}
	h.writeInternalError(w, r, err)
}

func (h *Handler) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)
	writeProblem(w, r, http.StatusInternalServerError, internalErrorDetail)
}

// pathID parses an integer path parameter, writing a 400 problem on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return id, true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
