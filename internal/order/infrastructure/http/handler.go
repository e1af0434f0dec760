package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/restaurant-pos/internal/access"
	customer "github.com/dmehra2102/restaurant-pos/internal/customer/domain"
	"github.com/dmehra2102/restaurant-pos/internal/order/application"
	"github.com/dmehra2102/restaurant-pos/internal/order/domain"
	"github.com/dmehra2102/restaurant-pos/internal/platform/errs"
	table "github.com/dmehra2102/restaurant-pos/internal/table/domain"
	"github.com/dmehra2102/restaurant-pos/pkg/idempotency"
)

type OrderService interface {
	CreateOrder(ctx context.Context, c access.Caller, in application.CreateOrderInput) (domain.Order, error)
	ListOrders(ctx context.Context, c access.Caller, f application.ListFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, c access.Caller, id string) (domain.Order, error)
	UpdateOrder(ctx context.Context, c access.Caller, id string, in application.UpdateOrderInput) (domain.Order, error)
	ChangeStatus(ctx context.Context, c access.Caller, id string, in application.ChangeStatusInput) (domain.Order, error)
	ChangeItemStatus(ctx context.Context, c access.Caller, orderID, itemID string, status domain.ItemStatus) (domain.Order, error)
	Settle(ctx context.Context, c access.Caller, id string, in application.SettleInput) (domain.Order, error)
	SettleDue(ctx context.Context, c access.Caller, id string, in application.SettleDueInput) (domain.Order, error)
	DeleteOrder(ctx context.Context, c access.Caller, id string) error
	DailyStats(ctx context.Context, c access.Caller, day time.Time) (domain.DailyStats, error)
}

type TableService interface {
	List(ctx context.Context, c access.Caller) ([]table.Table, error)
	Register(ctx context.Context, c access.Caller, tableID string, capacity int) (table.Table, error)
}

type CustomerService interface {
	Save(ctx context.Context, c access.Caller, in customer.Customer) (customer.Customer, error)
	ByPhone(ctx context.Context, c access.Caller, phone string) (customer.Customer, error)
}

type Deps struct {
	Orders    OrderService
	Tables    TableService
	Customers CustomerService
	Auth      *Authenticator
	// Idempotency is optional; without it Idempotency-Key headers are ignored.
	Idempotency *idempotency.Store
	// Ready backs /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Handler struct {
	log    *slog.Logger
	deps   Deps
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, deps Deps) *Handler {
	return &Handler{
		log:    log,
		deps:   deps,
		tracer: otel.Tracer("pos-http"),
	}
}

type errorBody struct {
	Message string `json:"message"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", h.ready)

	r.Group(func(r chi.Router) {
		r.Use(h.deps.Auth.Middleware)
		if h.deps.Idempotency != nil {
			r.Use(idempotency.Middleware(h.log, h.deps.Idempotency, tenantScope))
		}

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
			r.Get("/stats", h.stats)
			r.Get("/{id}", h.getOrder)
			r.Put("/{id}", h.updateOrder)
			r.Delete("/{id}", h.deleteOrder)
			r.Put("/{id}/status", h.changeStatus)
			r.Patch("/{id}/items/{itemId}/status", h.changeItemStatus)
			r.Put("/{id}/pay", h.settle)
			r.Put("/{id}/settle-due", h.settleDue)
		})

		r.Get("/tables", h.listTables)
		r.Put("/tables/{tableId}", h.putTable)

		r.Post("/customers", h.saveCustomer)
		r.Get("/customers/phone/{phone}", h.customerByPhone)
	})

	return r
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if h.deps.Ready != nil {
		if err := h.deps.Ready(r.Context()); err != nil {
			h.log.Warn("not ready", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Message: "not ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var in application.CreateOrderInput
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.deps.Orders.CreateOrder(ctx, callerFrom(ctx), in)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	span.SetAttributes(attribute.String("order.id", o.ID))
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	q := r.URL.Query()
	f := application.ListFilter{
		Status:  domain.Status(q.Get("status")),
		TableID: q.Get("tableId"),
	}
	orders, err := h.deps.Orders.ListOrders(ctx, callerFrom(ctx), f)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.deps.Orders.GetOrder(ctx, callerFrom(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrder")
	defer span.End()

	var in application.UpdateOrderInput
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.deps.Orders.UpdateOrder(ctx, callerFrom(ctx), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChangeStatus")
	defer span.End()

	var in application.ChangeStatusInput
	if !h.decode(w, r, &in) {
		return
	}
	span.SetAttributes(attribute.String("order.status", string(in.Status)))
	o, err := h.deps.Orders.ChangeStatus(ctx, callerFrom(ctx), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) changeItemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChangeItemStatus")
	defer span.End()

	var in struct {
		Status domain.ItemStatus `json:"status"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.deps.Orders.ChangeItemStatus(ctx, callerFrom(ctx), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"), in.Status)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Settle")
	defer span.End()

	var in application.SettleInput
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.deps.Orders.Settle(ctx, callerFrom(ctx), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) settleDue(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SettleDue")
	defer span.End()

	var in application.SettleDueInput
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.deps.Orders.SettleDue(ctx, callerFrom(ctx), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteOrder")
	defer span.End()

	if err := h.deps.Orders.DeleteOrder(ctx, callerFrom(ctx), chi.URLParam(r, "id")); err != nil {
		h.fail(w, span, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stats takes an optional ?date=YYYY-MM-DD; today otherwise.
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DailyStats")
	defer span.End()

	var day time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}
	s, err := h.deps.Orders.DailyStats(ctx, callerFrom(ctx), day)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListTables")
	defer span.End()

	tables, err := h.deps.Tables.List(ctx, callerFrom(ctx))
	if err != nil {
		h.fail(w, span, err)
		return
	}
	if tables == nil {
		tables = []table.Table{}
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) putTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PutTable")
	defer span.End()

	var in struct {
		Capacity int `json:"capacity"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	t, err := h.deps.Tables.Register(ctx, callerFrom(ctx), chi.URLParam(r, "tableId"), in.Capacity)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) saveCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SaveCustomer")
	defer span.End()

	var in customer.Customer
	if !h.decode(w, r, &in) {
		return
	}
	c, err := h.deps.Customers.Save(ctx, callerFrom(ctx), in)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) customerByPhone(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CustomerByPhone")
	defer span.End()

	c, err := h.deps.Customers.ByPhone(ctx, callerFrom(ctx), chi.URLParam(r, "phone"))
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid body"})
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, span trace.Span, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.log.Error("request failed", "err", err)
		writeJSON(w, status, errorBody{Message: "internal error"})
		return
	}
	span.SetAttributes(attribute.String("error.class", strconv.Itoa(status)))
	writeJSON(w, status, errorBody{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, table.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrBusinessRule):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
