package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/order"
)

// defaultListLimit ограничивает выдачу списков, если limit не задан.
const defaultListLimit = 50

// OrderHandler обслуживает CRUD-маршруты сервиса заказов.
type OrderHandler struct {
	svc    *order.Service
	logger *log.Entry
}

// NewOrderHandler создаёт обработчик сервиса заказов.
func NewOrderHandler(svc *order.Service, logger *log.Entry) *OrderHandler {
	if logger == nil {
		logger = log.New().WithField("component", "order_http")
	}
	return &OrderHandler{svc: svc, logger: logger}
}

// NewOrderRouter собирает роутер сервиса заказов.
func NewOrderRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{orderID}", h.Get)
		r.Get("/user/{userID}", h.ListByUser)
		r.Patch("/{orderID}", h.UpdateStatus)
	})
	return r
}

type orderCreateDTO struct {
	UserID string         `json:"user_id"`
	Items  []orderItemDTO `json:"items"`
}

// Create создаёт заказ и возвращает его с посчитанной суммой.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderCreateDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	items := make([]domain.OrderCreateItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderCreateItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	created, err := h.svc.Create(r.Context(), req.UserID, items)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_order", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(created))
}

// Get возвращает заказ по идентификатору.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	found, err := h.svc.Get(r.Context(), orderID)
	if err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "order_not_found", err.Error())
			return
		}
		h.logger.WithError(err).WithField("order_id", orderID).Error("order lookup failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(found))
}

// ListByUser возвращает заказы пользователя, свежие первыми.
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	orders, err := h.svc.ListByUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("order list failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	dtos := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}
	writeJSON(w, http.StatusOK, dtos)
}

type orderPatchDTO struct {
	Status string `json:"status"`
}

// UpdateStatus переводит заказ в новый статус. Неизвестный статус — 400,
// запрещённый переход по графу жизненного цикла — 409.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req orderPatchDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	updated, err := h.svc.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, toOrderDTO(updated))
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrUnknownOrderStatus):
		writeError(w, http.StatusBadRequest, "unknown_status", err.Error())
	case errors.Is(err, domain.ErrIllegalStatusTransition):
		writeError(w, http.StatusConflict, "illegal_transition", err.Error())
	default:
		h.logger.WithError(err).WithField("order_id", orderID).Error("order status update failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
