package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/validation"
)

// ValidationHandler обслуживает маршруты сервиса валидации.
type ValidationHandler struct {
	engine *validation.Engine
	repo   domain.ValidationRepository
	logger *log.Entry
}

// NewValidationHandler создаёт обработчик сервиса валидации.
func NewValidationHandler(engine *validation.Engine, repo domain.ValidationRepository, logger *log.Entry) *ValidationHandler {
	if logger == nil {
		logger = log.New().WithField("component", "validation_http")
	}
	return &ValidationHandler{engine: engine, repo: repo, logger: logger}
}

// NewValidationRouter собирает роутер сервиса валидации.
func NewValidationRouter(h *ValidationHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/validations", func(r chi.Router) {
		r.Post("/validate", h.Validate)
		r.Get("/order/{orderID}", h.ListByOrder)
	})
	return r
}

type validationRequestDTO struct {
	OrderID string         `json:"order_id"`
	UserID  string         `json:"user_id"`
	Items   []orderItemDTO `json:"items"`
	Total   float64        `json:"total_amount"`
}

// Validate прогоняет снимок заказа через движок правил. Бизнес-отказ —
// это 200 с is_valid=false, а не ошибка HTTP.
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validationRequestDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "order_id is required")
		return
	}

	engineReq := domain.ValidationRequest{
		OrderID: req.OrderID,
		UserID:  req.UserID,
		Total:   req.Total,
	}
	for _, item := range req.Items {
		engineReq.Items = append(engineReq.Items, domain.OrderCreateItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	result, err := h.engine.Validate(r.Context(), engineReq)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", req.OrderID).Error("validation failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toValidationResultDTO(result))
}

type validationRecordDTO struct {
	ID             string               `json:"id"`
	OrderID        string               `json:"order_id"`
	Status         string               `json:"status"`
	ValidatedRules []string             `json:"validated_rules"`
	Errors         []validationErrorDTO `json:"errors"`
	CreatedAt      string               `json:"created_at"`
}

// ListByOrder возвращает историю валидаций заказа в хронологическом порядке.
func (h *ValidationHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	records, err := h.repo.ListByOrder(orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("validation history lookup failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	dtos := make([]validationRecordDTO, 0, len(records))
	for _, rec := range records {
		dto := validationRecordDTO{
			ID:             rec.ID,
			OrderID:        rec.OrderID,
			Status:         string(rec.Status),
			ValidatedRules: []string{},
			Errors:         []validationErrorDTO{},
			CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		for _, rule := range rec.ValidatedRules {
			dto.ValidatedRules = append(dto.ValidatedRules, string(rule))
		}
		for _, e := range rec.Errors {
			dto.Errors = append(dto.Errors, validationErrorDTO{
				Rule:    string(e.Rule),
				Message: e.Message,
				Field:   e.Field,
				Value:   e.Value,
			})
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}
