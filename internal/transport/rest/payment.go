package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/payment"
)

// PaymentHandler обслуживает маршруты платёжного сервиса.
type PaymentHandler struct {
	proc   *payment.Processor
	logger *log.Entry
}

// NewPaymentHandler создаёт обработчик платёжного сервиса.
func NewPaymentHandler(proc *payment.Processor, logger *log.Entry) *PaymentHandler {
	if logger == nil {
		logger = log.New().WithField("component", "payment_http")
	}
	return &PaymentHandler{proc: proc, logger: logger}
}

// NewPaymentRouter собирает роутер платёжного сервиса.
func NewPaymentRouter(h *PaymentHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/process", h.Process)
		r.Post("/{paymentID}/refund", h.Refund)
		r.Get("/{paymentID}", h.Get)
	})
	return r
}

type paymentDetailsDTO struct {
	CardNumber      string `json:"card_number,omitempty"`
	CardHolderName  string `json:"card_holder_name,omitempty"`
	CardExpiryMonth int    `json:"card_expiry_month,omitempty"`
	CardExpiryYear  int    `json:"card_expiry_year,omitempty"`
	CardCVV         string `json:"card_cvv,omitempty"`
	BillingAddress  string `json:"billing_address,omitempty"`
}

type paymentProcessDTO struct {
	OrderID     string            `json:"order_id"`
	UserID      string            `json:"user_id"`
	Amount      float64           `json:"amount"`
	Method      string            `json:"payment_method"`
	Currency    string            `json:"currency,omitempty"`
	Description string            `json:"description,omitempty"`
	Details     paymentDetailsDTO `json:"payment_details"`
}

// Process проводит платёж. Отказ шлюза — 200 с success=false;
// 400 остаётся за невалидным запросом (сумма, способ оплаты).
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req paymentProcessDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := h.proc.Process(r.Context(), domain.PaymentProcessRequest{
		OrderID: req.OrderID,
		UserID:  req.UserID,
		Amount:  req.Amount,
		Details: domain.PaymentDetails{
			Method:          domain.PaymentMethod(req.Method),
			Currency:        req.Currency,
			Description:     req.Description,
			CardNumber:      req.Details.CardNumber,
			CardHolderName:  req.Details.CardHolderName,
			CardExpiryMonth: req.Details.CardExpiryMonth,
			CardExpiryYear:  req.Details.CardExpiryYear,
			CardCVV:         req.Details.CardCVV,
			BillingAddress:  req.Details.BillingAddress,
		},
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payment", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResultDTO(result))
}

// Refund инициирует возврат средств. Бизнес-отказ возврата — 200 с
// success=false, отсутствующий платёж — 404.
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	var req refundRequestDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := h.proc.Refund(r.Context(), paymentID, domain.RefundRequest{
		Amount: req.Amount,
		Reason: req.Reason,
	})
	if err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "payment_not_found", err.Error())
			return
		}
		h.logger.WithError(err).WithField("payment_id", paymentID).Error("refund failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRefundResultDTO(result))
}

type paymentDTO struct {
	ID                   string    `json:"id"`
	OrderID              string    `json:"order_id"`
	UserID               string    `json:"user_id"`
	Amount               float64   `json:"amount"`
	Method               string    `json:"payment_method"`
	Status               string    `json:"status"`
	ReferenceNumber      string    `json:"reference_number"`
	GatewayTransactionID string    `json:"transaction_id,omitempty"`
	Currency             string    `json:"currency,omitempty"`
	FailureReason        string    `json:"failure_reason,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Get возвращает платёж по идентификатору.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	found, err := h.proc.Get(r.Context(), paymentID)
	if err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "payment_not_found", err.Error())
			return
		}
		h.logger.WithError(err).WithField("payment_id", paymentID).Error("payment lookup failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, paymentDTO{
		ID:                   found.ID,
		OrderID:              found.OrderID,
		UserID:               found.UserID,
		Amount:               found.Amount,
		Method:               string(found.Method),
		Status:               string(found.Status),
		ReferenceNumber:      found.ReferenceNumber,
		GatewayTransactionID: found.GatewayTransactionID,
		Currency:             found.Currency,
		FailureReason:        found.FailureReason,
		CreatedAt:            found.CreatedAt,
		UpdatedAt:            found.UpdatedAt,
	})
}
