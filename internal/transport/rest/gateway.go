package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
)

// GatewayHandler обслуживает HTTP-маршруты шлюза: запуск саги checkout,
// пост-оплатные переходы заказа, бронирование доставки и возвраты.
type GatewayHandler struct {
	saga   *checkout.Orchestrator
	logger *log.Entry
}

// NewGatewayHandler создаёт обработчик шлюза.
func NewGatewayHandler(saga *checkout.Orchestrator, logger *log.Entry) *GatewayHandler {
	if logger == nil {
		logger = log.New().WithField("component", "gateway_http")
	}
	return &GatewayHandler{saga: saga, logger: logger}
}

// NewGatewayRouter собирает роутер шлюза.
func NewGatewayRouter(h *GatewayHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Post("/", h.Checkout)
		r.Post("/from-cart", h.CheckoutFromCart)
		r.Post("/{orderID}/ship", h.ShipOrder)
		r.Post("/{orderID}/deliver", h.DeliverOrder)
		r.Post("/{orderID}/cancel", h.CancelOrder)
		r.Post("/{orderID}/delivery/book", h.BookDelivery)
		r.Post("/delivery/{deliveryID}/state", h.ChangeDeliveryState)
		r.Post("/{paymentID}/refund", h.RefundPayment)
	})
	return r
}

type checkoutItemDTO struct {
	ProductID string  `json:"product_id"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type checkoutPaymentDTO struct {
	Method          string `json:"payment_method"`
	Currency        string `json:"currency,omitempty"`
	Description     string `json:"description,omitempty"`
	CardNumber      string `json:"card_number,omitempty"`
	CardHolderName  string `json:"card_holder_name,omitempty"`
	CardExpiryMonth int    `json:"card_expiry_month,omitempty"`
	CardExpiryYear  int    `json:"card_expiry_year,omitempty"`
	CardCVV         string `json:"card_cvv,omitempty"`
	BillingAddress  string `json:"billing_address,omitempty"`
}

type checkoutRequestDTO struct {
	UserID  string              `json:"user_id"`
	Items   []checkoutItemDTO   `json:"items"`
	Payment *checkoutPaymentDTO `json:"payment,omitempty"`
}

type cartSummaryDTO struct {
	CartID     string `json:"cart_id"`
	ItemsCount int    `json:"items_count"`
}

type checkoutResponseDTO struct {
	Order      orderDTO            `json:"order"`
	Payment    paymentResultDTO    `json:"payment"`
	Validation validationResultDTO `json:"validation"`
	Cart       *cartSummaryDTO     `json:"cart,omitempty"`
}

func toCheckoutResponse(result checkout.Result) checkoutResponseDTO {
	dto := checkoutResponseDTO{
		Order:      toOrderDTO(result.Order),
		Payment:    toPaymentResultDTO(result.Payment),
		Validation: toValidationResultDTO(result.Validation),
	}
	if result.Cart != nil {
		dto.Cart = &cartSummaryDTO{CartID: result.Cart.CartID, ItemsCount: result.Cart.ItemsCount}
	}
	return dto
}

// Checkout запускает сагу для явно переданных позиций.
func (h *GatewayHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequestDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	sagaReq := checkout.Request{UserID: req.UserID}
	for _, item := range req.Items {
		sagaReq.Items = append(sagaReq.Items, domain.OrderCreateItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if req.Payment != nil {
		sagaReq.Payment = &domain.PaymentDetails{
			Method:          domain.PaymentMethod(req.Payment.Method),
			Currency:        req.Payment.Currency,
			Description:     req.Payment.Description,
			CardNumber:      req.Payment.CardNumber,
			CardHolderName:  req.Payment.CardHolderName,
			CardExpiryMonth: req.Payment.CardExpiryMonth,
			CardExpiryYear:  req.Payment.CardExpiryYear,
			CardCVV:         req.Payment.CardCVV,
			BillingAddress:  req.Payment.BillingAddress,
		}
	}

	result, err := h.saga.Run(r.Context(), sagaReq)
	if err != nil {
		h.writeSagaError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCheckoutResponse(result))
}

// CheckoutFromCart запускает сагу по активной корзине пользователя.
// Идентификатор пользователя приходит query-параметром.
func (h *GatewayHandler) CheckoutFromCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	result, err := h.saga.RunFromCart(r.Context(), userID)
	if err != nil {
		h.writeSagaError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCheckoutResponse(result))
}

// ShipOrder переводит оплаченный заказ в enviada.
func (h *GatewayHandler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	h.patchOrder(w, r, h.saga.Ship)
}

// DeliverOrder переводит отправленный заказ в entregada.
func (h *GatewayHandler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	h.patchOrder(w, r, h.saga.Deliver)
}

// CancelOrder отменяет заказ, если жизненный цикл это позволяет.
func (h *GatewayHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.patchOrder(w, r, h.saga.Cancel)
}

func (h *GatewayHandler) patchOrder(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, orderID string) (domain.Order, error)) {
	orderID := chi.URLParam(r, "orderID")

	order, err := op(r.Context(), orderID)
	if err != nil {
		h.writeSagaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h *GatewayHandler) writeSagaError(w http.ResponseWriter, err error) {
	var stepErr *checkout.StepError
	if !errors.As(err, &stepErr) {
		h.logger.WithError(err).Error("unclassified checkout error")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	switch stepErr.Kind {
	case checkout.KindRejected:
		writeErrorDetail(w, http.StatusBadRequest, string(stepErr.Step)+"_rejected", stepErr.Message, stepErr.Detail)
	case checkout.KindNotFound:
		writeError(w, http.StatusNotFound, string(stepErr.Step)+"_not_found", stepErr.Error())
	default:
		writeError(w, http.StatusBadGateway, string(stepErr.Step)+"_failed", stepErr.Error())
	}
}

type deliveryBookingDTO struct {
	Schedule     string `json:"schedule"`
	BookingStart string `json:"booking_start"`
	BookingEnd   string `json:"booking_end"`
}

// BookDelivery бронирует доставку для заказа.
func (h *GatewayHandler) BookDelivery(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req deliveryBookingDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	delivery, err := h.saga.BookDelivery(r.Context(), domain.DeliveryBooking{
		OrderID:      orderID,
		Schedule:     req.Schedule,
		BookingStart: req.BookingStart,
		BookingEnd:   req.BookingEnd,
	})
	if err != nil {
		h.writeSagaError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDeliveryDTO(delivery))
}

type deliveryStateDTO struct {
	State string `json:"state"`
}

// ChangeDeliveryState меняет состояние бронирования доставки.
func (h *GatewayHandler) ChangeDeliveryState(w http.ResponseWriter, r *http.Request) {
	deliveryID := chi.URLParam(r, "deliveryID")

	var req deliveryStateDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	delivery, err := h.saga.ChangeDeliveryState(r.Context(), deliveryID, domain.DeliveryState(req.State))
	if err != nil {
		h.writeSagaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeliveryDTO(delivery))
}

type refundRequestDTO struct {
	Amount float64 `json:"amount,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// RefundPayment проксирует возврат средств в платёжный сервис.
func (h *GatewayHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	var req refundRequestDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := h.saga.RefundPayment(r.Context(), paymentID, domain.RefundRequest{
		Amount: req.Amount,
		Reason: req.Reason,
	})
	if err != nil {
		h.writeSagaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRefundResultDTO(result))
}
