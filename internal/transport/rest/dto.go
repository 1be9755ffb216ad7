package rest

import (
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// Общие DTO сервисов. Имена полей совпадают с проводным контрактом
// клиентов шлюза: шлюз и сервисы говорят на одном JSON.

type orderItemDTO struct {
	ID        string  `json:"id,omitempty"`
	ProductID string  `json:"product_id"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal,omitempty"`
}

type orderDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Status    string         `json:"status"`
	Total     float64        `json:"total_amount"`
	Items     []orderItemDTO `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toOrderDTO(order domain.Order) orderDTO {
	dto := orderDTO{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		Total:     order.Total,
		Items:     []orderItemDTO{},
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, orderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return dto
}

type validationErrorDTO struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
}

type validationResultDTO struct {
	ValidationID string               `json:"validation_id"`
	OrderID      string               `json:"order_id"`
	IsValid      bool                 `json:"is_valid"`
	Errors       []validationErrorDTO `json:"errors"`
	Message      string               `json:"message"`
}

func toValidationResultDTO(result domain.ValidationResult) validationResultDTO {
	dto := validationResultDTO{
		ValidationID: result.ValidationID,
		OrderID:      result.OrderID,
		IsValid:      result.IsValid,
		Errors:       []validationErrorDTO{},
		Message:      result.Message,
	}
	for _, e := range result.Errors {
		dto.Errors = append(dto.Errors, validationErrorDTO{
			Rule:    string(e.Rule),
			Message: e.Message,
			Field:   e.Field,
			Value:   e.Value,
		})
	}
	return dto
}

type paymentResultDTO struct {
	PaymentID            string `json:"payment_id"`
	Success              bool   `json:"success"`
	Status               string `json:"status"`
	GatewayTransactionID string `json:"transaction_id"`
	ReferenceNumber      string `json:"reference_number"`
	Message              string `json:"message"`
	FailureReason        string `json:"failure_reason,omitempty"`
}

func toPaymentResultDTO(result domain.PaymentResult) paymentResultDTO {
	return paymentResultDTO{
		PaymentID:            result.PaymentID,
		Success:              result.Success,
		Status:               string(result.Status),
		GatewayTransactionID: result.GatewayTransactionID,
		ReferenceNumber:      result.ReferenceNumber,
		Message:              result.Message,
		FailureReason:        result.FailureReason,
	}
}

type refundResultDTO struct {
	PaymentID           string  `json:"payment_id"`
	Success             bool    `json:"success"`
	Status              string  `json:"status"`
	RefundAmount        float64 `json:"refund_amount"`
	RefundTransactionID string  `json:"refund_transaction_id"`
	Message             string  `json:"message"`
}

func toRefundResultDTO(result domain.RefundResult) refundResultDTO {
	return refundResultDTO{
		PaymentID:           result.PaymentID,
		Success:             result.Success,
		Status:              string(result.Status),
		RefundAmount:        result.RefundAmount,
		RefundTransactionID: result.RefundTransactionID,
		Message:             result.Message,
	}
}

type deliveryDTO struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	Schedule     string    `json:"schedule"`
	BookingStart string    `json:"booking_start"`
	BookingEnd   string    `json:"booking_end"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
}

func toDeliveryDTO(delivery domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:           delivery.ID,
		OrderID:      delivery.OrderID,
		Schedule:     delivery.Schedule,
		BookingStart: delivery.BookingStart,
		BookingEnd:   delivery.BookingEnd,
		State:        string(delivery.State),
		CreatedAt:    delivery.CreatedAt,
	}
}
