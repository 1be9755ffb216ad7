package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserIDRequired = errors.New("user_id is required")
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка при некорректной цене позиции (<= 0).
	ErrItemPriceInvalid = errors.New("item unit_price must be greater than zero")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match items subtotal sum")
	// ErrUnknownOrderStatus возвращается для статуса вне жизненного цикла заказа.
	ErrUnknownOrderStatus = errors.New("unknown order status")
	// ErrIllegalStatusTransition сигнализирует о запрещённом переходе статуса заказа.
	ErrIllegalStatusTransition = errors.New("illegal order status transition")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict — конкурентная запись обогнала текущую.
	ErrOrderVersionConflict = errors.New("order version conflict")

	// Ошибка некорректной суммы платежа (<= 0).
	ErrPaymentAmountInvalid = errors.New("payment amount must be greater than zero")
	// Ошибка неизвестного способа оплаты.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	// ErrPaymentNotFound возвращается, если платёж не найден.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentNotRefundable — возврат возможен только для одобренных платежей.
	ErrPaymentNotRefundable = errors.New("payment cannot be refunded")
	// ErrRefundAmountExceeds — сумма возврата не может превышать сумму платежа.
	ErrRefundAmountExceeds = errors.New("refund amount cannot exceed payment amount")

	// ErrValidationNotFound возвращается, если запись валидации не найдена.
	ErrValidationNotFound = errors.New("order validation not found")

	// ErrDeliveryWindowInvalid — окно доставки должно заканчиваться строго позже начала.
	ErrDeliveryWindowInvalid = errors.New("booking_end must be after booking_start")
	// ErrDeliveryStateTransition сигнализирует о запрещённом переходе состояния доставки.
	ErrDeliveryStateTransition = errors.New("illegal delivery state transition")
	// ErrDeliveryNotFound возвращается, если доставка не найдена.
	ErrDeliveryNotFound = errors.New("delivery not found")

	// ErrUserNotFound возвращается клиентом сервиса пользователей на 404.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound возвращается клиентом сервиса товаров на 404.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartNotFound возвращается, если у пользователя нет активной корзины.
	ErrCartNotFound = errors.New("active cart not found")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsNotFound проверяет, относится ли ошибка к классу «ресурс не найден».
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrValidationNotFound) ||
		errors.Is(err, ErrDeliveryNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCartNotFound)
}
