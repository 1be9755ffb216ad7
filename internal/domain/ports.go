package domain

import "context"

// OrderCreateItem — позиция в запросе на создание/валидацию заказа.
type OrderCreateItem struct {
	ProductID string
	Quantity  int32
	UnitPrice float64
}

// OrderService описывает контракт сервиса заказов, от которого зависит сага.
type OrderService interface {
	// Create создаёт заказ с набором позиций; сервис сам считает total.
	Create(ctx context.Context, userID string, items []OrderCreateItem) (Order, error)
	// Get возвращает заказ по идентификатору.
	Get(ctx context.Context, orderID string) (Order, error)
	// UpdateStatus переводит заказ в новый статус (PATCH).
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (Order, error)
}

// ValidationRequest — снимок заказа для сервиса валидации.
type ValidationRequest struct {
	OrderID string
	UserID  string
	Items   []OrderCreateItem
	Total   float64
}

// ValidationResult — вердикт сервиса валидации.
type ValidationResult struct {
	ValidationID string
	OrderID      string
	IsValid      bool
	Errors       []ValidationError
	Message      string
}

// ValidationService описывает контракт сервиса валидации заказов.
type ValidationService interface {
	Validate(ctx context.Context, req ValidationRequest) (ValidationResult, error)
}

// PaymentDetails — детали оплаты, зависящие от способа.
type PaymentDetails struct {
	Method          PaymentMethod
	Currency        string
	Description     string
	CardNumber      string
	CardHolderName  string
	CardExpiryMonth int
	CardExpiryYear  int
	CardCVV         string
	BillingAddress  string
}

// PaymentProcessRequest — запрос на проведение платежа.
type PaymentProcessRequest struct {
	OrderID string
	UserID  string
	Amount  float64
	Details PaymentDetails
}

// PaymentResult — исход проведения платежа.
type PaymentResult struct {
	PaymentID            string
	Success              bool
	Status               PaymentStatus
	GatewayTransactionID string
	ReferenceNumber      string
	Message              string
	FailureReason        string
}

// RefundRequest — запрос на возврат средств. Amount == 0 означает полный возврат.
type RefundRequest struct {
	Amount float64
	Reason string
}

// RefundResult — исход возврата средств.
type RefundResult struct {
	PaymentID           string
	RefundAmount        float64
	Status              PaymentStatus
	Success             bool
	Message             string
	RefundTransactionID string
}

// PaymentService описывает контракт платёжного сервиса.
type PaymentService interface {
	Process(ctx context.Context, req PaymentProcessRequest) (PaymentResult, error)
	Refund(ctx context.Context, paymentID string, req RefundRequest) (RefundResult, error)
}

// User — поля пользователя, которые читает валидация.
type User struct {
	ID       string
	IsActive bool
}

// UserService описывает контракт сервиса пользователей.
type UserService interface {
	Get(ctx context.Context, userID string) (User, error)
}

// Product — поля товара, которые читают валидация и checkout из корзины.
type Product struct {
	ID            string
	Price         float64
	IsActive      bool
	StockQuantity int32
}

// Stock — доступный остаток товара.
type Stock struct {
	ProductID      string
	AvailableStock int32
}

// ProductService описывает контракт сервиса товаров.
type ProductService interface {
	Get(ctx context.Context, productID string) (Product, error)
	GetStock(ctx context.Context, productID string) (Stock, error)
}

// Cart — активная корзина пользователя.
type Cart struct {
	ID     string
	UserID string
}

// CartItem — позиция корзины; UnitPrice может отсутствовать,
// тогда цену дорешивает сервис товаров.
type CartItem struct {
	ProductID string
	Quantity  int32
	UnitPrice *float64
}

// CartService описывает контракт сервиса корзин.
type CartService interface {
	GetByUser(ctx context.Context, userID string) (Cart, error)
	GetItems(ctx context.Context, cartID string) ([]CartItem, error)
}

// DeliveryBooking — запрос на бронирование доставки.
type DeliveryBooking struct {
	OrderID      string
	Schedule     string
	BookingStart string
	BookingEnd   string
}

// DeliveryService описывает контракт сервиса доставки.
type DeliveryService interface {
	Create(ctx context.Context, booking DeliveryBooking) (Delivery, error)
	ChangeState(ctx context.Context, deliveryID string, newState DeliveryState) (Delivery, error)
}
