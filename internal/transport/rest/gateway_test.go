package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/service/order"
	"github.com/vladislavdragonenkov/checkout/internal/service/payment"
	"github.com/vladislavdragonenkov/checkout/internal/service/validation"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

type fakeCarts struct {
	carts map[string]domain.Cart
	items map[string][]domain.CartItem
}

func (f fakeCarts) GetByUser(_ context.Context, userID string) (domain.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cart, nil
}

func (f fakeCarts) GetItems(_ context.Context, cartID string) ([]domain.CartItem, error) {
	return f.items[cartID], nil
}

type fakeDeliveries struct {
	mu         sync.Mutex
	deliveries map[string]domain.Delivery
}

func (f *fakeDeliveries) Create(_ context.Context, booking domain.DeliveryBooking) (domain.Delivery, error) {
	delivery, err := domain.NewDelivery(booking.OrderID, booking.Schedule, booking.BookingStart, booking.BookingEnd)
	if err != nil {
		return domain.Delivery{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries[delivery.ID] = *delivery
	return *delivery, nil
}

func (f *fakeDeliveries) ChangeState(_ context.Context, deliveryID string, newState domain.DeliveryState) (domain.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delivery, ok := f.deliveries[deliveryID]
	if !ok {
		return domain.Delivery{}, domain.ErrDeliveryNotFound
	}
	if err := delivery.ChangeState(newState); err != nil {
		return domain.Delivery{}, err
	}
	f.deliveries[deliveryID] = delivery
	return delivery, nil
}

// newGatewayServer собирает шлюз поверх in-process сервисов: настоящие
// order/validation/payment сервисы на памяти, корзины и доставки — стабы.
func newGatewayServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("component", "gateway_http")

	users := fakeUsers{users: map[string]domain.User{
		"user-1": {ID: "user-1", IsActive: true},
	}}
	products := fakeProducts{products: map[string]domain.Product{
		"prod-1": {ID: "prod-1", Price: 10, IsActive: true, StockQuantity: 10},
	}}
	carts := fakeCarts{
		carts: map[string]domain.Cart{"user-1": {ID: "cart-1", UserID: "user-1"}},
		items: map[string][]domain.CartItem{
			"cart-1": {{ProductID: "prod-1", Quantity: 2, UnitPrice: nil}},
		},
	}

	orders := order.NewService(memory.NewOrderRepository(), memory.NewOutboxRepository(), logger)
	validations := validation.NewEngine(users, products, memory.NewValidationRepository(), entry)
	payments := payment.NewProcessor(memory.NewPaymentRepository(), payment.NewMockGateway(), logger)
	deliveries := &fakeDeliveries{deliveries: map[string]domain.Delivery{}}

	saga := checkout.NewOrchestrator(orders, validations, payments, carts, products, deliveries, entry)
	server := httptest.NewServer(NewGatewayRouter(NewGatewayHandler(saga, entry)))
	t.Cleanup(server.Close)
	return server
}

func runTestCheckout(t *testing.T, server *httptest.Server) checkoutResponseDTO {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/v1/checkout", checkoutRequestDTO{
		UserID: "user-1",
		Items:  []checkoutItemDTO{{ProductID: "prod-1", Quantity: 2, UnitPrice: 10}},
		Payment: &checkoutPaymentDTO{
			Method:     "credit_card",
			CardNumber: "4111111111111234",
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result checkoutResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestGatewayHandler_Checkout(t *testing.T) {
	server := newGatewayServer(t)

	result := runTestCheckout(t, server)
	assert.Equal(t, "pagada", result.Order.Status)
	assert.True(t, result.Payment.Success)
	assert.True(t, result.Validation.IsValid)
	assert.Nil(t, result.Cart)
}

func TestGatewayHandler_CheckoutMissingUser(t *testing.T) {
	server := newGatewayServer(t)

	resp := postJSON(t, server.URL+"/api/v1/checkout", checkoutRequestDTO{
		Items: []checkoutItemDTO{{ProductID: "prod-1", Quantity: 1, UnitPrice: 10}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGatewayHandler_CheckoutEmptyItemsReachesSaga(t *testing.T) {
	server := newGatewayServer(t)

	// Пустой список позиций — валидный запрос: заказ с total 0 создаётся,
	// валидация проходит, и сага доходит до шага оплаты.
	resp := postJSON(t, server.URL+"/api/v1/checkout", checkoutRequestDTO{UserID: "user-1"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var envelope errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "pay_failed", envelope.Error)
}

func TestGatewayHandler_CheckoutValidationRejected(t *testing.T) {
	server := newGatewayServer(t)

	// Запрошено больше, чем есть на складе: сага останавливается на
	// валидации, конверт несёт исходный вердикт в detail.
	resp := postJSON(t, server.URL+"/api/v1/checkout", checkoutRequestDTO{
		UserID: "user-1",
		Items:  []checkoutItemDTO{{ProductID: "prod-1", Quantity: 99, UnitPrice: 10}},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "validate_rejected", envelope.Error)
	assert.NotNil(t, envelope.Detail)
}

func TestGatewayHandler_CheckoutPaymentDeclined(t *testing.T) {
	server := newGatewayServer(t)

	resp := postJSON(t, server.URL+"/api/v1/checkout", checkoutRequestDTO{
		UserID: "user-1",
		Items:  []checkoutItemDTO{{ProductID: "prod-1", Quantity: 2, UnitPrice: 10}},
		Payment: &checkoutPaymentDTO{
			Method:     "credit_card",
			CardNumber: "4111111111110000",
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "pay_rejected", envelope.Error)
}

func TestGatewayHandler_CheckoutFromCart(t *testing.T) {
	server := newGatewayServer(t)

	resp := postJSON(t, server.URL+"/api/v1/checkout/from-cart?user_id=user-1", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result checkoutResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotNil(t, result.Cart)
	assert.Equal(t, "cart-1", result.Cart.CartID)
	// Цена позиции дорешана из каталога: 2 * 10.
	assert.InDelta(t, 20.0, result.Order.Total, 0.001)
}

func TestGatewayHandler_CheckoutFromCartNotFound(t *testing.T) {
	server := newGatewayServer(t)

	resp := postJSON(t, server.URL+"/api/v1/checkout/from-cart?user_id=user-2", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGatewayHandler_ShipAndDeliver(t *testing.T) {
	server := newGatewayServer(t)
	result := runTestCheckout(t, server)

	resp := postJSON(t, server.URL+"/api/v1/checkout/"+result.Order.ID+"/ship", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var shipped orderDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&shipped))
	assert.Equal(t, "enviada", shipped.Status)

	resp2 := postJSON(t, server.URL+"/api/v1/checkout/"+result.Order.ID+"/deliver", nil)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var delivered orderDTO
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&delivered))
	assert.Equal(t, "entregada", delivered.Status)
}

func TestGatewayHandler_CancelDeliveredRejected(t *testing.T) {
	server := newGatewayServer(t)
	result := runTestCheckout(t, server)

	for _, step := range []string{"ship", "deliver"} {
		resp := postJSON(t, server.URL+"/api/v1/checkout/"+result.Order.ID+"/"+step, nil)
		resp.Body.Close()
	}

	resp := postJSON(t, server.URL+"/api/v1/checkout/"+result.Order.ID+"/cancel", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGatewayHandler_BookDelivery(t *testing.T) {
	server := newGatewayServer(t)
	result := runTestCheckout(t, server)

	resp := postJSON(t, server.URL+"/api/v1/checkout/"+result.Order.ID+"/delivery/book", deliveryBookingDTO{
		Schedule:     "2026-09-03",
		BookingStart: "10:00",
		BookingEnd:   "12:00",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var delivery deliveryDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&delivery))
	assert.Equal(t, "BOOKED", delivery.State)

	resp2 := postJSON(t, server.URL+"/api/v1/checkout/delivery/"+delivery.ID+"/state", deliveryStateDTO{State: "CONFIRMED"})
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var confirmed deliveryDTO
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&confirmed))
	assert.Equal(t, "CONFIRMED", confirmed.State)
}

func TestGatewayHandler_BookDeliveryInvalidWindow(t *testing.T) {
	server := newGatewayServer(t)
	result := runTestCheckout(t, server)

	resp := postJSON(t, server.URL+"/api/v1/checkout/"+result.Order.ID+"/delivery/book", deliveryBookingDTO{
		Schedule:     "2026-09-03",
		BookingStart: "12:00",
		BookingEnd:   "10:00",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGatewayHandler_RefundPayment(t *testing.T) {
	server := newGatewayServer(t)
	result := runTestCheckout(t, server)

	resp := postJSON(t, server.URL+"/api/v1/checkout/"+result.Payment.PaymentID+"/refund", refundRequestDTO{Reason: "customer request"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refund refundResultDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refund))
	assert.True(t, refund.Success)
}
