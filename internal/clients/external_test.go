package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestUserClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/user-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userWire{ID: "user-1", IsActive: true})
	}))
	defer server.Close()

	client := NewUserClient(server.URL, nil)
	user, err := client.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if user.ID != "user-1" || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserClient_GetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewUserClient(server.URL, nil)
	if _, err := client.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProductClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/products/prod-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(productWire{ID: "prod-1", Price: 10, IsActive: true, StockQuantity: 7})
	}))
	defer server.Close()

	client := NewProductClient(server.URL, nil)
	product, err := client.Get(context.Background(), "prod-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if product.Price != 10 || product.StockQuantity != 7 {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestProductClient_GetStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/products/prod-1/stock" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stockWire{ProductID: "prod-1", AvailableStock: 3})
	}))
	defer server.Close()

	client := NewProductClient(server.URL, nil)
	stock, err := client.GetStock(context.Background(), "prod-1")
	if err != nil {
		t.Fatalf("get stock failed: %v", err)
	}
	if stock.AvailableStock != 3 {
		t.Fatalf("expected stock 3, got %d", stock.AvailableStock)
	}
}

func TestProductClient_GetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewProductClient(server.URL, nil)
	if _, err := client.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := client.GetStock(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCartClient_GetByUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/carts/user/user-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cartWire{ID: "cart-1", UserID: "user-1"})
	}))
	defer server.Close()

	client := NewCartClient(server.URL, nil)
	cart, err := client.GetByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if cart.ID != "cart-1" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestCartClient_GetByUserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewCartClient(server.URL, nil)
	if _, err := client.GetByUser(context.Background(), "user-1"); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestCartClient_GetItemsMissingPrice(t *testing.T) {
	price := 9.5
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/carts/cart-1/items" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]cartItemWire{
			{ProductID: "prod-1", Quantity: 1, UnitPrice: &price},
			{ProductID: "prod-2", Quantity: 2, UnitPrice: nil},
		})
	}))
	defer server.Close()

	client := NewCartClient(server.URL, nil)
	items, err := client.GetItems(context.Background(), "cart-1")
	if err != nil {
		t.Fatalf("get items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].UnitPrice == nil || *items[0].UnitPrice != 9.5 {
		t.Fatalf("expected price 9.5, got %+v", items[0].UnitPrice)
	}
	if items[1].UnitPrice != nil {
		t.Fatalf("expected nil price, got %v", *items[1].UnitPrice)
	}
}

func TestDeliveryClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/deliveries" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body deliveryCreateWire
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Schedule != "2026-09-03" {
			t.Fatalf("unexpected schedule: %s", body.Schedule)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(deliveryWire{
			ID:           "del-1",
			OrderID:      "order-1",
			Schedule:     body.Schedule,
			BookingStart: body.BookingStart,
			BookingEnd:   body.BookingEnd,
			State:        "BOOKED",
		})
	}))
	defer server.Close()

	client := NewDeliveryClient(server.URL, nil)
	delivery, err := client.Create(context.Background(), domain.DeliveryBooking{
		OrderID:      "order-1",
		Schedule:     "2026-09-03",
		BookingStart: "10:00",
		BookingEnd:   "12:00",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if delivery.ID != "del-1" || delivery.State != domain.DeliveryStateBooked {
		t.Fatalf("unexpected delivery: %+v", delivery)
	}
}

func TestDeliveryClient_CreateInvalidWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewDeliveryClient(server.URL, nil)
	if _, err := client.Create(context.Background(), domain.DeliveryBooking{}); !errors.Is(err, domain.ErrDeliveryWindowInvalid) {
		t.Fatalf("expected ErrDeliveryWindowInvalid, got %v", err)
	}
}

func TestDeliveryClient_ChangeStateConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/v1/deliveries/del-1/state" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewDeliveryClient(server.URL, nil)
	if _, err := client.ChangeState(context.Background(), "del-1", domain.DeliveryStateConfirmed); !errors.Is(err, domain.ErrDeliveryStateTransition) {
		t.Fatalf("expected ErrDeliveryStateTransition, got %v", err)
	}
}
