package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func newOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: domain.OrderStatusCreated,
		Total:  500,
		Items: []domain.OrderItem{
			{ID: "item-1", ProductID: "prod-1", Quantity: 5, UnitPrice: 100, Subtotal: 500, CreatedAt: now},
		},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder()

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != order.ID {
		t.Fatalf("expected id %s, got %s", order.ID, stored.ID)
	}
	if stored.Status != domain.OrderStatusCreated {
		t.Fatalf("expected status creada, got %s", stored.Status)
	}
}

func TestOrderRepository_CreateDuplicate(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder()

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(order); err != domain.ErrOrderVersionConflict {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestOrderRepository_GetMissing(t *testing.T) {
	repo := memory.NewOrderRepository()

	if _, err := repo.Get("missing"); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByUser(t *testing.T) {
	repo := memory.NewOrderRepository()

	first := newOrder()
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	if err := repo.Create(first); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second := newOrder()
	second.ID = "order-2"
	if err := repo.Create(second); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	other := newOrder()
	other.ID = "order-3"
	other.UserID = "user-2"
	if err := repo.Create(other); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := repo.ListByUser("user-1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// Сортировка: новые первыми.
	if orders[0].ID != "order-2" {
		t.Fatalf("expected order-2 first, got %s", orders[0].ID)
	}

	limited, err := repo.ListByUser("user-1", 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 order with limit, got %d", len(limited))
	}
}

func TestOrderRepository_SaveIncrementsVersion(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder()

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order.Status = domain.OrderStatusPaid
	if err := repo.Save(order); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Version != 1 {
		t.Fatalf("expected version 1, got %d", stored.Version)
	}
	if stored.Status != domain.OrderStatusPaid {
		t.Fatalf("expected status pagada, got %s", stored.Status)
	}
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder()

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Первая запись поднимает версию, вторая приходит со старой.
	if err := repo.Save(order); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.Save(order); err != domain.ErrOrderVersionConflict {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestOrderRepository_SaveMissing(t *testing.T) {
	repo := memory.NewOrderRepository()

	if err := repo.Save(newOrder()); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
