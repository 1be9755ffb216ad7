package order_test

import (
	"context"
	"errors"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/order"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func newTestLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newService(t *testing.T) (*order.Service, interface{ AllPending() []domain.OutboxMessage }) {
	t.Helper()
	outbox := memory.NewOutboxRepository()
	svc := order.NewService(memory.NewOrderRepository(), outbox, newTestLogger())
	return svc, outbox
}

func TestService_CreateComputesTotal(t *testing.T) {
	svc, outbox := newService(t)

	created, err := svc.Create(context.Background(), "user-1", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 2, UnitPrice: 10.5},
		{ProductID: "prod-2", Quantity: 1, UnitPrice: 4.0},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.Status != domain.OrderStatusCreated {
		t.Fatalf("expected creada, got %s", created.Status)
	}
	if created.Total != 25.0 {
		t.Fatalf("expected total 25.0, got %f", created.Total)
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(created.Items))
	}

	// Создание кладёт событие в outbox.
	pending := outbox.AllPending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox message, got %d", len(pending))
	}
	if pending[0].EventType != "order.created" {
		t.Fatalf("expected order.created event, got %s", pending[0].EventType)
	}
}

func TestService_CreateRequiresUser(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), "", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 1, UnitPrice: 1},
	})
	if !errors.Is(err, domain.ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
}

func TestService_CreateEmptyOrder(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := order.NewService(repo, memory.NewOutboxRepository(), newTestLogger())

	created, err := svc.Create(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("create empty order: %v", err)
	}
	if created.Status != domain.OrderStatusCreated {
		t.Fatalf("expected creada, got %s", created.Status)
	}
	if created.Total != 0 {
		t.Fatalf("expected total 0, got %v", created.Total)
	}
	if len(created.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(created.Items))
	}

	stored, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("get stored order: %v", err)
	}
	if stored.Total != 0 {
		t.Fatalf("stored total should be 0, got %v", stored.Total)
	}
}

func TestService_CreateRejectsBadItem(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), "user-1", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 0, UnitPrice: 1},
	})
	if !errors.Is(err, domain.ErrItemQtyInvalid) {
		t.Fatalf("expected ErrItemQtyInvalid, got %v", err)
	}

	_, err = svc.Create(context.Background(), "user-1", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 1, UnitPrice: 0},
	})
	if !errors.Is(err, domain.ErrItemPriceInvalid) {
		t.Fatalf("expected ErrItemPriceInvalid, got %v", err)
	}
}

func TestService_UpdateStatusHappyPath(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 1, UnitPrice: 10},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, created.ID, domain.OrderStatusPaid)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.OrderStatusPaid {
		t.Fatalf("expected pagada, got %s", updated.Status)
	}

	pending := outbox.AllPending()
	if len(pending) != 2 {
		t.Fatalf("expected 2 outbox messages, got %d", len(pending))
	}
}

func TestService_UpdateStatusIllegalTransition(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 1, UnitPrice: 10},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// creada → entregada минует pagada и enviada.
	if _, err := svc.UpdateStatus(ctx, created.ID, domain.OrderStatusDelivered); !errors.Is(err, domain.ErrIllegalStatusTransition) {
		t.Fatalf("expected ErrIllegalStatusTransition, got %v", err)
	}

	// Заказ не изменился.
	stored, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != domain.OrderStatusCreated {
		t.Fatalf("expected creada after rejected transition, got %s", stored.Status)
	}
}

func TestService_UpdateStatusUnknownStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 1, UnitPrice: 10},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, created.ID, "shipped"); !errors.Is(err, domain.ErrUnknownOrderStatus) {
		t.Fatalf("expected ErrUnknownOrderStatus, got %v", err)
	}
}

func TestService_UpdateStatusMissingOrder(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.UpdateStatus(context.Background(), "missing", domain.OrderStatusPaid); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestService_FullLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", []domain.OrderCreateItem{
		{ProductID: "prod-1", Quantity: 1, UnitPrice: 10},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, status := range []domain.OrderStatus{
		domain.OrderStatusPaid,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		if _, err := svc.UpdateStatus(ctx, created.ID, status); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	// Из терминального статуса выхода нет.
	if _, err := svc.UpdateStatus(ctx, created.ID, domain.OrderStatusCancelled); !errors.Is(err, domain.ErrIllegalStatusTransition) {
		t.Fatalf("expected ErrIllegalStatusTransition from entregada, got %v", err)
	}
}

func TestService_ListByUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", []domain.OrderCreateItem{{ProductID: "p", Quantity: 1, UnitPrice: 1}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, "user-2", []domain.OrderCreateItem{{ProductID: "p", Quantity: 1, UnitPrice: 1}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := svc.ListByUser(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
}
