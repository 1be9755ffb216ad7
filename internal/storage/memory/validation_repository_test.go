package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func TestValidationRepository_CreateGet(t *testing.T) {
	repo := memory.NewValidationRepository()

	validation := domain.NewOrderValidation("order-1")
	if err := repo.Create(*validation); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(validation.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.OrderID != "order-1" {
		t.Fatalf("expected order-1, got %s", stored.OrderID)
	}
}

func TestValidationRepository_GetMissing(t *testing.T) {
	repo := memory.NewValidationRepository()

	if _, err := repo.Get("missing"); err != domain.ErrValidationNotFound {
		t.Fatalf("expected ErrValidationNotFound, got %v", err)
	}
}

func TestValidationRepository_ListByOrderKeepsHistory(t *testing.T) {
	repo := memory.NewValidationRepository()

	first := domain.NewOrderValidation("order-1")
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	if err := repo.Create(*first); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second := domain.NewOrderValidation("order-1")
	second.AddError(domain.RuleStockAvailability, "Insufficient stock for product prod-1. Available: 0, Requested: 2", "stock", "prod-1")
	if err := repo.Create(*second); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	history, err := repo.ListByOrder("order-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 validations, got %d", len(history))
	}
	// Хронологический порядок: старые первыми.
	if history[0].ID != first.ID {
		t.Fatalf("expected %s first, got %s", first.ID, history[0].ID)
	}
	if len(history[1].Errors) != 1 {
		t.Fatalf("expected 1 error on second validation, got %d", len(history[1].Errors))
	}
}

func TestValidationRepository_ListByOrderEmpty(t *testing.T) {
	repo := memory.NewValidationRepository()

	history, err := repo.ListByOrder("order-unknown")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}
}
