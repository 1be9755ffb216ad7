package postgres

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestValidationRepository_PostgresCreateAndGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewValidationRepository(store)

	validation := domain.NewOrderValidation("order-1")
	validation.MarkRuleValidated(domain.RuleUserVerification)
	validation.AddError(domain.RuleStockAvailability, "Insufficient stock for product prod-1. Available: 1, Requested: 2", "quantity", "2")

	if err := repo.Create(*validation); err != nil {
		t.Fatalf("create validation: %v", err)
	}

	got, err := repo.Get(validation.ID)
	if err != nil {
		t.Fatalf("get validation: %v", err)
	}
	if got.OrderID != "order-1" {
		t.Fatalf("expected order-1, got %s", got.OrderID)
	}
	if got.Status != validation.Status {
		t.Fatalf("expected status %s, got %s", validation.Status, got.Status)
	}
	if len(got.ValidatedRules) != 1 || got.ValidatedRules[0] != domain.RuleUserVerification {
		t.Fatalf("unexpected validated rules: %v", got.ValidatedRules)
	}
	if len(got.Errors) != 1 || got.Errors[0].Rule != domain.RuleStockAvailability {
		t.Fatalf("unexpected errors: %+v", got.Errors)
	}
}

func TestValidationRepository_PostgresGetMissing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewValidationRepository(store)

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrValidationNotFound) {
		t.Fatalf("expected ErrValidationNotFound, got %v", err)
	}
}

func TestValidationRepository_PostgresListByOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewValidationRepository(store)

	for i := 0; i < 2; i++ {
		validation := domain.NewOrderValidation("order-1")
		if err := repo.Create(*validation); err != nil {
			t.Fatalf("create validation %d: %v", i, err)
		}
	}
	other := domain.NewOrderValidation("order-2")
	if err := repo.Create(*other); err != nil {
		t.Fatalf("create other validation: %v", err)
	}

	records, err := repo.ListByOrder("order-1")
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.OrderID != "order-1" {
			t.Fatalf("expected order-1 records only, got %s", rec.OrderID)
		}
	}
}
