package memory_test

import (
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func TestPaymentRepository_CreateGet(t *testing.T) {
	repo := memory.NewPaymentRepository()

	payment := domain.NewPayment("order-1", "user-1", 150.0, domain.PaymentMethodCash, "USD", "")
	if err := repo.Create(*payment); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(payment.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != domain.PaymentStatusPending {
		t.Fatalf("expected pendiente, got %s", stored.Status)
	}
	if stored.ReferenceNumber == "" {
		t.Fatal("expected generated reference number")
	}
}

func TestPaymentRepository_GetMissing(t *testing.T) {
	repo := memory.NewPaymentRepository()

	if _, err := repo.Get("missing"); err != domain.ErrPaymentNotFound {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestPaymentRepository_Update(t *testing.T) {
	repo := memory.NewPaymentRepository()

	payment := domain.NewPayment("order-1", "user-1", 150.0, domain.PaymentMethodPayPal, "USD", "")
	if err := repo.Create(*payment); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	payment.Approve("PP_ABC", nil)
	if err := repo.Update(*payment); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, err := repo.Get(payment.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != domain.PaymentStatusApproved {
		t.Fatalf("expected aprobado, got %s", stored.Status)
	}
	if stored.GatewayTransactionID != "PP_ABC" {
		t.Fatalf("expected transaction id PP_ABC, got %s", stored.GatewayTransactionID)
	}
}

func TestPaymentRepository_UpdateMissing(t *testing.T) {
	repo := memory.NewPaymentRepository()

	payment := domain.NewPayment("order-1", "user-1", 150.0, domain.PaymentMethodCash, "USD", "")
	if err := repo.Update(*payment); err != domain.ErrPaymentNotFound {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
