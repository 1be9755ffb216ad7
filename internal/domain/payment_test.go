package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func makePayment() *domain.Payment {
	return domain.NewPayment("order-1", "user-1", 100, domain.PaymentMethodCreditCard, "USD", "test payment")
}

func TestNewPayment_Defaults(t *testing.T) {
	payment := makePayment()

	if payment.ID == "" {
		t.Fatal("expected generated payment id")
	}
	if payment.Status != domain.PaymentStatusPending {
		t.Fatalf("expected pendiente, got %s", payment.Status)
	}
	if payment.ReferenceNumber == "" {
		t.Fatal("expected generated reference number")
	}
	if !payment.ProcessedAt.IsZero() {
		t.Fatal("expected zero ProcessedAt before processing")
	}
}

func TestPaymentApprove(t *testing.T) {
	payment := makePayment()
	response := json.RawMessage(`{"status":"ok"}`)

	payment.Approve("TXN_ABC123", response)

	if payment.Status != domain.PaymentStatusApproved {
		t.Fatalf("expected aprobado, got %s", payment.Status)
	}
	if payment.GatewayTransactionID != "TXN_ABC123" {
		t.Fatalf("unexpected gateway tx id: %s", payment.GatewayTransactionID)
	}
	if payment.ProcessedAt.IsZero() {
		t.Fatal("expected ProcessedAt to be set")
	}
	if !payment.IsSuccessful() {
		t.Fatal("approved payment should be successful")
	}
}

func TestPaymentReject(t *testing.T) {
	payment := makePayment()

	payment.Reject("CARD_DECLINED", nil)

	if payment.Status != domain.PaymentStatusRejected {
		t.Fatalf("expected rechazado, got %s", payment.Status)
	}
	if payment.FailureReason != "CARD_DECLINED" {
		t.Fatalf("unexpected failure reason: %s", payment.FailureReason)
	}
	if payment.IsSuccessful() {
		t.Fatal("rejected payment should not be successful")
	}
}

func TestPaymentRefund_OnlyFromApproved(t *testing.T) {
	payment := makePayment()

	if err := payment.Refund("REF_1"); err != domain.ErrPaymentNotRefundable {
		t.Fatalf("expected ErrPaymentNotRefundable for pendiente, got %v", err)
	}
	if payment.CanBeRefunded() {
		t.Fatal("pendiente payment should not be refundable")
	}

	payment.Approve("TXN_1", nil)
	if !payment.CanBeRefunded() {
		t.Fatal("aprobado payment should be refundable")
	}
	if err := payment.Refund("REF_1"); err != nil {
		t.Fatalf("refund of approved payment failed: %v", err)
	}
	if payment.Status != domain.PaymentStatusRefunded {
		t.Fatalf("expected reembolsado, got %s", payment.Status)
	}
	if payment.GatewayTransactionID != "REF_1" {
		t.Fatalf("expected refund tx id, got %s", payment.GatewayTransactionID)
	}

	// Повторный возврат запрещён.
	if err := payment.Refund("REF_2"); err != domain.ErrPaymentNotRefundable {
		t.Fatalf("expected ErrPaymentNotRefundable for double refund, got %v", err)
	}
}

func TestPaymentMethod(t *testing.T) {
	valid := []domain.PaymentMethod{
		domain.PaymentMethodCreditCard,
		domain.PaymentMethodDebitCard,
		domain.PaymentMethodPayPal,
		domain.PaymentMethodBankTransfer,
		domain.PaymentMethodCash,
	}
	for _, m := range valid {
		if !m.Valid() {
			t.Errorf("method %s should be valid", m)
		}
	}
	if domain.PaymentMethod("bitcoin").Valid() {
		t.Error("unknown method should be invalid")
	}

	if !domain.PaymentMethodCreditCard.IsCard() || !domain.PaymentMethodDebitCard.IsCard() {
		t.Error("card methods should report IsCard")
	}
	if domain.PaymentMethodCash.IsCard() {
		t.Error("cash should not report IsCard")
	}
}

func TestPaymentValidate(t *testing.T) {
	payment := makePayment()
	if errs := payment.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	bad := domain.NewPayment("", "", 0, "bitcoin", "USD", "")
	errs := bad.Validate()
	if len(errs) != 4 {
		t.Fatalf("expected 4 validation errors, got %d: %v", len(errs), errs)
	}
}
