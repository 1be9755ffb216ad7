package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestNewOrderValidation_Defaults(t *testing.T) {
	v := domain.NewOrderValidation("order-1")

	if v.ID == "" {
		t.Fatal("expected generated validation id")
	}
	if v.OrderID != "order-1" {
		t.Fatalf("unexpected order id: %s", v.OrderID)
	}
	if v.Status != domain.ValidationStatusPending {
		t.Fatalf("expected pending, got %s", v.Status)
	}
	if v.IsComplete() {
		t.Fatal("fresh validation should not be complete")
	}
}

func TestOrderValidation_CompleteAfterAllRules(t *testing.T) {
	v := domain.NewOrderValidation("order-1")

	for _, rule := range domain.RequiredRules {
		v.MarkRuleValidated(rule)
	}
	if !v.IsComplete() {
		t.Fatal("validation with all rules marked should be complete")
	}
}

func TestOrderValidation_ApproveRefusesWithErrors(t *testing.T) {
	v := domain.NewOrderValidation("order-1")
	v.AddError(domain.RuleStockAvailability, "insufficient stock", "quantity", "99")

	v.Approve("validation-engine")
	if v.Status != domain.ValidationStatusPending {
		t.Fatalf("approve with errors should be ignored, got %s", v.Status)
	}

	v.Reject("validation-engine")
	if v.Status != domain.ValidationStatusRejected {
		t.Fatalf("expected rejected, got %s", v.Status)
	}
	if v.ValidatedBy != "validation-engine" {
		t.Fatalf("unexpected ValidatedBy: %s", v.ValidatedBy)
	}
}

func TestOrderValidation_ApproveWithoutErrors(t *testing.T) {
	v := domain.NewOrderValidation("order-1")
	for _, rule := range domain.RequiredRules {
		v.MarkRuleValidated(rule)
	}

	v.Approve("validation-engine")
	if v.Status != domain.ValidationStatusApproved {
		t.Fatalf("expected approved, got %s", v.Status)
	}
}

func TestOrderValidation_HasRuleError(t *testing.T) {
	v := domain.NewOrderValidation("order-1")
	v.AddError(domain.RuleUserVerification, "user is inactive", "user_id", "user-2")

	if !v.HasRuleError(domain.RuleUserVerification) {
		t.Error("expected rule error for user_verification")
	}
	if v.HasRuleError(domain.RulePriceValidation) {
		t.Error("did not expect rule error for price_validation")
	}
}
