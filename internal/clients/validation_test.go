package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestValidationClient_ValidateApproved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/validations/validate" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body validationRequestWire
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.OrderID != "order-1" || body.Total != 25 {
			t.Fatalf("unexpected request body: %+v", body)
		}
		if len(body.Items) != 1 || body.Items[0].ProductID != "prod-1" {
			t.Fatalf("items not forwarded: %+v", body.Items)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(validationResultWire{
			ValidationID: "val-1",
			OrderID:      "order-1",
			IsValid:      true,
			Message:      "Order validation passed",
		})
	}))
	defer server.Close()

	client := NewValidationClient(server.URL, nil)
	result, err := client.Validate(context.Background(), domain.ValidationRequest{
		OrderID: "order-1",
		UserID:  "user-1",
		Items:   []domain.OrderCreateItem{{ProductID: "prod-1", Quantity: 2, UnitPrice: 12.5}},
		Total:   25,
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if result.ValidationID != "val-1" {
		t.Fatalf("unexpected validation id: %s", result.ValidationID)
	}
}

func TestValidationClient_ValidateRejected(t *testing.T) {
	// Бизнес-отказ приходит как 200 с is_valid=false и структурированными
	// ошибками правил; ошибкой вызова он не является.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(validationResultWire{
			ValidationID: "val-2",
			OrderID:      "order-1",
			IsValid:      false,
			Errors: []validationErrorWire{
				{Rule: "stock_availability", Message: "Insufficient stock for product prod-1. Available: 1, Requested: 2", Field: "quantity"},
			},
			Message: "Order validation failed",
		})
	}))
	defer server.Close()

	client := NewValidationClient(server.URL, nil)
	result, err := client.Validate(context.Background(), domain.ValidationRequest{OrderID: "order-1"})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected rejected result")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if result.Errors[0].Rule != domain.RuleStockAvailability {
		t.Fatalf("unexpected rule: %s", result.Errors[0].Rule)
	}
}

func TestValidationClient_ValidateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewValidationClient(server.URL, nil)
	if _, err := client.Validate(context.Background(), domain.ValidationRequest{}); err == nil {
		t.Fatal("expected error on 503")
	}
}
