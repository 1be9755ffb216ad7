package domain

import (
	"time"

	"github.com/google/uuid"
)

// ValidationStatus описывает вердикт проверки заказа.
type ValidationStatus string

const (
	ValidationStatusPending  ValidationStatus = "pending"
	ValidationStatusApproved ValidationStatus = "approved"
	ValidationStatusRejected ValidationStatus = "rejected"
)

// ValidationRule — одна независимая проверка заказа.
type ValidationRule string

const (
	RuleUserVerification    ValidationRule = "user_verification"
	RuleProductAvailability ValidationRule = "product_availability"
	RuleStockAvailability   ValidationRule = "stock_availability"
	RulePriceValidation     ValidationRule = "price_validation"
)

// RequiredRules — фиксированный набор правил; вердикт approved требует все четыре.
var RequiredRules = []ValidationRule{
	RuleUserVerification,
	RuleProductAvailability,
	RuleStockAvailability,
	RulePriceValidation,
}

// ValidationError — структурированная ошибка одного правила.
type ValidationError struct {
	Rule    ValidationRule `json:"rule"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Value   string         `json:"value,omitempty"`
}

// OrderValidation — запись одной валидации заказа. Повторная валидация
// создаёт новую запись, уникальность по заказу не гарантируется.
type OrderValidation struct {
	ID             string
	OrderID        string
	Status         ValidationStatus
	ValidatedRules []ValidationRule
	Errors         []ValidationError
	ValidatedBy    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOrderValidation создаёт запись в статусе pending.
func NewOrderValidation(orderID string) *OrderValidation {
	now := time.Now().UTC()
	return &OrderValidation{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Status:    ValidationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddError добавляет ошибку правила. Любая ошибка переводит запись в rejected.
func (v *OrderValidation) AddError(rule ValidationRule, message, field, value string) {
	v.Errors = append(v.Errors, ValidationError{
		Rule:    rule,
		Message: message,
		Field:   field,
		Value:   value,
	})
	v.Status = ValidationStatusRejected
	v.UpdatedAt = time.Now().UTC()
}

// MarkRuleValidated отмечает правило выполненным (идемпотентно).
func (v *OrderValidation) MarkRuleValidated(rule ValidationRule) {
	for _, r := range v.ValidatedRules {
		if r == rule {
			return
		}
	}
	v.ValidatedRules = append(v.ValidatedRules, rule)
	v.UpdatedAt = time.Now().UTC()
}

// Approve утверждает валидацию. Отказывается, если есть хотя бы одна ошибка.
func (v *OrderValidation) Approve(validatedBy string) {
	if len(v.Errors) > 0 {
		return
	}
	v.Status = ValidationStatusApproved
	v.ValidatedBy = validatedBy
	v.UpdatedAt = time.Now().UTC()
}

// Reject отклоняет валидацию.
func (v *OrderValidation) Reject(validatedBy string) {
	v.Status = ValidationStatusRejected
	v.ValidatedBy = validatedBy
	v.UpdatedAt = time.Now().UTC()
}

// IsComplete сообщает, отработали ли все обязательные правила.
func (v *OrderValidation) IsComplete() bool {
	for _, required := range RequiredRules {
		found := false
		for _, r := range v.ValidatedRules {
			if r == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// HasRuleError сообщает, есть ли ошибки конкретного правила.
func (v *OrderValidation) HasRuleError(rule ValidationRule) bool {
	for _, e := range v.Errors {
		if e.Rule == rule {
			return true
		}
	}
	return false
}
