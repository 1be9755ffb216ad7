package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type validationRepository struct {
	db *sql.DB
}

// NewValidationRepository создаёт PostgreSQL-реализацию ValidationRepository.
// Проверенные правила и ошибки хранятся как JSONB: состав правил меняется
// чаще, чем хочется менять схему.
func NewValidationRepository(store *Store) domain.ValidationRepository {
	return &validationRepository{db: store.DB()}
}

func (r *validationRepository) Create(validation domain.OrderValidation) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rules, err := json.Marshal(validation.ValidatedRules)
	if err != nil {
		return fmt.Errorf("marshal validated rules: %w", err)
	}
	verrs, err := json.Marshal(validation.Errors)
	if err != nil {
		return fmt.Errorf("marshal validation errors: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO order_validations (
			id, order_id, status, validated_rules, errors, validated_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		validation.ID, validation.OrderID, string(validation.Status),
		rules, verrs, validation.ValidatedBy,
		validation.CreatedAt, validation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order validation: %w", err)
	}

	return nil
}

func (r *validationRepository) Get(id string) (domain.OrderValidation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, status, validated_rules, errors, validated_by, created_at, updated_at
		FROM order_validations
		WHERE id = $1
	`, id)

	validation, err := scanValidation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderValidation{}, domain.ErrValidationNotFound
		}
		return domain.OrderValidation{}, err
	}

	return validation, nil
}

func (r *validationRepository) ListByOrder(orderID string) ([]domain.OrderValidation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, status, validated_rules, errors, validated_by, created_at, updated_at
		FROM order_validations
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order validations: %w", err)
	}
	defer rows.Close()

	validations := make([]domain.OrderValidation, 0)
	for rows.Next() {
		validation, err := scanValidation(rows)
		if err != nil {
			return nil, err
		}
		validations = append(validations, validation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order validations: %w", err)
	}

	return validations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanValidation(row rowScanner) (domain.OrderValidation, error) {
	var (
		validation domain.OrderValidation
		status     string
		rules      []byte
		verrs      []byte
	)

	if err := row.Scan(
		&validation.ID, &validation.OrderID, &status,
		&rules, &verrs, &validation.ValidatedBy,
		&validation.CreatedAt, &validation.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderValidation{}, err
		}
		return domain.OrderValidation{}, fmt.Errorf("scan order validation: %w", err)
	}
	validation.Status = domain.ValidationStatus(status)

	if len(rules) > 0 {
		if err := json.Unmarshal(rules, &validation.ValidatedRules); err != nil {
			return domain.OrderValidation{}, fmt.Errorf("unmarshal validated rules: %w", err)
		}
	}
	if len(verrs) > 0 {
		if err := json.Unmarshal(verrs, &validation.Errors); err != nil {
			return domain.OrderValidation{}, fmt.Errorf("unmarshal validation errors: %w", err)
		}
	}

	return validation, nil
}

var _ domain.ValidationRepository = (*validationRepository)(nil)
