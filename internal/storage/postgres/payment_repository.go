package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository создаёт PostgreSQL-реализацию PaymentRepository.
func NewPaymentRepository(store *Store) domain.PaymentRepository {
	return &paymentRepository{db: store.DB()}
}

func (r *paymentRepository) Create(payment domain.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (
			id, order_id, user_id, amount, method, status,
			reference_number, gateway_transaction_id, currency, description,
			gateway_response, failure_reason, created_at, updated_at, processed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		payment.ID, payment.OrderID, payment.UserID, payment.Amount,
		string(payment.Method), string(payment.Status),
		payment.ReferenceNumber, payment.GatewayTransactionID,
		payment.Currency, payment.Description,
		nullableJSON(payment.GatewayResponse), payment.FailureReason,
		payment.CreatedAt, payment.UpdatedAt, nullableTime(payment.ProcessedAt),
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) Get(id string) (domain.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		payment     domain.Payment
		method      string
		status      string
		gatewayResp []byte
		processedAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, user_id, amount, method, status,
		       reference_number, gateway_transaction_id, currency, description,
		       gateway_response, failure_reason, created_at, updated_at, processed_at
		FROM payments
		WHERE id = $1
	`, id).Scan(
		&payment.ID, &payment.OrderID, &payment.UserID, &payment.Amount,
		&method, &status,
		&payment.ReferenceNumber, &payment.GatewayTransactionID,
		&payment.Currency, &payment.Description,
		&gatewayResp, &payment.FailureReason,
		&payment.CreatedAt, &payment.UpdatedAt, &processedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Payment{}, domain.ErrPaymentNotFound
		}
		return domain.Payment{}, fmt.Errorf("select payment: %w", err)
	}

	payment.Method = domain.PaymentMethod(method)
	payment.Status = domain.PaymentStatus(status)
	payment.GatewayResponse = gatewayResp
	if processedAt.Valid {
		payment.ProcessedAt = processedAt.Time.UTC()
	}

	return payment, nil
}

func (r *paymentRepository) Update(payment domain.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1,
		    gateway_transaction_id = $2,
		    gateway_response = $3,
		    failure_reason = $4,
		    updated_at = $5,
		    processed_at = $6
		WHERE id = $7
	`,
		string(payment.Status),
		payment.GatewayTransactionID,
		nullableJSON(payment.GatewayResponse),
		payment.FailureReason,
		payment.UpdatedAt,
		nullableTime(payment.ProcessedAt),
		payment.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

var _ domain.PaymentRepository = (*paymentRepository)(nil)
