package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment models.Payment) error {
	const query = `
		INSERT INTO payments (
			reference, access_code, user_id, email, amount, purchase_type, workflow_id, workflow_name, status, created_at
		) VALUES (
			:reference, :access_code, :user_id, :email, :amount, :purchase_type, :workflow_id, :workflow_name, :status, :created_at
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, payment)
	return err
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (models.Payment, error) {
	const query = `
		SELECT reference, access_code, user_id, email, amount, purchase_type, workflow_id, workflow_name, status, created_at
		FROM payments WHERE reference = ?
	`

	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, ErrPaymentNotFound
		}
		return models.Payment{}, err
	}
	return payment, nil
}
