package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

type CustomRequestRepository struct {
	db *sqlx.DB
}

func NewCustomRequestRepository(db *sqlx.DB) *CustomRequestRepository {
	return &CustomRequestRepository{db: db}
}

func (r *CustomRequestRepository) Create(ctx context.Context, record models.CustomRequestRecord) (int64, error) {
	const query = `
		INSERT INTO custom_requests (
			name, email, phone, workflow_description, use_case, budget, timeline, status, created_at
		) VALUES (
			:name, :email, :phone, :workflow_description, :use_case, :budget, :timeline, :status, :created_at
		)
	`

	res, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns requests newest first.
func (r *CustomRequestRepository) List(ctx context.Context, limit, offset int) ([]models.CustomRequestRecord, error) {
	const query = `
		SELECT id, name, email, phone, workflow_description, use_case, budget, timeline, status, created_at
		FROM custom_requests ORDER BY id DESC LIMIT ? OFFSET ?
	`

	records := []models.CustomRequestRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit, offset); err != nil {
		return nil, err
	}
	return records, nil
}
