package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

type WorkflowRepository struct {
	db *sqlx.DB
}

func NewWorkflowRepository(db *sqlx.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

type workflowRow struct {
	models.CatalogItem
	TagList string `db:"tags"`
}

func (r workflowRow) item() models.CatalogItem {
	item := r.CatalogItem
	if r.TagList != "" {
		item.Tags = strings.Split(r.TagList, ",")
	}
	return item
}

const workflowColumns = `id, name, category, icon, description, price, tags, is_active`

func (r *WorkflowRepository) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	const query = `SELECT ` + workflowColumns + ` FROM workflows WHERE is_active = 1 ORDER BY id`

	var rows []workflowRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.item())
	}
	return items, nil
}

// GetActive returns the workflow with id if it is on sale.
func (r *WorkflowRepository) GetActive(ctx context.Context, id int64) (models.CatalogItem, error) {
	const query = `SELECT ` + workflowColumns + ` FROM workflows WHERE id = ? AND is_active = 1`

	var row workflowRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CatalogItem{}, ErrWorkflowNotFound
		}
		return models.CatalogItem{}, err
	}
	return row.item(), nil
}

func (r *WorkflowRepository) Create(ctx context.Context, item models.CatalogItem) (int64, error) {
	const query = `
		INSERT INTO workflows (name, category, icon, description, price, tags, is_active)
		VALUES (:name, :category, :icon, :description, :price, :tags, :is_active)
	`

	res, err := r.db.NamedExecContext(ctx, query, workflowRow{CatalogItem: item, TagList: strings.Join(item.Tags, ",")})
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SeedDemo fills an empty catalog with the demo workflows.
func (r *WorkflowRepository) SeedDemo(ctx context.Context) error {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM workflows`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, item := range DemoCatalog() {
		if _, err := r.Create(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func DemoCatalog() []models.CatalogItem {
	price := decimal.RequireFromString
	return []models.CatalogItem{
		{Name: "Invoice Bot", Category: "Finance", Icon: "🧾", Price: price("149"), IsActive: true,
			Description: "Reads supplier invoices from email and posts them to your ledger.", Tags: []string{"email", "accounting"}},
		{Name: "Lead Router", Category: "Sales", Icon: "📈", Price: price("199"), IsActive: true,
			Description: "Scores inbound leads and assigns them to the right rep.", Tags: []string{"crm"}},
		{Name: "Inbox Triage", Category: "Operations", Icon: "📬", Price: price("99"), IsActive: true,
			Description: "Labels, summarises and routes a shared inbox."},
		{Name: "WhatsApp Order Desk", Category: "E-commerce", Icon: "💬", Price: price("249"), IsActive: true,
			Description: "Takes orders over WhatsApp and syncs them to your store.", Tags: []string{"whatsapp", "orders"}},
		{Name: "Social Scheduler", Category: "Marketing", Icon: "📅", Price: price("129"), IsActive: true,
			Description: "Plans and publishes posts across your social accounts."},
		{Name: "Payroll Reminder", Category: "HR", Icon: "⏰", Price: price("79"), IsActive: false,
			Description: "Retired."},
	}
}
