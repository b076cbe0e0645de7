package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

type catalogEnvelope struct {
	Success   bool                 `json:"success"`
	Workflows []models.CatalogItem `json:"workflows"`
}

type workflowEnvelope struct {
	Success  bool                `json:"success"`
	Workflow *models.CatalogItem `json:"workflow"`
}

// FetchCatalog returns every active workflow.
func (c *Client) FetchCatalog(ctx context.Context) Result[[]models.CatalogItem] {
	raw, info := c.do(ctx, http.MethodGet, "/api/workflows", nil, "")
	if info != nil {
		return fail[[]models.CatalogItem](info)
	}

	var env catalogEnvelope
	if info := decode(raw, &env); info != nil {
		return fail[[]models.CatalogItem](info)
	}
	if env.Workflows == nil {
		env.Workflows = []models.CatalogItem{}
	}
	return succeed(env.Workflows)
}

func (c *Client) FetchWorkflow(ctx context.Context, id int64) Result[models.CatalogItem] {
	raw, info := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/workflows/%d", id), nil, "")
	if info != nil {
		return fail[models.CatalogItem](info)
	}

	var env workflowEnvelope
	if info := decode(raw, &env); info != nil {
		return fail[models.CatalogItem](info)
	}
	if env.Workflow == nil {
		return fail[models.CatalogItem](&ErrorInfo{Kind: ErrRejected, Message: "workflow not found"})
	}
	return succeed(*env.Workflow)
}
