package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
)

func (h HandlerSet) ListWorkflows(c *gin.Context) {
	items, err := h.workflows.ListActive(c.Request.Context())
	if err != nil {
		reqLog(c).Error().Err(err).Msg("list workflows failed")
		detail(c, http.StatusInternalServerError, "Could not load workflows")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workflows": items,
	})
}

func (h HandlerSet) GetWorkflow(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, "Workflow id must be a number")
		return
	}

	item, err := h.workflows.GetActive(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrWorkflowNotFound) {
			detail(c, http.StatusNotFound, "Workflow not found")
			return
		}
		reqLog(c).Error().Err(err).Int64("workflow_id", id).Msg("get workflow failed")
		detail(c, http.StatusInternalServerError, "Could not load workflow")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"workflow": item,
	})
}
