package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxPage keeps the computed offset inside the range sqlite accepts.
func maxPage(limit int) int {
	return math.MaxInt32/limit + 1
}

func (h HandlerSet) AdminListCustomRequests(c *gin.Context) {
	limit := 50
	offset := 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (min(v, maxPage(limit)) - 1) * limit
		}
	}

	records, err := h.checkoutService.ListCustomRequests(c.Request.Context(), limit, offset)
	if err != nil {
		reqLog(c).Error().Err(err).Msg("list custom requests failed")
		detail(c, http.StatusInternalServerError, "Could not load requests")
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, r := range records {
		items = append(items, gin.H{
			"id":                   r.ID,
			"name":                 r.Name,
			"email":                r.Email,
			"phone":                r.Phone,
			"workflow_description": r.Description,
			"use_case":             r.UseCase,
			"budget":               r.Budget,
			"timeline":             r.Timeline,
			"status":               r.Status,
			"created_at":           r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   items,
	})
}
