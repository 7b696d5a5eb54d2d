package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/middleware"
	"github.com/newsroomhq/newsroom-backend/pkg/ginutil"
)

// AuditHandler exposes the audit trail to authenticated operators
type AuditHandler struct {
	audit *middleware.AuditLogger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audit *middleware.AuditLogger) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary      List audit entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        actor_id  query  string  false  "Filter by actor"
// @Param        action    query  string  false  "Filter by action"
// @Param        page      query  int     false  "Page number"
// @Param        limit     query  int     false  "Page size"
// @Success      200  {object}  map[string]interface{}
// @Router       /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, total, err := h.audit.List(c.Request.Context(),
		c.Query("actor_id"), c.Query("action"), page, limit)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Failed to fetch audit entries", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"entries":    entries,
		"pagination": common.NewPagination(page, limit, total),
	})
}
