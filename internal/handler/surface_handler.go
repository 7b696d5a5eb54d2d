package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsroomhq/newsroom-backend/internal/service"
	"github.com/newsroomhq/newsroom-backend/pkg/ginutil"
)

// SurfaceHandler handles the breaking and pinned read surfaces
type SurfaceHandler struct {
	surfaces service.SurfaceService
}

// NewSurfaceHandler creates a new SurfaceHandler
func NewSurfaceHandler(surfaces service.SurfaceService) *SurfaceHandler {
	return &SurfaceHandler{surfaces: surfaces}
}

// Breaking godoc
// @Summary      Breaking news surface
// @Description  Active breaking promotions joined to published articles, ordered by priority tier. Degrades to an empty list on backend failure, never 500s the page.
// @Tags         surfaces
// @Produce      json
// @Param        page   query  int  false  "Page number"  default(1)
// @Param        limit  query  int  false  "Items per page (max 100)"  default(50)
// @Success      200  {object}  map[string]interface{}
// @Router       /news/breaking [get]
func (h *SurfaceHandler) Breaking(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 0)

	result := h.surfaces.Breaking(c.Request.Context(), page, limit)

	// breakingNews duplicates news for older clients
	c.JSON(http.StatusOK, gin.H{
		"success":      result.Success,
		"news":         result.News,
		"breakingNews": result.News,
		"pagination":   result.Pagination,
	})
}

// Pinned godoc
// @Summary      Pinned news surface
// @Description  Active pinned promotions joined to published articles, ordered by manual position then tier. Optional category slug filter.
// @Tags         surfaces
// @Produce      json
// @Param        page      query  int     false  "Page number"  default(1)
// @Param        limit     query  int     false  "Items per page (max 100)"  default(50)
// @Param        category  query  string  false  "Primary category slug filter"
// @Success      200  {object}  map[string]interface{}
// @Router       /news/pinned [get]
func (h *SurfaceHandler) Pinned(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 0)
	category := c.Query("category")

	result := h.surfaces.Pinned(c.Request.Context(), page, limit, category)

	c.JSON(http.StatusOK, gin.H{
		"success":    result.Success,
		"news":       result.News,
		"pinnedNews": result.News,
		"pagination": result.Pagination,
	})
}
