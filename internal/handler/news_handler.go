package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"github.com/newsroomhq/newsroom-backend/internal/middleware"
	"github.com/newsroomhq/newsroom-backend/internal/service"
	"github.com/newsroomhq/newsroom-backend/pkg/ginutil"
)

// NewsHandler handles HTTP requests for the article aggregate lifecycle
type NewsHandler struct {
	news  service.NewsService
	media *service.MediaService
	audit *middleware.AuditLogger
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(news service.NewsService, media *service.MediaService, audit *middleware.AuditLogger) *NewsHandler {
	return &NewsHandler{news: news, media: media, audit: audit}
}

// mediaSidecar is the image_metadata_<index> JSON blob paired with an upload
type mediaSidecar struct {
	Caption      string `json:"caption"`
	Order        int    `json:"order"`
	IsFeatured   bool   `json:"is_featured"`
	HasWatermark bool   `json:"has_watermark"`
	AltText      string `json:"alt_text"`
}

type bulkDeleteRequest struct {
	NewsIDs []int64 `json:"news_ids" binding:"required,min=1"`
}

// Create godoc
// @Summary      Create a news article
// @Description  Creates the full article aggregate from a multipart submission. Publishing is role-gated: a requested "published" status without direct-publish capability is queued for review.
// @Tags         news
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title                form  string  true   "Article title"
// @Param        content              form  string  true   "Raw article body with inline markers"
// @Param        category_ids         form  string  true   "JSON array of category ids"
// @Param        primary_category_id  form  int     true   "Primary category id (must be in category_ids)"
// @Param        author_id            form  int     true   "Author id"
// @Param        status               form  string  false  "Requested status (draft|pending_approval|published|archived)"
// @Success      201  {object}  common.WriteResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	input, err := h.parseInput(c, true)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid submission", err)
		return
	}

	outcome, err := h.news.Create(c.Request.Context(), input, middleware.GetActorRole(c))
	middleware.CountArticleWrite("create", err == nil)
	if err != nil {
		h.writeError(c, "Failed to create article", err)
		return
	}

	h.audit.Log(middleware.GetActorID(c), "create", "news", outcome.NewsID,
		outcome.Slug, c.ClientIP(), middleware.GetRequestID(c))

	common.WriteSuccess(c, http.StatusCreated, "Article created", common.WriteResult{
		NewsID:           outcome.NewsID,
		Slug:             outcome.Slug,
		Status:           string(outcome.Status),
		RequiresApproval: outcome.RequiresApproval,
	})
}

// Update godoc
// @Summary      Update a news article
// @Description  Re-validates and rewrites the aggregate. Category links, quotes and social links are replaced; uploaded media is added to the existing set.
// @Tags         news
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Article id"
// @Success      200  {object}  common.WriteResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid article ID", err)
		return
	}

	input, err := h.parseInput(c, false)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid submission", err)
		return
	}

	outcome, err := h.news.Update(c.Request.Context(), id, input, middleware.GetActorRole(c))
	middleware.CountArticleWrite("update", err == nil)
	if err != nil {
		h.writeError(c, "Failed to update article", err)
		return
	}

	h.audit.Log(middleware.GetActorID(c), "update", "news", id,
		outcome.Slug, c.ClientIP(), middleware.GetRequestID(c))

	common.WriteSuccess(c, http.StatusOK, "Article updated", common.WriteResult{
		NewsID:           outcome.NewsID,
		Slug:             outcome.Slug,
		Status:           string(outcome.Status),
		RequiresApproval: outcome.RequiresApproval,
	})
}

// Get godoc
// @Summary      Get a news article
// @Tags         news
// @Produce      json
// @Param        id  path  int  true  "Article id"
// @Success      200  {object}  repository.AggregateView
// @Failure      404  {object}  map[string]interface{}
// @Router       /news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid article ID", err)
		return
	}

	view, err := h.news.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to fetch article", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"news":    view,
	})
}

// Delete godoc
// @Summary      Delete a news article
// @Description  Removes the article and every dependent record referencing it, reporting rows removed per table.
// @Tags         news
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Article id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid article ID", err)
		return
	}

	deleted, err := h.news.Delete(c.Request.Context(), id)
	middleware.CountArticleWrite("delete", err == nil)
	if err != nil {
		h.writeError(c, "Failed to delete article", err)
		return
	}

	h.audit.Log(middleware.GetActorID(c), "delete", "news", id,
		"", c.ClientIP(), middleware.GetRequestID(c))

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Article deleted",
		"action":          "delete",
		"deleted_records": deleted,
	})
}

// BulkDelete godoc
// @Summary      Delete multiple news articles
// @Description  Each article is its own unit of work; one bad id never aborts the batch. Always answers 200 with a success/failed partition.
// @Tags         news
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /news/bulk-delete [post]
func (h *NewsHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := h.news.BulkDelete(c.Request.Context(), req.NewsIDs)

	h.audit.Log(middleware.GetActorID(c), "bulk_delete", "news", 0,
		fmt.Sprintf("%d requested, %d deleted", len(req.NewsIDs), len(result.Success)),
		c.ClientIP(), middleware.GetRequestID(c))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": result,
	})
}

// parseInput assembles the validated write payload from the multipart form.
// Media attachments are ingested here so the news service only ever sees
// already-uploaded tuples.
func (h *NewsHandler) parseInput(c *gin.Context, create bool) (*domain.NewsInput, error) {
	input := &domain.NewsInput{
		Title:           c.PostForm("title"),
		Content:         c.PostForm("content"),
		Excerpt:         c.PostForm("excerpt"),
		Priority:        c.PostForm("priority"),
		Tags:            c.PostForm("tags"),
		MetaDescription: c.PostForm("meta_description"),
		SEOKeywords:     c.PostForm("seo_keywords"),
		RequestedStatus: domain.Status(c.PostForm("status")),
	}

	if raw := c.PostForm("category_ids"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.CategoryIDs); err != nil {
			return nil, fmt.Errorf("category_ids must be a JSON array: %w", err)
		}
	}

	if raw := c.PostForm("primary_category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("primary_category_id must be numeric: %w", err)
		}
		input.PrimaryCategoryID = id
	}

	if create {
		if raw := c.PostForm("author_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("author_id must be numeric: %w", err)
			}
			input.AuthorID = id
		}
	}

	if raw := c.PostForm("social_media_links"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.SocialLinks); err != nil {
			return nil, fmt.Errorf("social_media_links must be a JSON array: %w", err)
		}
	}

	media, err := h.ingestAttachments(c)
	if err != nil {
		return nil, err
	}
	input.Media = media

	return input, nil
}

// ingestAttachments uploads every attached image, pairing it with its
// image_metadata_<index> sidecar when one is present
func (h *NewsHandler) ingestAttachments(c *gin.Context) ([]domain.MediaPayload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// plain form submission without attachments
		return nil, nil
	}

	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}
	if h.media == nil {
		return nil, fmt.Errorf("media ingestion not configured")
	}

	payloads := make([]domain.MediaPayload, 0, len(files))
	for i, fh := range files {
		payload, err := h.media.Ingest(c.Request.Context(), fh)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}

		if raw := c.PostForm(fmt.Sprintf("image_metadata_%d", i)); raw != "" {
			var sidecar mediaSidecar
			if err := json.Unmarshal([]byte(raw), &sidecar); err != nil {
				return nil, fmt.Errorf("image_metadata_%d is not valid JSON: %w", i, err)
			}
			payload.Caption = sidecar.Caption
			payload.Order = sidecar.Order
			payload.IsFeatured = sidecar.IsFeatured
			payload.HasWatermark = sidecar.HasWatermark
			payload.AltText = sidecar.AltText
		} else {
			payload.Order = i
		}

		payloads = append(payloads, *payload)
	}

	return payloads, nil
}

// writeError maps business errors onto the HTTP taxonomy
func (h *NewsHandler) writeError(c *gin.Context, message string, err error) {
	switch {
	case common.IsValidationError(err):
		common.Fail(c, http.StatusBadRequest, message, err)
	case errors.Is(err, common.ErrDuplicateSlug):
		common.Fail(c, http.StatusConflict, message, err)
	case errors.Is(err, common.ErrNewsNotFound), errors.Is(err, common.ErrCategoryNotFound):
		common.Fail(c, http.StatusNotFound, message, err)
	default:
		common.Fail(c, http.StatusInternalServerError, message, err)
	}
}
