package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"github.com/newsroomhq/newsroom-backend/internal/middleware"
	"github.com/newsroomhq/newsroom-backend/internal/repository"
	"github.com/newsroomhq/newsroom-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNewsService struct {
	mock.Mock
}

func (m *mockNewsService) Create(ctx context.Context, input *domain.NewsInput, actorRole string) (*domain.WriteOutcome, error) {
	args := m.Called(ctx, input, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WriteOutcome), args.Error(1)
}

func (m *mockNewsService) Update(ctx context.Context, id int64, input *domain.NewsInput, actorRole string) (*domain.WriteOutcome, error) {
	args := m.Called(ctx, id, input, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WriteOutcome), args.Error(1)
}

func (m *mockNewsService) Delete(ctx context.Context, id int64) (domain.DeletedRecords, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DeletedRecords), args.Error(1)
}

func (m *mockNewsService) BulkDelete(ctx context.Context, ids []int64) *service.BulkDeleteResult {
	args := m.Called(ctx, ids)
	return args.Get(0).(*service.BulkDeleteResult)
}

func (m *mockNewsService) Get(ctx context.Context, id int64) (*repository.AggregateView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AggregateView), args.Error(1)
}

func setupNewsRouter(svc service.NewsService, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNewsHandler(svc, nil, middleware.NewAuditLogger(nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("actorID", "u-100")
		c.Set("actorRole", role)
	})
	r.POST("/api/v1/news", h.Create)
	r.PUT("/api/v1/news/:id", h.Update)
	r.DELETE("/api/v1/news/:id", h.Delete)
	r.POST("/api/v1/news/bulk-delete", h.BulkDelete)
	return r
}

func multipartSubmission(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateHandler_EditorPublishQueued(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "editor")

	svc.On("Create", mock.Anything, mock.Anything, "editor").
		Return(&domain.WriteOutcome{
			NewsID:           42,
			Slug:             "harbor-expansion-1756200000000",
			Status:           domain.StatusPendingApproval,
			RequiresApproval: true,
		}, nil)

	body, contentType := multipartSubmission(t, map[string]string{
		"title":               "Harbor Expansion",
		"content":             "body text",
		"category_ids":        "[3,7]",
		"primary_category_id": "7",
		"author_id":           "7",
		"status":              "published",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp common.WriteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(42), resp.NewsID)
	assert.Equal(t, "pending_approval", resp.Status)
	assert.True(t, resp.RequiresApproval)

	// the parsed form reached the service intact
	input := svc.Calls[0].Arguments.Get(1).(*domain.NewsInput)
	assert.Equal(t, []int64{3, 7}, input.CategoryIDs)
	assert.Equal(t, int64(7), input.PrimaryCategoryID)
	assert.Equal(t, domain.StatusPublished, input.RequestedStatus)
}

func TestCreateHandler_MalformedCategoryIDs(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "admin")

	body, contentType := multipartSubmission(t, map[string]string{
		"title":        "x",
		"content":      "y",
		"category_ids": "not-json",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateHandler_ValidationErrorIs400(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "admin")

	svc.On("Create", mock.Anything, mock.Anything, "admin").
		Return(nil, common.ErrPrimaryNotInSet)

	body, contentType := multipartSubmission(t, map[string]string{
		"title":               "x",
		"content":             "y",
		"category_ids":        "[3]",
		"primary_category_id": "7",
		"author_id":           "1",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCreateHandler_DuplicateSlugIs409(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "admin")

	svc.On("Create", mock.Anything, mock.Anything, "admin").
		Return(nil, common.ErrDuplicateSlug)

	body, contentType := multipartSubmission(t, map[string]string{
		"title":               "x",
		"content":             "y",
		"category_ids":        "[3]",
		"primary_category_id": "3",
		"author_id":           "1",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteHandler(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "admin")

	svc.On("Delete", mock.Anything, int64(42)).
		Return(domain.DeletedRecords{"news": 1, "news_categories": 2}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/news/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "delete", resp["action"])
	records := resp["deleted_records"].(map[string]interface{})
	assert.Equal(t, float64(2), records["news_categories"])
}

func TestDeleteHandler_NotFound(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "admin")

	svc.On("Delete", mock.Anything, int64(9999)).
		Return(nil, common.ErrNewsNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/news/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkDeleteHandler_PartitionsResults(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "admin")

	svc.On("BulkDelete", mock.Anything, []int64{5, 9999}).
		Return(&service.BulkDeleteResult{
			Success: []service.BulkDeleteItem{{ID: 5}},
			Failed:  []service.BulkDeleteItem{{ID: 9999, Reason: "Not found"}},
		})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news/bulk-delete",
		strings.NewReader(`{"news_ids":[5,9999]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// one bad id never fails the batch
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Results service.BulkDeleteResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results.Success, 1)
	assert.Equal(t, int64(5), resp.Results.Success[0].ID)
	require.Len(t, resp.Results.Failed, 1)
	assert.Equal(t, "Not found", resp.Results.Failed[0].Reason)
}

func TestBulkDeleteHandler_EmptyBody(t *testing.T) {
	svc := new(mockNewsService)
	router := setupNewsRouter(svc, "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news/bulk-delete",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "BulkDelete", mock.Anything, mock.Anything)
}
