package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"github.com/newsroomhq/newsroom-backend/internal/ranking"
	"github.com/newsroomhq/newsroom-backend/internal/repository"
	"github.com/newsroomhq/newsroom-backend/pkg/cache"
	pkglogger "github.com/newsroomhq/newsroom-backend/pkg/logger"
)

const (
	defaultSurfaceLimit = 50
	maxSurfaceLimit     = 100
)

// SurfaceResult is the normalized surface payload. On any underlying
// failure Success is false and News is empty; the surface never propagates
// a fault to the page.
type SurfaceResult struct {
	Success    bool                    `json:"success"`
	News       []domain.SurfaceArticle `json:"news"`
	Pagination common.Pagination       `json:"pagination"`
}

// SurfaceService answers the breaking and pinned read surfaces
type SurfaceService interface {
	Breaking(ctx context.Context, page, limit int) *SurfaceResult
	Pinned(ctx context.Context, page, limit int, categorySlug string) *SurfaceResult
}

type surfaceService struct {
	promos repository.PromotionRepository
	cache  cache.Service
}

// NewSurfaceService creates a new SurfaceService
func NewSurfaceService(promos repository.PromotionRepository, cacheService cache.Service) SurfaceService {
	return &surfaceService{promos: promos, cache: cacheService}
}

// Breaking returns the breaking surface: active promotions joined to their
// published articles, ordered by priority tier, scored at query time
func (s *surfaceService) Breaking(ctx context.Context, page, limit int) *SurfaceResult {
	page, limit = clampPaging(page, limit)

	if cached := s.fromCache(ctx, "breaking", page, limit, ""); cached != nil {
		return cached
	}

	now := time.Now()
	items, err := s.promos.ListActiveBreaking(ctx, now)
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).Msg("breaking surface query failed")
		return degraded(page, limit)
	}

	entries := make([]ranking.BreakingEntry, 0, len(items))
	for _, item := range items {
		article := surfaceProjection(&item.Article, now)
		article.Priority = item.Promotion.Priority
		article.PromotedAt = item.Promotion.StartsAt
		entries = append(entries, ranking.BreakingEntry{
			Article:   article,
			Priority:  item.Promotion.Priority,
			StartedAt: item.Promotion.StartsAt,
		})
	}
	ranking.SortBreaking(entries)

	news := make([]domain.SurfaceArticle, 0, len(entries))
	for _, e := range entries {
		news = append(news, e.Article)
	}

	result := paginate(news, page, limit)
	s.toCache(ctx, "breaking", page, limit, "", result)
	return result
}

// Pinned returns the pinned surface, optionally filtered by the primary
// category slug
func (s *surfaceService) Pinned(ctx context.Context, page, limit int, categorySlug string) *SurfaceResult {
	page, limit = clampPaging(page, limit)

	if cached := s.fromCache(ctx, "pinned", page, limit, categorySlug); cached != nil {
		return cached
	}

	now := time.Now()
	items, err := s.promos.ListActivePinned(ctx, now)
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).Msg("pinned surface query failed")
		return degraded(page, limit)
	}

	entries := make([]ranking.PinnedEntry, 0, len(items))
	for _, item := range items {
		if categorySlug != "" && item.CategorySlug != categorySlug {
			continue
		}
		article := surfaceProjection(&item.Article, now)
		article.Tier = item.Promotion.Tier
		article.Position = item.Promotion.Position
		article.CategorySlug = item.CategorySlug
		article.PromotedAt = item.Promotion.StartsAt
		entries = append(entries, ranking.PinnedEntry{
			Article:   article,
			Position:  item.Promotion.Position,
			Tier:      item.Promotion.Tier,
			StartedAt: item.Promotion.StartsAt,
		})
	}
	ranking.SortPinned(entries)

	news := make([]domain.SurfaceArticle, 0, len(entries))
	for _, e := range entries {
		news = append(news, e.Article)
	}

	result := paginate(news, page, limit)
	s.toCache(ctx, "pinned", page, limit, categorySlug, result)
	return result
}

func (s *surfaceService) fromCache(ctx context.Context, surface string, page, limit int, filter string) *SurfaceResult {
	if s.cache == nil || !s.cache.IsAvailable() {
		return nil
	}
	data, err := s.cache.GetSurface(ctx, surface, page, limit, filter)
	if err != nil {
		return nil
	}
	var result SurfaceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

func (s *surfaceService) toCache(ctx context.Context, surface string, page, limit int, filter string, result *SurfaceResult) {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	if err := s.cache.SetSurface(ctx, surface, page, limit, filter, result); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("surface", surface).Msg("surface cache write failed")
	}
}

// surfaceProjection builds the normalized response record, scoring at query
// time so the score reflects current counters and current age
func surfaceProjection(a *domain.Article, now time.Time) domain.SurfaceArticle {
	score := 0.0
	if a.PublishedAt != nil {
		score = ranking.Score(a.Views, a.Likes, a.Comments, a.Shares, *a.PublishedAt, now)
	}
	return domain.SurfaceArticle{
		ID:            a.ID,
		Title:         a.Title,
		Slug:          a.Slug,
		Excerpt:       a.Excerpt,
		CoverImage:    a.CoverImage,
		Views:         a.Views,
		Likes:         a.Likes,
		Comments:      a.Comments,
		Shares:        a.Shares,
		TrendingScore: score,
		ReadingTime:   a.ReadingTime,
		PublishedAt:   a.PublishedAt,
	}
}

func clampPaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSurfaceLimit
	}
	if limit > maxSurfaceLimit {
		limit = maxSurfaceLimit
	}
	return page, limit
}

// paginate slices the sorted candidate set into one page
func paginate(news []domain.SurfaceArticle, page, limit int) *SurfaceResult {
	total := int64(len(news))

	start := (page - 1) * limit
	if start > len(news) {
		start = len(news)
	}
	end := start + limit
	if end > len(news) {
		end = len(news)
	}

	return &SurfaceResult{
		Success:    true,
		News:       news[start:end],
		Pagination: common.NewPagination(page, limit, total),
	}
}

func degraded(page, limit int) *SurfaceResult {
	return &SurfaceResult{
		Success:    false,
		News:       []domain.SurfaceArticle{},
		Pagination: common.NewPagination(page, limit, 0),
	}
}
