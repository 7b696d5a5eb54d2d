package repository

import (
	"context"
	"time"

	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"gorm.io/gorm"
)

// BreakingItem pairs a published article with the promotion placing it
type BreakingItem struct {
	Article   domain.Article
	Promotion domain.BreakingPromotion
}

// PinnedItem pairs a published article with its pinned placement and the
// slug of the article's primary category, used by the surface filter
type PinnedItem struct {
	Article      domain.Article
	Promotion    domain.PinnedPromotion
	CategorySlug string
}

// PromotionRepository reads the presently active surface placements.
// Placements themselves are written by the promotion collaborator.
type PromotionRepository interface {
	ListActiveBreaking(ctx context.Context, now time.Time) ([]BreakingItem, error)
	ListActivePinned(ctx context.Context, now time.Time) ([]PinnedItem, error)
}

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new PromotionRepository
func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

// ListActiveBreaking returns every live breaking placement joined to its
// published article. Window membership is decided by the promotion's Active
// predicate; promotions pointing at unpublished or deleted articles are
// silently dropped.
func (r *promotionRepository) ListActiveBreaking(ctx context.Context, now time.Time) ([]BreakingItem, error) {
	var promotions []domain.BreakingPromotion
	err := r.db.WithContext(ctx).
		Where("starts_at <= ?", now).
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	if len(promotions) == 0 {
		return nil, nil
	}

	articles, err := r.publishedByID(ctx, breakingNewsIDs(promotions))
	if err != nil {
		return nil, err
	}

	items := make([]BreakingItem, 0, len(promotions))
	for _, p := range promotions {
		if !p.Active(now) {
			continue
		}
		article, ok := articles[p.NewsID]
		if !ok {
			continue
		}
		items = append(items, BreakingItem{Article: article, Promotion: p})
	}
	return items, nil
}

// ListActivePinned returns every live pinned placement joined to its
// published article and the article's primary category slug
func (r *promotionRepository) ListActivePinned(ctx context.Context, now time.Time) ([]PinnedItem, error) {
	var promotions []domain.PinnedPromotion
	err := r.db.WithContext(ctx).
		Where("starts_at <= ?", now).
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	if len(promotions) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(promotions))
	for _, p := range promotions {
		ids = append(ids, p.NewsID)
	}

	articles, err := r.publishedByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	slugs, err := r.primaryCategorySlugs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]PinnedItem, 0, len(promotions))
	for _, p := range promotions {
		if !p.Active(now) {
			continue
		}
		article, ok := articles[p.NewsID]
		if !ok {
			continue
		}
		items = append(items, PinnedItem{
			Article:      article,
			Promotion:    p,
			CategorySlug: slugs[p.NewsID],
		})
	}
	return items, nil
}

// publishedByID loads the published subset of the given article ids,
// keyed by id
func (r *promotionRepository) publishedByID(ctx context.Context, ids []int64) (map[int64]domain.Article, error) {
	var articles []domain.Article
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("status = ?", domain.StatusPublished).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	return byID, nil
}

// primaryCategorySlugs resolves news_id -> primary category slug in one
// batch query
func (r *promotionRepository) primaryCategorySlugs(ctx context.Context, ids []int64) (map[int64]string, error) {
	type row struct {
		NewsID int64
		Slug   string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("news_categories").
		Select("news_categories.news_id, categories.slug").
		Joins("JOIN categories ON categories.id = news_categories.category_id").
		Where("news_categories.news_id IN ?", ids).
		Where("news_categories.is_primary = ?", true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	slugs := make(map[int64]string, len(rows))
	for _, r := range rows {
		slugs[r.NewsID] = r.Slug
	}
	return slugs, nil
}

func breakingNewsIDs(promotions []domain.BreakingPromotion) []int64 {
	ids := make([]int64, 0, len(promotions))
	for _, p := range promotions {
		ids = append(ids, p.NewsID)
	}
	return ids
}
