package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
	pkglogger "github.com/newsroomhq/newsroom-backend/pkg/logger"
	"gorm.io/gorm"
)

// Aggregate is the full replace-set for one article write. The service
// assembles and validates it; the repository persists it atomically.
type Aggregate struct {
	Article     *domain.Article
	CategoryIDs []int64
	PrimaryID   int64
	Quotes      []domain.Quote
	SocialLinks []domain.SocialLink
	Media       []domain.MediaAsset
	// Non-nil when the publish gate queued the submission
	Approval *domain.ApprovalRecord
}

// AggregateView is one article with every dependent set, for reads
type AggregateView struct {
	Article     *domain.Article       `json:"article"`
	Categories  []domain.CategoryLink `json:"categories"`
	Media       []domain.MediaAsset   `json:"media"`
	SocialLinks []domain.SocialLink   `json:"social_links"`
	Quotes      []domain.QuoteRecord  `json:"quotes"`
}

// Dependent record sets enumerated on deletion. Some deployments do not
// provision all of them; a missing table is tolerated, never fatal.
var dependentTables = []string{
	"news_categories",
	"news_media",
	"news_social_links",
	"news_quotes",
	"breaking_news",
	"pinned_news",
	"news_approvals",
	"news_engagements",
	"news_views",
	"saved_articles",
}

// ArticleRepository owns the atomic write and teardown of the news aggregate
type ArticleRepository interface {
	FindAggregate(ctx context.Context, id int64) (*AggregateView, error)
	CreateAggregate(ctx context.Context, agg *Aggregate) error
	UpdateAggregate(ctx context.Context, agg *Aggregate) error
	DeleteAggregate(ctx context.Context, id int64) (domain.DeletedRecords, error)

	IncrementViews(ctx context.Context, id int64) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// findByID loads the article row only
func (r *articleRepository) findByID(ctx context.Context, id int64) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNewsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// FindAggregate loads the article with every dependent set
func (r *articleRepository) FindAggregate(ctx context.Context, id int64) (*AggregateView, error) {
	article, err := r.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &AggregateView{Article: article}
	db := r.db.WithContext(ctx)

	if err := db.Where("news_id = ?", id).Find(&view.Categories).Error; err != nil {
		return nil, err
	}
	if err := db.Where("news_id = ?", id).Order("display_order, id").Find(&view.Media).Error; err != nil {
		return nil, err
	}
	if err := db.Where("news_id = ?", id).Order("display_order, id").Find(&view.SocialLinks).Error; err != nil {
		return nil, err
	}
	if err := db.Where("news_id = ?", id).Order("position").Find(&view.Quotes).Error; err != nil {
		return nil, err
	}

	return view, nil
}

// CreateAggregate writes the article row, category links, quote snapshot,
// social links, media rows and (when queued) the approval record as one
// all-or-nothing unit. Any failure reverts everything.
func (r *articleRepository) CreateAggregate(ctx context.Context, agg *Aggregate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(agg.Article).Error; err != nil {
			return translatePersistence(err)
		}
		return r.writeDependents(tx, agg)
	})
}

// UpdateAggregate re-writes the aggregate under replace-set semantics:
// category links, quote snapshot and social links are deleted and
// reinserted; media rows are additive (prior media is kept). When the
// incoming batch carries a featured asset, it takes over: the prior
// featured flag is cleared inside the same transaction so at most one
// featured row survives.
func (r *articleRepository) UpdateAggregate(ctx context.Context, agg *Aggregate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Article{}).
			Where("id = ?", agg.Article.ID).
			Select("*").
			Omit("id", "created_at", "views", "likes", "comments", "shares").
			Updates(agg.Article)
		if res.Error != nil {
			return translatePersistence(res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrNewsNotFound
		}

		for _, model := range []interface{}{
			&domain.CategoryLink{}, &domain.QuoteRecord{}, &domain.SocialLink{},
		} {
			if err := tx.Where("news_id = ?", agg.Article.ID).Delete(model).Error; err != nil {
				return translatePersistence(err)
			}
		}

		for _, m := range agg.Media {
			if m.IsFeatured {
				err := tx.Model(&domain.MediaAsset{}).
					Where("news_id = ? AND is_featured = ?", agg.Article.ID, true).
					Update("is_featured", false).Error
				if err != nil {
					return translatePersistence(err)
				}
				break
			}
		}

		return r.writeDependents(tx, agg)
	})
}

// writeDependents inserts the dependent rows for the (already persisted)
// article row. Runs inside the caller's transaction.
func (r *articleRepository) writeDependents(tx *gorm.DB, agg *Aggregate) error {
	newsID := agg.Article.ID

	links := make([]domain.CategoryLink, 0, len(agg.CategoryIDs))
	for _, cid := range agg.CategoryIDs {
		links = append(links, domain.CategoryLink{
			NewsID:     newsID,
			CategoryID: cid,
			IsPrimary:  cid == agg.PrimaryID,
		})
	}
	if len(links) > 0 {
		if err := tx.Create(&links).Error; err != nil {
			return translatePersistence(err)
		}
	}

	if len(agg.Quotes) > 0 {
		records := make([]domain.QuoteRecord, 0, len(agg.Quotes))
		for i, q := range agg.Quotes {
			records = append(records, domain.QuoteRecord{
				NewsID:   newsID,
				Text:     q.Text,
				Speaker:  q.Speaker,
				Offset:   q.Offset,
				Position: i,
			})
		}
		if err := tx.Create(&records).Error; err != nil {
			return translatePersistence(err)
		}
	}

	if len(agg.SocialLinks) > 0 {
		for i := range agg.SocialLinks {
			agg.SocialLinks[i].NewsID = newsID
		}
		if err := tx.Create(&agg.SocialLinks).Error; err != nil {
			return translatePersistence(err)
		}
	}

	if len(agg.Media) > 0 {
		for i := range agg.Media {
			agg.Media[i].NewsID = newsID
		}
		if err := tx.Create(&agg.Media).Error; err != nil {
			return translatePersistence(err)
		}
	}

	if agg.Approval != nil {
		agg.Approval.NewsID = newsID
		if err := tx.Create(agg.Approval).Error; err != nil {
			return translatePersistence(err)
		}
	}

	return nil
}

// DeleteAggregate removes the article and every dependent row referencing
// it. Dependent sets are best-effort: a table missing at this deployment is
// logged and skipped. The whole operation fails (and rolls back) unless the
// root article row was actually removed.
func (r *articleRepository) DeleteAggregate(ctx context.Context, id int64) (domain.DeletedRecords, error) {
	deleted := domain.DeletedRecords{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Article{}, id)
		if res.Error != nil {
			return translatePersistence(res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrNewsNotFound
		}
		deleted["news"] = res.RowsAffected

		for _, table := range dependentTables {
			if !tx.Migrator().HasTable(table) {
				pkglogger.GetLogger().Warn().
					Str("table", table).
					Int64("news_id", id).
					Msg("dependent table missing at this deployment, skipping")
				continue
			}
			res := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE news_id = ?", table), id)
			if res.Error != nil {
				return translatePersistence(res.Error)
			}
			if res.RowsAffected > 0 {
				deleted[table] = res.RowsAffected
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}

// IncrementViews bumps the view counter atomically
func (r *articleRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).
		Error
}

// translatePersistence maps driver errors onto the error taxonomy
func translatePersistence(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrDuplicateSlug
	}
	return fmt.Errorf("%w: %v", common.ErrPersistence, err)
}
