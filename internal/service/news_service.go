package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"github.com/newsroomhq/newsroom-backend/internal/formatter"
	"github.com/newsroomhq/newsroom-backend/internal/repository"
	"github.com/newsroomhq/newsroom-backend/pkg/cache"
	pkglogger "github.com/newsroomhq/newsroom-backend/pkg/logger"
)

const wordsPerMinute = 200

// maxSlugLen caps the derived slug before the uniqueness suffix
const maxSlugLen = 180

var slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugCollapse = regexp.MustCompile(`[\s-]+`)

// BulkDeleteItem is one member of a bulk delete result partition
type BulkDeleteItem struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// BulkDeleteResult partitions a batch into per-item outcomes
type BulkDeleteResult struct {
	Success []BulkDeleteItem `json:"success"`
	Failed  []BulkDeleteItem `json:"failed"`
}

// NewsService business logic for the article aggregate lifecycle
type NewsService interface {
	Create(ctx context.Context, input *domain.NewsInput, actorRole string) (*domain.WriteOutcome, error)
	Update(ctx context.Context, id int64, input *domain.NewsInput, actorRole string) (*domain.WriteOutcome, error)
	Delete(ctx context.Context, id int64) (domain.DeletedRecords, error)
	BulkDelete(ctx context.Context, ids []int64) *BulkDeleteResult
	Get(ctx context.Context, id int64) (*repository.AggregateView, error)
}

type newsService struct {
	repo  repository.ArticleRepository
	gate  *PublishGate
	cache cache.Service
}

// NewNewsService creates a new NewsService
func NewNewsService(repo repository.ArticleRepository, gate *PublishGate, cacheService cache.Service) NewsService {
	return &newsService{repo: repo, gate: gate, cache: cacheService}
}

// Create validates, formats and atomically persists a new article aggregate
func (s *newsService) Create(ctx context.Context, input *domain.NewsInput, actorRole string) (*domain.WriteOutcome, error) {
	if err := validateInput(input, true); err != nil {
		return nil, err
	}

	status, requiresApproval := s.gate.Decide(requestedStatus(input), actorRole)

	formatted, quotes := formatter.Format(input.Content)
	now := time.Now()

	article := &domain.Article{
		Title:            input.Title,
		Slug:             deriveSlug(input.Title, now),
		Content:          input.Content,
		FormattedContent: formatted,
		Excerpt:          excerptOrDerived(input),
		AuthorID:         input.AuthorID,
		Priority:         input.Priority,
		Tags:             input.Tags,
		MetaDescription:  input.MetaDescription,
		SEOKeywords:      input.SEOKeywords,
		ReadingTime:      readingTime(input.Content),
		Status:           status,
	}
	if status == domain.StatusPublished {
		article.PublishedAt = &now
	}
	applyFeaturedQuote(article, quotes)

	media := buildMedia(input.Media, false)
	mirrorCoverImage(article, media)

	agg := &repository.Aggregate{
		Article:     article,
		CategoryIDs: input.CategoryIDs,
		PrimaryID:   input.PrimaryCategoryID,
		Quotes:      quotes,
		SocialLinks: buildSocialLinks(input.SocialLinks),
		Media:       media,
	}
	if requiresApproval {
		agg.Approval = &domain.ApprovalRecord{
			WorkflowStatus: domain.WorkflowPending,
			RequestedBy:    input.AuthorID,
		}
	}

	if err := s.repo.CreateAggregate(ctx, agg); err != nil {
		return nil, err
	}

	s.invalidate(article.ID)

	return &domain.WriteOutcome{
		NewsID:           article.ID,
		Slug:             article.Slug,
		Status:           status,
		RequiresApproval: requiresApproval,
	}, nil
}

// Update re-validates and re-derives slug, reading time and quotes from the
// new body, then rewrites the aggregate under replace-set semantics
func (s *newsService) Update(ctx context.Context, id int64, input *domain.NewsInput, actorRole string) (*domain.WriteOutcome, error) {
	if err := validateInput(input, false); err != nil {
		return nil, err
	}

	current, err := s.repo.FindAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	existing := current.Article

	status, requiresApproval := s.gate.Decide(requestedStatus(input), actorRole)

	formatted, quotes := formatter.Format(input.Content)
	now := time.Now()

	article := &domain.Article{
		ID:               id,
		Title:            input.Title,
		Slug:             deriveSlug(input.Title, now),
		Content:          input.Content,
		FormattedContent: formatted,
		Excerpt:          excerptOrDerived(input),
		AuthorID:         existing.AuthorID,
		Priority:         input.Priority,
		Tags:             input.Tags,
		MetaDescription:  input.MetaDescription,
		SEOKeywords:      input.SEOKeywords,
		ReadingTime:      readingTime(input.Content),
		Status:           status,
		CreatedAt:        existing.CreatedAt,
		PublishedAt:      existing.PublishedAt,
	}
	// set once, never cleared by later edits
	if status == domain.StatusPublished && existing.PublishedAt == nil {
		article.PublishedAt = &now
	}
	applyFeaturedQuote(article, quotes)

	// Media is additive on update: the featured default must account for
	// assets already attached to the article, not just this submission.
	media := buildMedia(input.Media, hasFeaturedAsset(current.Media))
	article.CoverImage = existing.CoverImage
	mirrorCoverImage(article, media)

	agg := &repository.Aggregate{
		Article:     article,
		CategoryIDs: input.CategoryIDs,
		PrimaryID:   input.PrimaryCategoryID,
		Quotes:      quotes,
		SocialLinks: buildSocialLinks(input.SocialLinks),
		Media:       media,
	}
	if requiresApproval {
		agg.Approval = &domain.ApprovalRecord{
			WorkflowStatus: domain.WorkflowPending,
			RequestedBy:    existing.AuthorID,
		}
	}

	if err := s.repo.UpdateAggregate(ctx, agg); err != nil {
		return nil, err
	}

	s.invalidate(id)

	return &domain.WriteOutcome{
		NewsID:           id,
		Slug:             article.Slug,
		Status:           status,
		RequiresApproval: requiresApproval,
	}, nil
}

// Delete removes the aggregate and reports rows removed per dependent set
func (s *newsService) Delete(ctx context.Context, id int64) (domain.DeletedRecords, error) {
	deleted, err := s.repo.DeleteAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return deleted, nil
}

// BulkDelete removes each article as its own unit of work. One bad id never
// rolls back its siblings.
func (s *newsService) BulkDelete(ctx context.Context, ids []int64) *BulkDeleteResult {
	result := &BulkDeleteResult{
		Success: []BulkDeleteItem{},
		Failed:  []BulkDeleteItem{},
	}

	for _, id := range ids {
		if _, err := s.Delete(ctx, id); err != nil {
			result.Failed = append(result.Failed, BulkDeleteItem{ID: id, Reason: deleteFailReason(err)})
			continue
		}
		result.Success = append(result.Success, BulkDeleteItem{ID: id})
	}

	return result
}

// Get loads the full aggregate and bumps the view counter asynchronously
func (s *newsService) Get(ctx context.Context, id int64) (*repository.AggregateView, error) {
	view, err := s.repo.FindAggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	go s.repo.IncrementViews(context.Background(), id) //nolint:errcheck

	return view, nil
}

func (s *newsService) invalidate(newsID int64) {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.InvalidateArticle(ctx, newsID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Int64("news_id", newsID).Msg("article cache invalidation failed")
	}
	if err := s.cache.InvalidateSurfaces(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("surface cache invalidation failed")
	}
}

// validateInput runs the fail-fast validation chain. Nothing is persisted
// when any step fails.
func validateInput(input *domain.NewsInput, create bool) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title", common.ErrMissingField)
	}
	if strings.TrimSpace(input.Content) == "" {
		return fmt.Errorf("%w: content", common.ErrMissingField)
	}
	if create && input.AuthorID <= 0 {
		return common.ErrInvalidAuthorID
	}
	if len(input.CategoryIDs) == 0 {
		return common.ErrEmptyCategorySet
	}
	if input.PrimaryCategoryID == 0 {
		return fmt.Errorf("%w: primary_category_id", common.ErrMissingField)
	}
	found := false
	for _, id := range input.CategoryIDs {
		if id == input.PrimaryCategoryID {
			found = true
			break
		}
	}
	if !found {
		return common.ErrPrimaryNotInSet
	}
	if input.RequestedStatus != "" && !input.RequestedStatus.IsValid() {
		return common.ErrInvalidStatus
	}
	return nil
}

func requestedStatus(input *domain.NewsInput) domain.Status {
	if input.RequestedStatus == "" {
		return domain.StatusDraft
	}
	return input.RequestedStatus
}

// deriveSlug turns the title into a URL slug with a time suffix for
// uniqueness: lowercase, strip everything outside [a-z0-9\s-], collapse
// whitespace runs to single hyphens, cap at 180 characters.
func deriveSlug(title string, now time.Time) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "news"
	}
	return fmt.Sprintf("%s-%d", slug, now.UnixMilli())
}

func readingTime(body string) int {
	words := formatter.WordCount(body)
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func excerptOrDerived(input *domain.NewsInput) string {
	if strings.TrimSpace(input.Excerpt) != "" {
		return input.Excerpt
	}
	return formatter.Excerpt(input.Content, 200)
}

// applyFeaturedQuote denormalizes the first extracted quote for list views
func applyFeaturedQuote(article *domain.Article, quotes []domain.Quote) {
	if len(quotes) == 0 {
		article.FeaturedQuote = ""
		article.FeaturedQuoteSpeaker = ""
		return
	}
	article.FeaturedQuote = quotes[0].Text
	article.FeaturedQuoteSpeaker = quotes[0].Speaker
}

// buildMedia converts ingested payloads into rows, enforcing at most one
// featured asset. When none is marked and the article has no featured asset
// yet, the first in submission order wins.
func buildMedia(payloads []domain.MediaPayload, existingFeatured bool) []domain.MediaAsset {
	if len(payloads) == 0 {
		return nil
	}

	assets := make([]domain.MediaAsset, 0, len(payloads))
	featuredSeen := false
	for _, p := range payloads {
		featured := p.IsFeatured && !featuredSeen
		if featured {
			featuredSeen = true
		}
		assets = append(assets, domain.MediaAsset{
			URL:          p.URL,
			Caption:      p.Caption,
			AltText:      p.AltText,
			DisplayOrder: p.Order,
			IsFeatured:   featured,
			Width:        p.Width,
			Height:       p.Height,
			Size:         p.Size,
			MimeType:     p.MimeType,
			Provider:     p.Provider,
			ProviderID:   p.ProviderID,
			OriginalName: p.OriginalName,
			HasWatermark: p.HasWatermark,
		})
	}
	if !featuredSeen && !existingFeatured {
		assets[0].IsFeatured = true
	}
	return assets
}

// mirrorCoverImage copies the featured asset's url onto the article
func hasFeaturedAsset(media []domain.MediaAsset) bool {
	for _, m := range media {
		if m.IsFeatured {
			return true
		}
	}
	return false
}

func mirrorCoverImage(article *domain.Article, media []domain.MediaAsset) {
	for _, m := range media {
		if m.IsFeatured {
			article.CoverImage = m.URL
			return
		}
	}
}

func buildSocialLinks(payloads []domain.SocialLinkPayload) []domain.SocialLink {
	if len(payloads) == 0 {
		return nil
	}
	links := make([]domain.SocialLink, 0, len(payloads))
	for _, p := range payloads {
		if strings.TrimSpace(p.URL) == "" {
			continue
		}
		links = append(links, domain.SocialLink{
			Platform:     p.Platform,
			PostType:     p.PostType,
			URL:          p.URL,
			DisplayOrder: p.Order,
			IsEmbedded:   p.IsEmbedded,
			IsFeatured:   p.IsFeatured,
			Caption:      p.Caption,
		})
	}
	return links
}

func deleteFailReason(err error) string {
	if errors.Is(err, common.ErrNewsNotFound) {
		return "Not found"
	}
	return err.Error()
}
