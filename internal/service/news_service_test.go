package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"github.com/newsroomhq/newsroom-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockArticleRepo struct {
	mock.Mock
}

func (m *mockArticleRepo) FindAggregate(ctx context.Context, id int64) (*repository.AggregateView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AggregateView), args.Error(1)
}

func (m *mockArticleRepo) CreateAggregate(ctx context.Context, agg *repository.Aggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *mockArticleRepo) UpdateAggregate(ctx context.Context, agg *repository.Aggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *mockArticleRepo) DeleteAggregate(ctx context.Context, id int64) (domain.DeletedRecords, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DeletedRecords), args.Error(1)
}

func (m *mockArticleRepo) IncrementViews(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validInput() *domain.NewsInput {
	return &domain.NewsInput{
		Title:             "Council Votes On Harbor Expansion",
		Content:           "The council voted. [quote=\"Mayor\"]We move forward.[/quote]",
		AuthorID:          7,
		CategoryIDs:       []int64{3, 7},
		PrimaryCategoryID: 7,
		RequestedStatus:   domain.StatusPublished,
	}
}

func newTestService(repo *mockArticleRepo) NewsService {
	gate := NewPublishGate(domain.NewRolePolicy([]string{"admin"}))
	return NewNewsService(repo, gate, nil)
}

func TestCreate_EditorPublishIsQueued(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	var captured *repository.Aggregate
	repo.On("CreateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
			captured.Article.ID = 42
		}).
		Return(nil)

	outcome, err := svc.Create(context.Background(), validInput(), "editor")
	require.NoError(t, err)

	assert.Equal(t, int64(42), outcome.NewsID)
	assert.Equal(t, domain.StatusPendingApproval, outcome.Status)
	assert.True(t, outcome.RequiresApproval)

	require.NotNil(t, captured)
	assert.Equal(t, domain.StatusPendingApproval, captured.Article.Status)
	assert.Nil(t, captured.Article.PublishedAt)
	require.NotNil(t, captured.Approval)
	assert.Equal(t, domain.WorkflowPending, captured.Approval.WorkflowStatus)
	assert.Equal(t, int64(7), captured.Approval.RequestedBy)
}

func TestCreate_AdminPublishesDirectly(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	var captured *repository.Aggregate
	repo.On("CreateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	outcome, err := svc.Create(context.Background(), validInput(), "admin")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPublished, outcome.Status)
	assert.False(t, outcome.RequiresApproval)
	require.NotNil(t, captured.Article.PublishedAt)
	assert.Nil(t, captured.Approval)
}

func TestCreate_DerivesContentFields(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	var captured *repository.Aggregate
	repo.On("CreateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	_, err := svc.Create(context.Background(), validInput(), "admin")
	require.NoError(t, err)

	assert.Regexp(t, `^council-votes-on-harbor-expansion-\d+$`, captured.Article.Slug)
	assert.Equal(t, 1, captured.Article.ReadingTime)
	assert.Contains(t, captured.Article.FormattedContent, "<blockquote")
	require.Len(t, captured.Quotes, 1)
	assert.Equal(t, "We move forward.", captured.Quotes[0].Text)
	assert.Equal(t, "Mayor", captured.Quotes[0].Speaker)
	assert.Equal(t, "We move forward.", captured.Article.FeaturedQuote)
	assert.NotEmpty(t, captured.Article.Excerpt)
}

func TestCreate_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.NewsInput)
		wantErr error
	}{
		{"missing title", func(i *domain.NewsInput) { i.Title = "  " }, common.ErrMissingField},
		{"missing content", func(i *domain.NewsInput) { i.Content = "" }, common.ErrMissingField},
		{"bad author", func(i *domain.NewsInput) { i.AuthorID = 0 }, common.ErrInvalidAuthorID},
		{"empty categories", func(i *domain.NewsInput) { i.CategoryIDs = nil }, common.ErrEmptyCategorySet},
		{"primary not in set", func(i *domain.NewsInput) { i.PrimaryCategoryID = 99 }, common.ErrPrimaryNotInSet},
		{"bad status", func(i *domain.NewsInput) { i.RequestedStatus = "live" }, common.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockArticleRepo)
			svc := newTestService(repo)

			input := validInput()
			tt.mutate(input)

			_, err := svc.Create(context.Background(), input, "admin")
			assert.ErrorIs(t, err, tt.wantErr)

			// fail-fast: nothing reaches persistence
			repo.AssertNotCalled(t, "CreateAggregate", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_MediaFeaturedDefaults(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	var captured *repository.Aggregate
	repo.On("CreateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	input := validInput()
	input.Media = []domain.MediaPayload{
		{URL: "https://cdn.example.com/one.jpg"},
		{URL: "https://cdn.example.com/two.jpg"},
	}

	_, err := svc.Create(context.Background(), input, "admin")
	require.NoError(t, err)

	// nothing marked featured: first wins and is mirrored onto cover image
	require.Len(t, captured.Media, 2)
	assert.True(t, captured.Media[0].IsFeatured)
	assert.False(t, captured.Media[1].IsFeatured)
	assert.Equal(t, "https://cdn.example.com/one.jpg", captured.Article.CoverImage)
}

func TestCreate_MediaAtMostOneFeatured(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	var captured *repository.Aggregate
	repo.On("CreateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	input := validInput()
	input.Media = []domain.MediaPayload{
		{URL: "https://cdn.example.com/one.jpg", IsFeatured: true},
		{URL: "https://cdn.example.com/two.jpg", IsFeatured: true},
	}

	_, err := svc.Create(context.Background(), input, "admin")
	require.NoError(t, err)

	featured := 0
	for _, m := range captured.Media {
		if m.IsFeatured {
			featured++
		}
	}
	assert.Equal(t, 1, featured)
	assert.Equal(t, "https://cdn.example.com/one.jpg", captured.Article.CoverImage)
}

func TestUpdate_PublishedAtSetOnce(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	firstPublish := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.On("FindAggregate", mock.Anything, int64(42)).Return(&repository.AggregateView{
		Article: &domain.Article{
			ID:          42,
			AuthorID:    7,
			Status:      domain.StatusPublished,
			PublishedAt: &firstPublish,
		},
	}, nil)

	var captured *repository.Aggregate
	repo.On("UpdateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	_, err := svc.Update(context.Background(), 42, validInput(), "admin")
	require.NoError(t, err)

	require.NotNil(t, captured.Article.PublishedAt)
	assert.True(t, captured.Article.PublishedAt.Equal(firstPublish))
}

func TestUpdate_FirstPublishStampsPublishedAt(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	repo.On("FindAggregate", mock.Anything, int64(42)).Return(&repository.AggregateView{
		Article: &domain.Article{
			ID:       42,
			AuthorID: 7,
			Status:   domain.StatusDraft,
		},
	}, nil)

	var captured *repository.Aggregate
	repo.On("UpdateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	_, err := svc.Update(context.Background(), 42, validInput(), "admin")
	require.NoError(t, err)

	assert.NotNil(t, captured.Article.PublishedAt)
}

func TestUpdate_UnmarkedMediaKeepsExistingFeatured(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	repo.On("FindAggregate", mock.Anything, int64(42)).Return(&repository.AggregateView{
		Article: &domain.Article{
			ID:         42,
			AuthorID:   7,
			Status:     domain.StatusPublished,
			CoverImage: "https://cdn.example.com/cover.jpg",
		},
		Media: []domain.MediaAsset{
			{NewsID: 42, URL: "https://cdn.example.com/cover.jpg", IsFeatured: true},
		},
	}, nil)

	var captured *repository.Aggregate
	repo.On("UpdateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	input := validInput()
	input.Media = []domain.MediaPayload{
		{URL: "https://cdn.example.com/extra.jpg"},
	}

	_, err := svc.Update(context.Background(), 42, input, "admin")
	require.NoError(t, err)

	// an already-featured asset keeps the flag: the new upload must not
	// be force-featured, and the cover image must not move
	require.Len(t, captured.Media, 1)
	assert.False(t, captured.Media[0].IsFeatured)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", captured.Article.CoverImage)
}

func TestUpdate_ExplicitFeaturedTakesOver(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	repo.On("FindAggregate", mock.Anything, int64(42)).Return(&repository.AggregateView{
		Article: &domain.Article{
			ID:         42,
			AuthorID:   7,
			Status:     domain.StatusPublished,
			CoverImage: "https://cdn.example.com/cover.jpg",
		},
		Media: []domain.MediaAsset{
			{NewsID: 42, URL: "https://cdn.example.com/cover.jpg", IsFeatured: true},
		},
	}, nil)

	var captured *repository.Aggregate
	repo.On("UpdateAggregate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.Aggregate)
		}).
		Return(nil)

	input := validInput()
	input.Media = []domain.MediaPayload{
		{URL: "https://cdn.example.com/new-cover.jpg", IsFeatured: true},
	}

	_, err := svc.Update(context.Background(), 42, input, "admin")
	require.NoError(t, err)

	require.Len(t, captured.Media, 1)
	assert.True(t, captured.Media[0].IsFeatured)
	assert.Equal(t, "https://cdn.example.com/new-cover.jpg", captured.Article.CoverImage)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	repo.On("FindAggregate", mock.Anything, int64(999)).Return(nil, common.ErrNewsNotFound)

	_, err := svc.Update(context.Background(), 999, validInput(), "admin")
	assert.ErrorIs(t, err, common.ErrNewsNotFound)
	repo.AssertNotCalled(t, "UpdateAggregate", mock.Anything, mock.Anything)
}

func TestBulkDelete_IsolatesFailures(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestService(repo)

	repo.On("DeleteAggregate", mock.Anything, int64(5)).
		Return(domain.DeletedRecords{"news": 1}, nil)
	repo.On("DeleteAggregate", mock.Anything, int64(9999)).
		Return(nil, common.ErrNewsNotFound)

	result := svc.BulkDelete(context.Background(), []int64{5, 9999})

	require.Len(t, result.Success, 1)
	assert.Equal(t, int64(5), result.Success[0].ID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, int64(9999), result.Failed[0].ID)
	assert.Equal(t, "Not found", result.Failed[0].Reason)
}

func TestDeriveSlug(t *testing.T) {
	now := time.UnixMilli(1756200000000)

	assert.Equal(t, "hello-world-2026-1756200000000", deriveSlug("Hello, World! 2026", now))
	assert.Equal(t, "news-1756200000000", deriveSlug("!@#$%", now))

	long := deriveSlug(strings.Repeat("word ", 100), now)
	assert.LessOrEqual(t, len(long), maxSlugLen+len("-1756200000000"))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, readingTime(""))
	assert.Equal(t, 1, readingTime("a few words only"))
	assert.Equal(t, 3, readingTime(strings.Repeat("word ", 401)))
}
