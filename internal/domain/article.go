package domain

import (
	"time"
)

// Status is the article lifecycle status owned by this core.
// WorkflowStatus on ApprovalRecord belongs to the approval collaborator.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusPublished       Status = "published"
	StatusArchived        Status = "archived"
)

// IsValid reports whether s is one of the known lifecycle statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Article is the root of the news aggregate
// Table: news
type Article struct {
	ID               int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title            string `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug             string `gorm:"column:slug;type:varchar(200);uniqueIndex" json:"slug"`
	Content          string `gorm:"column:content;type:longtext" json:"content"`
	FormattedContent string `gorm:"column:formatted_content;type:longtext" json:"formatted_content"`
	Excerpt          string `gorm:"column:excerpt;type:text" json:"excerpt"`
	AuthorID         int64  `gorm:"column:author_id;index" json:"author_id"`
	Priority         string `gorm:"column:priority;type:varchar(20)" json:"priority,omitempty"`
	Tags             string `gorm:"column:tags;type:text" json:"tags,omitempty"`
	MetaDescription  string `gorm:"column:meta_description;type:text" json:"meta_description,omitempty"`
	SEOKeywords      string `gorm:"column:seo_keywords;type:text" json:"seo_keywords,omitempty"`
	ReadingTime      int    `gorm:"column:reading_time" json:"reading_time"`
	Status           Status `gorm:"column:status;type:varchar(20);index" json:"status"`
	CoverImage       string `gorm:"column:cover_image;type:varchar(500)" json:"cover_image,omitempty"`
	Views            int    `gorm:"column:views;default:0" json:"views"`
	Likes            int    `gorm:"column:likes;default:0" json:"likes"`
	Comments         int    `gorm:"column:comments;default:0" json:"comments"`
	Shares           int    `gorm:"column:shares;default:0" json:"shares"`
	// First extracted quote, denormalized for list views. The full snapshot
	// lives in news_quotes and is regenerated wholesale on every write.
	FeaturedQuote        string    `gorm:"column:featured_quote;type:text" json:"featured_quote,omitempty"`
	FeaturedQuoteSpeaker string    `gorm:"column:featured_quote_speaker;type:varchar(255)" json:"featured_quote_speaker,omitempty"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	// Set once when status first reaches published; never cleared by edits
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
}

func (Article) TableName() string { return "news" }

// CategoryLink ties an article to a category.
// Exactly one link per article carries is_primary.
// Table: news_categories
type CategoryLink struct {
	ID         int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NewsID     int64 `gorm:"column:news_id;index" json:"news_id"`
	CategoryID int64 `gorm:"column:category_id;index" json:"category_id"`
	IsPrimary  bool  `gorm:"column:is_primary;default:false" json:"is_primary"`
}

func (CategoryLink) TableName() string { return "news_categories" }

// Category metadata, consumed read-only here (pinned surface slug filter)
// Table: categories
type Category struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;type:varchar(100)" json:"name"`
	Slug string `gorm:"column:slug;type:varchar(100);uniqueIndex" json:"slug"`
}

func (Category) TableName() string { return "categories" }

// MediaAsset is an uploaded media row belonging to one article.
// At most one asset per article is featured; the featured URL is mirrored
// onto Article.CoverImage.
// Table: news_media
type MediaAsset struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NewsID       int64     `gorm:"column:news_id;index" json:"news_id"`
	URL          string    `gorm:"column:url;type:varchar(500)" json:"url"`
	Caption      string    `gorm:"column:caption;type:text" json:"caption,omitempty"`
	AltText      string    `gorm:"column:alt_text;type:varchar(255)" json:"alt_text,omitempty"`
	DisplayOrder int       `gorm:"column:display_order;default:0" json:"display_order"`
	IsFeatured   bool      `gorm:"column:is_featured;default:false" json:"is_featured"`
	Width        int       `gorm:"column:width" json:"width,omitempty"`
	Height       int       `gorm:"column:height" json:"height,omitempty"`
	Size         int64     `gorm:"column:size" json:"size,omitempty"`
	MimeType     string    `gorm:"column:mime_type;type:varchar(100)" json:"mime_type,omitempty"`
	Provider     string    `gorm:"column:provider;type:varchar(50)" json:"provider,omitempty"`
	ProviderID   string    `gorm:"column:provider_id;type:varchar(255)" json:"provider_id,omitempty"`
	OriginalName string    `gorm:"column:original_name;type:varchar(255)" json:"original_name,omitempty"`
	HasWatermark bool      `gorm:"column:has_watermark;default:false" json:"has_watermark"`
	Metadata     string    `gorm:"column:metadata;type:text" json:"metadata,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MediaAsset) TableName() string { return "news_media" }

// SocialLink is an embedded social post reference on an article
// Table: news_social_links
type SocialLink struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NewsID       int64  `gorm:"column:news_id;index" json:"news_id"`
	Platform     string `gorm:"column:platform;type:varchar(50)" json:"platform"`
	PostType     string `gorm:"column:post_type;type:varchar(50)" json:"post_type,omitempty"`
	URL          string `gorm:"column:url;type:varchar(500)" json:"url"`
	DisplayOrder int    `gorm:"column:display_order;default:0" json:"display_order"`
	IsEmbedded   bool   `gorm:"column:is_embedded;default:true" json:"is_embedded"`
	IsFeatured   bool   `gorm:"column:is_featured;default:false" json:"is_featured"`
	Caption      string `gorm:"column:caption;type:text" json:"caption,omitempty"`
}

func (SocialLink) TableName() string { return "news_social_links" }

// Quote is one structured quote extracted from the raw article body.
// Offset is a byte offset into the raw source so it stays meaningful even
// if display formatting changes later.
type Quote struct {
	Text    string `json:"text"`
	Speaker string `json:"speaker,omitempty"`
	Offset  int    `json:"offset"`
}

// QuoteRecord is the persisted quote snapshot row, regenerated wholesale on
// every write and never partially updated.
// Table: news_quotes
type QuoteRecord struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NewsID   int64  `gorm:"column:news_id;index" json:"news_id"`
	Text     string `gorm:"column:text;type:text" json:"text"`
	Speaker  string `gorm:"column:speaker;type:varchar(255)" json:"speaker,omitempty"`
	Offset   int    `gorm:"column:source_offset" json:"offset"`
	Position int    `gorm:"column:position" json:"position"`
}

func (QuoteRecord) TableName() string { return "news_quotes" }

// ApprovalRecord is the approval-queue entry. This core inserts the initial
// pending row when the publish gate queues a submission; every later
// workflow transition belongs to the external approval collaborator.
// Table: news_approvals
type ApprovalRecord struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NewsID         int64     `gorm:"column:news_id;index" json:"news_id"`
	WorkflowStatus string    `gorm:"column:workflow_status;type:varchar(30)" json:"workflow_status"`
	RequestedBy    int64     `gorm:"column:requested_by" json:"requested_by"`
	Note           string    `gorm:"column:note;type:text" json:"note,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ApprovalRecord) TableName() string { return "news_approvals" }

// WorkflowPending is the initial workflow status written with a queued submission
const WorkflowPending = "pending_review"
