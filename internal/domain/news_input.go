package domain

// NewsInput is the validated write payload handed to the news service by the
// HTTP layer. Media entries arrive already ingested (uploaded) by the media
// collaborator; this core only persists their rows.
type NewsInput struct {
	Title             string
	Content           string
	Excerpt           string
	AuthorID          int64
	CategoryIDs       []int64
	PrimaryCategoryID int64
	Priority          string
	Tags              string
	MetaDescription   string
	SEOKeywords       string
	RequestedStatus   Status
	Media             []MediaPayload
	SocialLinks       []SocialLinkPayload
}

// MediaPayload is one ingested upload plus its sidecar metadata
type MediaPayload struct {
	URL          string `json:"url"`
	Caption      string `json:"caption"`
	AltText      string `json:"alt_text"`
	Order        int    `json:"order"`
	IsFeatured   bool   `json:"is_featured"`
	HasWatermark bool   `json:"has_watermark"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	Provider     string `json:"provider"`
	ProviderID   string `json:"provider_id"`
	OriginalName string `json:"original_name"`
}

// SocialLinkPayload mirrors the social_media_links JSON array items
type SocialLinkPayload struct {
	Platform   string `json:"platform"`
	PostType   string `json:"post_type"`
	URL        string `json:"url"`
	Order      int    `json:"order"`
	IsEmbedded bool   `json:"is_embedded"`
	IsFeatured bool   `json:"is_featured"`
	Caption    string `json:"caption"`
}

// WriteOutcome reports what a create/update persisted
type WriteOutcome struct {
	NewsID           int64
	Slug             string
	Status           Status
	RequiresApproval bool
}

// DeletedRecords maps dependent table name to rows removed during deletion
type DeletedRecords map[string]int64
