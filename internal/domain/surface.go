package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// SurfaceArticle is the normalized projection returned by the breaking and
// pinned read surfaces. One canonical struct; the snake/camel duplicate key
// aliases older clients rely on are emitted at the JSON boundary by
// MarshalJSON, not modeled as duplicate fields.
type SurfaceArticle struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	CoverImage    string     `json:"cover_image"`
	CategorySlug  string     `json:"category_slug"`
	Priority      string     `json:"priority,omitempty"`
	Tier          string     `json:"tier,omitempty"`
	Position      *int       `json:"position,omitempty"`
	Views         int        `json:"views"`
	Likes         int        `json:"likes"`
	Comments      int        `json:"comments"`
	Shares        int        `json:"shares"`
	TrendingScore float64    `json:"trending_score"`
	ReadingTime   int        `json:"reading_time"`
	PromotedAt    time.Time  `json:"promoted_at"`
	PublishedAt   *time.Time `json:"published_at"`
}

// MarshalJSON emits every snake_case key alongside its camelCase alias
func (a SurfaceArticle) MarshalJSON() ([]byte, error) {
	type plain SurfaceArticle // avoid recursion
	raw, err := json.Marshal(plain(a))
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	for k, v := range fields {
		if alias := snakeToCamel(k); alias != k {
			fields[alias] = v
		}
	}

	return json.Marshal(fields)
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
