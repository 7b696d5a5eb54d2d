// Package ranking computes query-time trending scores and surface ordering
// for breaking and pinned placements. Scores are never stored; they always
// reflect current counters and current age.
package ranking

import (
	"sort"
	"time"

	"github.com/newsroomhq/newsroom-backend/internal/domain"
)

// Engagement weights per counter
const (
	weightView    = 1
	weightLike    = 5
	weightComment = 10
	weightShare   = 15
)

// Engagement returns the weighted raw engagement of an article
func Engagement(views, likes, comments, shares int) float64 {
	return float64(views*weightView + likes*weightLike + comments*weightComment + shares*weightShare)
}

// Decay returns the recency multiplier for an article h hours old
func Decay(h float64) float64 {
	switch {
	case h < 1:
		return 3.0
	case h < 3:
		return 2.0
	case h < 6:
		return 1.5
	case h < 12:
		return 1.2
	case h < 24:
		return 1.0
	case h < 48:
		return 0.5
	default:
		return 0.2
	}
}

// Score combines engagement and publication-recency decay
func Score(views, likes, comments, shares int, publishedAt time.Time, now time.Time) float64 {
	hours := now.Sub(publishedAt).Hours()
	if hours < 0 {
		hours = 0
	}
	return Engagement(views, likes, comments, shares) * Decay(hours)
}

// priorityRank orders breaking tiers, most urgent first; unset sorts last
func priorityRank(p string) int {
	switch p {
	case domain.PriorityUrgent:
		return 0
	case domain.PriorityHigh:
		return 1
	case domain.PriorityMedium:
		return 2
	case domain.PriorityLow:
		return 3
	default:
		return 4
	}
}

// tierRank orders pinned tiers; unset sorts last
func tierRank(t string) int {
	switch t {
	case domain.TierGold:
		return 0
	case domain.TierSilver:
		return 1
	case domain.TierBronze:
		return 2
	default:
		return 3
	}
}

// BreakingEntry is one scored candidate for the breaking surface
type BreakingEntry struct {
	Article   domain.SurfaceArticle
	Priority  string
	StartedAt time.Time
}

// SortBreaking orders breaking candidates: priority tier ascending (urgent
// first), then promotion start descending, then publish time descending.
// The trending score is informational, not a sort key.
func SortBreaking(entries []BreakingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := priorityRank(entries[i].Priority), priorityRank(entries[j].Priority)
		if pi != pj {
			return pi < pj
		}
		if !entries[i].StartedAt.Equal(entries[j].StartedAt) {
			return entries[i].StartedAt.After(entries[j].StartedAt)
		}
		return publishedAfter(entries[i].Article.PublishedAt, entries[j].Article.PublishedAt)
	})
}

// PinnedEntry is one scored candidate for the pinned surface
type PinnedEntry struct {
	Article   domain.SurfaceArticle
	Position  *int
	Tier      string
	StartedAt time.Time
}

// SortPinned orders pinned candidates: manual position ascending with unset
// last, then tier (gold first), then promotion start descending, then
// publish time descending.
func SortPinned(entries []PinnedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		posI, posJ := entries[i].Position, entries[j].Position
		switch {
		case posI != nil && posJ != nil && *posI != *posJ:
			return *posI < *posJ
		case posI != nil && posJ == nil:
			return true
		case posI == nil && posJ != nil:
			return false
		}
		ti, tj := tierRank(entries[i].Tier), tierRank(entries[j].Tier)
		if ti != tj {
			return ti < tj
		}
		if !entries[i].StartedAt.Equal(entries[j].StartedAt) {
			return entries[i].StartedAt.After(entries[j].StartedAt)
		}
		return publishedAfter(entries[i].Article.PublishedAt, entries[j].Article.PublishedAt)
	})
}

func publishedAfter(a, b *time.Time) bool {
	if a == nil || b == nil {
		return b == nil && a != nil
	}
	return a.After(*b)
}
