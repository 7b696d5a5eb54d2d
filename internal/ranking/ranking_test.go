package ranking

import (
	"testing"
	"time"

	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEngagementWeights(t *testing.T) {
	// views*1 + likes*5 + comments*10 + shares*15
	assert.Equal(t, float64(100+50+100+150), Engagement(100, 10, 10, 10))
	assert.Equal(t, 0.0, Engagement(0, 0, 0, 0))
}

func TestDecayTiers(t *testing.T) {
	cases := map[float64]float64{
		0.5:  3.0,
		1.0:  2.0,
		2.9:  2.0,
		3.0:  1.5,
		5.9:  1.5,
		6.0:  1.2,
		11.9: 1.2,
		12.0: 1.0,
		23.9: 1.0,
		24.0: 0.5,
		47.9: 0.5,
		48.0: 0.2,
		300:  0.2,
	}
	for hours, want := range cases {
		assert.Equal(t, want, Decay(hours), "decay(%v)", hours)
	}
}

func TestYoungerArticleScoresHigher(t *testing.T) {
	now := time.Now()
	young := Score(100, 10, 10, 10, now.Add(-30*time.Minute), now)
	old := Score(100, 10, 10, 10, now.Add(-30*time.Hour), now)

	// Identical engagement, ages 0.5h vs 30h: 3.0 vs 0.5 multiplier
	assert.Greater(t, young, old)
	assert.Equal(t, young, old*6)
}

func TestFutureTimestampClampedToZeroAge(t *testing.T) {
	now := time.Now()
	score := Score(10, 0, 0, 0, now.Add(time.Minute), now)

	assert.Equal(t, 30.0, score)
}

func breakingEntry(id int64, priority string, started time.Time, score float64) BreakingEntry {
	return BreakingEntry{
		Article:   domain.SurfaceArticle{ID: id, TrendingScore: score},
		Priority:  priority,
		StartedAt: started,
	}
}

func TestSortBreakingPriorityBeatsScore(t *testing.T) {
	now := time.Now()
	entries := []BreakingEntry{
		breakingEntry(1, domain.PriorityLow, now, 9999),
		breakingEntry(2, domain.PriorityUrgent, now.Add(-time.Hour), 1),
	}

	SortBreaking(entries)

	// urgent first regardless of raw score
	assert.Equal(t, int64(2), entries[0].Article.ID)
	assert.Equal(t, int64(1), entries[1].Article.ID)
}

func TestSortBreakingTieBrokenByStartTime(t *testing.T) {
	now := time.Now()
	entries := []BreakingEntry{
		breakingEntry(1, domain.PriorityHigh, now.Add(-2*time.Hour), 0),
		breakingEntry(2, domain.PriorityHigh, now, 0),
	}

	SortBreaking(entries)

	assert.Equal(t, int64(2), entries[0].Article.ID)
}

func TestSortBreakingUnsetPriorityLast(t *testing.T) {
	now := time.Now()
	entries := []BreakingEntry{
		breakingEntry(1, "", now, 0),
		breakingEntry(2, domain.PriorityLow, now, 0),
	}

	SortBreaking(entries)

	assert.Equal(t, int64(2), entries[0].Article.ID)
}

func pinnedEntry(id int64, pos *int, tier string, started time.Time) PinnedEntry {
	return PinnedEntry{
		Article:   domain.SurfaceArticle{ID: id},
		Position:  pos,
		Tier:      tier,
		StartedAt: started,
	}
}

func intPtr(n int) *int { return &n }

func TestSortPinnedManualPositionFirst(t *testing.T) {
	now := time.Now()
	entries := []PinnedEntry{
		pinnedEntry(1, nil, domain.TierGold, now),
		pinnedEntry(2, intPtr(2), "", now),
		pinnedEntry(3, intPtr(1), domain.TierBronze, now),
	}

	SortPinned(entries)

	assert.Equal(t, int64(3), entries[0].Article.ID)
	assert.Equal(t, int64(2), entries[1].Article.ID)
	// unset position sorts last even with gold tier
	assert.Equal(t, int64(1), entries[2].Article.ID)
}

func TestSortPinnedTierBreaksPositionlessTies(t *testing.T) {
	now := time.Now()
	entries := []PinnedEntry{
		pinnedEntry(1, nil, domain.TierBronze, now),
		pinnedEntry(2, nil, domain.TierGold, now),
		pinnedEntry(3, nil, domain.TierSilver, now),
		pinnedEntry(4, nil, "", now),
	}

	SortPinned(entries)

	assert.Equal(t, int64(2), entries[0].Article.ID)
	assert.Equal(t, int64(3), entries[1].Article.ID)
	assert.Equal(t, int64(1), entries[2].Article.ID)
	assert.Equal(t, int64(4), entries[3].Article.ID)
}
