package domain

import "time"

// Breaking-surface priority tiers, most urgent first
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Pinned-surface tiers
const (
	TierGold   = "gold"
	TierSilver = "silver"
	TierBronze = "bronze"
)

// BreakingPromotion is a time-boxed placement on the breaking surface.
// Created by the promotion collaborator, consumed read-only here.
// Table: breaking_news
type BreakingPromotion struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NewsID          int64      `gorm:"column:news_id;index" json:"news_id"`
	Priority        string     `gorm:"column:priority;type:varchar(20)" json:"priority,omitempty"`
	StartsAt        time.Time  `gorm:"column:starts_at" json:"starts_at"`
	EndsAt          *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`
	RemovedManually bool       `gorm:"column:removed_manually;default:false" json:"removed_manually"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (BreakingPromotion) TableName() string { return "breaking_news" }

// Active reports whether the promotion currently places its article:
// not manually removed, started, and not past its end time.
func (p *BreakingPromotion) Active(now time.Time) bool {
	if p.RemovedManually || p.StartsAt.After(now) {
		return false
	}
	return p.EndsAt == nil || p.EndsAt.After(now)
}

// PinnedPromotion is a time-boxed placement on the pinned surface
// Table: pinned_news
type PinnedPromotion struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NewsID          int64      `gorm:"column:news_id;index" json:"news_id"`
	Position        *int       `gorm:"column:position" json:"position,omitempty"`
	Tier            string     `gorm:"column:tier;type:varchar(20)" json:"tier,omitempty"`
	StartsAt        time.Time  `gorm:"column:starts_at" json:"starts_at"`
	EndsAt          *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`
	RemovedManually bool       `gorm:"column:removed_manually;default:false" json:"removed_manually"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PinnedPromotion) TableName() string { return "pinned_news" }

// Active reports whether the pinned promotion currently places its article
func (p *PinnedPromotion) Active(now time.Time) bool {
	if p.RemovedManually || p.StartsAt.After(now) {
		return false
	}
	return p.EndsAt == nil || p.EndsAt.After(now)
}
