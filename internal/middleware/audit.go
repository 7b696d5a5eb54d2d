package middleware

import (
	"context"
	"time"

	"github.com/newsroomhq/newsroom-backend/pkg/logger"
	"gorm.io/gorm"
)

// AuditEntry is one append-only record of a write to the news aggregate
type AuditEntry struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	ActorID    string `gorm:"column:actor_id;index" json:"actor_id"`
	Action     string `gorm:"column:action;index" json:"action"` // create, update, delete, bulk_delete
	TargetType string `gorm:"column:target_type" json:"target_type"`
	TargetID   int64  `gorm:"column:target_id;index" json:"target_id"`
	Details    string `gorm:"column:details;type:text" json:"details"`
	SourceIP   string `gorm:"column:source_ip" json:"source_ip"`
	RequestID  string `gorm:"column:request_id" json:"request_id"`

	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
}

func (AuditEntry) TableName() string {
	return "audit_logs"
}

// AuditLogger appends audit entries without blocking the request path
type AuditLogger struct {
	db *gorm.DB
}

// NewAuditLogger creates a new AuditLogger
func NewAuditLogger(db *gorm.DB) *AuditLogger {
	if db != nil {
		_ = db.AutoMigrate(&AuditEntry{})
	}
	return &AuditLogger{db: db}
}

// Log appends an audit entry. Writes run async; a failed write is logged,
// never surfaced to the caller.
func (a *AuditLogger) Log(actorID, action, targetType string, targetID int64, details, sourceIP, requestID string) {
	if a.db == nil {
		return
	}

	entry := &AuditEntry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		SourceIP:   sourceIP,
		RequestID:  requestID,
	}

	go func() {
		if err := a.db.Create(entry).Error; err != nil {
			logger.GetLogger().Error().Err(err).
				Str("action", action).
				Str("actor_id", actorID).
				Msg("audit log write failed")
		}
	}()
}

// List retrieves paginated audit entries with optional filters
func (a *AuditLogger) List(ctx context.Context, actorID, action string, page, perPage int) ([]AuditEntry, int64, error) {
	var entries []AuditEntry
	var total int64

	if a.db == nil {
		return entries, 0, nil
	}

	query := a.db.WithContext(ctx).Model(&AuditEntry{})
	if actorID != "" {
		query = query.Where("actor_id = ?", actorID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	query.Count(&total)
	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&entries).Error

	return entries, total, err
}
