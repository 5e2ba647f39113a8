// Package activity appends audit log entries and purges old ones.
//
// The log is append-only: entries are never updated, and the only mutation
// besides insert is the bulk retention purge. Business logic never reads the
// log back; the reporting package aggregates it for dashboards.
package activity

import (
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// Filter narrows the admin log listing.
type Filter struct {
	Action   entities.LogAction
	UserID   uint
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// Repository handles audit log database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new activity repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record appends a log entry. The action must belong to the fixed
// vocabulary; free-form strings would silently fragment every report built
// on top of the log.
func (r *Repository) Record(entry *entities.LogEntry) error {
	if !entry.Action.Valid() {
		return &database.ValidationError{Field: "action", Reason: "unknown action " + string(entry.Action)}
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(entry).Error
}

// List returns log entries for the admin browser, newest first.
func (r *Repository) List(filter Filter) ([]entities.LogEntry, int64, error) {
	query := r.db.Model(&entities.LogEntry{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var entries []entities.LogEntry
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}

// DeleteOlderThan removes entries created strictly before the cutoff and
// returns how many rows went away. Entries at or after the cutoff survive.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.LogEntry{})
	return result.RowsAffected, result.Error
}

// CountOlderThan reports how many entries a purge at the given cutoff would
// remove, without touching them.
func (r *Repository) CountOlderThan(cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entities.LogEntry{}).Where("created_at < ?", cutoff).Count(&count).Error
	return count, err
}

// Count returns the total number of log entries.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.LogEntry{}).Count(&count).Error
	return count, err
}
