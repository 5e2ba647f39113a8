// Package reporting computes the read-only aggregations behind the admin
// dashboard. Every metric is a single grouped query over the log or catalog
// tables; nothing here mutates state or does per-row lookups.
package reporting

import (
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// BookDownloads pairs a book with its download count.
type BookDownloads struct {
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	Downloads int64  `json:"downloads"`
}

// UserActivity pairs a user with their total logged actions.
type UserActivity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Actions  int64  `json:"actions"`
}

// ActionCount holds the log volume of a single action kind.
type ActionCount struct {
	Action entities.LogAction `json:"action"`
	Count  int64              `json:"count"`
}

// DayCount holds the log volume of one UTC calendar date.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Totals carries the headline dashboard numbers.
type Totals struct {
	Users     int64 `json:"users"`
	Books     int64 `json:"books"`
	Authors   int64 `json:"authors"`
	Reviews   int64 `json:"reviews"`
	Downloads int64 `json:"downloads"`
}

// Repository runs the aggregation queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reporting repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TopBooksByDownloads ranks books by download log entries, count descending.
// Ties break on ascending book id so rankings are deterministic.
func (r *Repository) TopBooksByDownloads(n int) ([]BookDownloads, error) {
	var rows []BookDownloads
	err := r.db.Model(&entities.LogEntry{}).
		Select("logs.book_id AS book_id, books.title AS title, COUNT(logs.id) AS downloads").
		Joins("JOIN books ON books.id = logs.book_id").
		Where("logs.action = ?", entities.ActionDownload).
		Group("logs.book_id, books.title").
		Order("downloads DESC, book_id ASC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

// TopUsersByActivity ranks users by total log entries, with the same
// count-descending, id-ascending ordering discipline.
func (r *Repository) TopUsersByActivity(n int) ([]UserActivity, error) {
	var rows []UserActivity
	err := r.db.Model(&entities.LogEntry{}).
		Select("logs.user_id AS user_id, users.username AS username, COUNT(logs.id) AS actions").
		Joins("JOIN users ON users.id = logs.user_id").
		Group("logs.user_id, users.username").
		Order("actions DESC, user_id ASC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

// ActionCounts reports log volume per action over the full fixed vocabulary.
// Actions that never occurred report zero, keeping dashboard rows stable.
func (r *Repository) ActionCounts() ([]ActionCount, error) {
	var rows []ActionCount
	err := r.db.Model(&entities.LogEntry{}).
		Select("action, COUNT(id) AS count").
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counted := make(map[entities.LogAction]int64, len(rows))
	for _, row := range rows {
		counted[row.Action] = row.Count
	}

	out := make([]ActionCount, 0, len(entities.AllActions))
	for _, action := range entities.AllActions {
		out = append(out, ActionCount{Action: action, Count: counted[action]})
	}
	return out, nil
}

// DailyActivity buckets log entries by UTC calendar date for dates at or
// after since, ascending. Days without activity are omitted.
func (r *Repository) DailyActivity(since time.Time) ([]DayCount, error) {
	var rows []DayCount
	err := r.db.Model(&entities.LogEntry{}).
		Select("DATE(created_at) AS date, COUNT(id) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

// DashboardTotals collects the headline counters in one pass per table.
func (r *Repository) DashboardTotals() (*Totals, error) {
	var t Totals
	if err := r.db.Model(&entities.User{}).Count(&t.Users).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Book{}).Where("is_active = ?", true).Count(&t.Books).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Author{}).Count(&t.Authors).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Review{}).Count(&t.Reviews).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.LogEntry{}).Where("action = ?", entities.ActionDownload).Count(&t.Downloads).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
