package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/activity"
	"github.com/openshelf/openshelf/internal/database/reporting"
	"github.com/openshelf/openshelf/internal/entities"
)

type AdminController struct {
	reporting *reporting.Repository
	activity  *activity.Repository
}

func NewAdminController(reportingRepo *reporting.Repository, activityRepo *activity.Repository) *AdminController {
	return &AdminController{reporting: reportingRepo, activity: activityRepo}
}

type dashboardResponse struct {
	Totals        *reporting.Totals         `json:"totals"`
	TopBooks      []reporting.BookDownloads `json:"top_books"`
	TopUsers      []reporting.UserActivity  `json:"top_users"`
	ActionCounts  []reporting.ActionCount   `json:"action_counts"`
	DailyActivity []reporting.DayCount      `json:"daily_activity"`
}

// Dashboard assembles the admin overview: headline totals, the five most
// downloaded books, the five most active users, per-action log volume and
// the last seven days of activity.
// GET /api/admin/dashboard (admin)
func (ac *AdminController) Dashboard(c *gin.Context) {
	totals, err := ac.reporting.DashboardTotals()
	if err != nil {
		respondInternalError(c, err, "dashboard totals")
		return
	}
	topBooks, err := ac.reporting.TopBooksByDownloads(5)
	if err != nil {
		respondInternalError(c, err, "top books")
		return
	}
	topUsers, err := ac.reporting.TopUsersByActivity(5)
	if err != nil {
		respondInternalError(c, err, "top users")
		return
	}
	actionCounts, err := ac.reporting.ActionCounts()
	if err != nil {
		respondInternalError(c, err, "action counts")
		return
	}
	since := time.Now().UTC().AddDate(0, 0, -7)
	daily, err := ac.reporting.DailyActivity(since)
	if err != nil {
		respondInternalError(c, err, "daily activity")
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Totals:        totals,
		TopBooks:      topBooks,
		TopUsers:      topUsers,
		ActionCounts:  actionCounts,
		DailyActivity: daily,
	})
}

// Logs lists audit entries, newest first, filtered by action, user and
// date range.
// GET /api/admin/logs (admin)
func (ac *AdminController) Logs(c *gin.Context) {
	limit, offset := parsePagination(c, 50)
	filter := activity.Filter{Limit: limit, Offset: offset}

	if raw := c.Query("action"); raw != "" {
		action := entities.LogAction(raw)
		if !action.Valid() {
			respondBadRequest(c, "unknown action "+raw)
			return
		}
		filter.Action = action
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := parseUintQuery(raw)
		if err != nil {
			respondBadRequest(c, "invalid user_id")
			return
		}
		filter.UserID = id
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondBadRequest(c, "invalid date_from, expected YYYY-MM-DD")
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondBadRequest(c, "invalid date_to, expected YYYY-MM-DD")
			return
		}
		// Make the upper bound inclusive of the named day.
		end := to.AddDate(0, 0, 1)
		filter.DateTo = &end
	}

	entries, total, err := ac.activity.List(filter)
	if err != nil {
		respondInternalError(c, err, "list logs")
		return
	}
	respondPaginated(c, entries, total, limit, offset)
}

type purgeLogsRequest struct {
	RetentionDays int `json:"retention_days"`
}

// PurgeLogs removes entries older than the retention window on demand. The
// scheduled cleanup task does the same thing nightly.
// POST /api/admin/logs/purge (admin)
func (ac *AdminController) PurgeLogs(c *gin.Context) {
	req := purgeLogsRequest{RetentionDays: 90}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}
	if req.RetentionDays < 1 {
		respondBadRequest(c, "retention_days must be at least 1")
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -req.RetentionDays)
	removed, err := ac.activity.DeleteOlderThan(cutoff)
	if err != nil {
		respondInternalError(c, err, "purge logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
