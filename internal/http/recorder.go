package http

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/activity"
	"github.com/openshelf/openshelf/internal/entities"
)

// recordActivity appends an audit entry after the primary mutation has
// committed. Recording is best-effort: a failure is logged and never
// propagated, so auditability problems cannot undo or fail the action they
// describe.
func recordActivity(repo *activity.Repository, c *gin.Context, action entities.LogAction, userID, bookID, fileID *uint) {
	if repo == nil {
		return
	}
	entry := &entities.LogEntry{
		UserID:    userID,
		BookID:    bookID,
		FileID:    fileID,
		Action:    action,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := repo.Record(entry); err != nil {
		log.Printf("Failed to record %s activity: %v", action, err)
	}
}

func ref(id uint) *uint {
	return &id
}
