package entities

import "time"

// LogAction is the closed vocabulary of auditable actions. New kinds must be
// added here so reports stay stable; callers cannot invent ad-hoc strings.
type LogAction string

const (
	ActionRegister       LogAction = "register"
	ActionLogin          LogAction = "login"
	ActionLogout         LogAction = "logout"
	ActionView           LogAction = "view"
	ActionDownload       LogAction = "download"
	ActionCreateBook     LogAction = "create_book"
	ActionEditBook       LogAction = "edit_book"
	ActionDeleteBook     LogAction = "delete_book"
	ActionAddReview      LogAction = "add_review"
	ActionAddFavorite    LogAction = "add_favorite"
	ActionRemoveFavorite LogAction = "remove_favorite"
)

// AllActions lists the vocabulary in a fixed order, used by reports that
// cover every action kind including zero-count ones.
var AllActions = []LogAction{
	ActionRegister,
	ActionLogin,
	ActionLogout,
	ActionView,
	ActionDownload,
	ActionCreateBook,
	ActionEditBook,
	ActionDeleteBook,
	ActionAddReview,
	ActionAddFavorite,
	ActionRemoveFavorite,
}

// Valid reports whether the action belongs to the vocabulary.
func (a LogAction) Valid() bool {
	for _, known := range AllActions {
		if a == known {
			return true
		}
	}
	return false
}

// LogEntry is an append-only audit record. The user/book/file ids are weak
// references: no foreign-key constraint, no cascade. Deleting the referenced
// entity never touches log history, and log rows may outlive what they
// describe.
type LogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	BookID    *uint     `gorm:"index" json:"book_id,omitempty"`
	FileID    *uint     `gorm:"index" json:"file_id,omitempty"`
	Action    LogAction `gorm:"size:50;not null;index" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	IPAddress string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"size:500" json:"user_agent,omitempty"`
}

func (LogEntry) TableName() string {
	return "logs"
}
