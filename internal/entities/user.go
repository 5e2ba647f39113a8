package entities

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FirstName    string     `gorm:"size:100" json:"first_name,omitempty"`
	LastName     string     `gorm:"size:100" json:"last_name,omitempty"`
	Role         UserRole   `gorm:"size:20;not null;default:'user'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Favorite links a user to a book they bookmarked. The (user, book) pair is
// unique; adding an existing pair is a no-op for callers.
type Favorite struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"uniqueIndex:idx_favorites_user_book;not null" json:"user_id"`
	BookID  uint      `gorm:"uniqueIndex:idx_favorites_user_book;not null" json:"book_id"`
	AddedAt time.Time `json:"added_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// Review holds a user's rating and optional text for a book.
// At most one review per (user, book); rating must stay within [1, 5].
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_reviews_user_book;not null" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_reviews_user_book;not null" json:"book_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title     string    `gorm:"size:200" json:"title,omitempty"`
	Text      string    `gorm:"type:text" json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
