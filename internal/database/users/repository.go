// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByID(id)
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. Username and email collisions are reported as
// ConflictError naming the colliding field; the unique indexes stay in place
// underneath so concurrent creates resolve to exactly one winner.
func (r *Repository) Create(user *entities.User) (*entities.User, error) {
	if user.Username == "" {
		return nil, &database.ValidationError{Field: "username", Reason: "required"}
	}
	if user.Email == "" {
		return nil, &database.ValidationError{Field: "email", Reason: "required"}
	}
	if user.Role == "" {
		user.Role = entities.UserRoleUser
	}
	if user.Role != entities.UserRoleUser && user.Role != entities.UserRoleAdmin {
		return nil, &database.ValidationError{Field: "role", Reason: "must be user or admin"}
	}

	if field, err := r.collidingField(user.Username, user.Email); err != nil {
		return nil, err
	} else if field != "" {
		return nil, &database.ConflictError{Entity: "user", Field: field}
	}

	user.IsActive = true
	if err := r.db.Create(user).Error; err != nil {
		return nil, r.translateCreateErr(err, user)
	}
	return user, nil
}

// translateCreateErr maps an insert failure to the error taxonomy. On a
// duplicated-key race the pre-checks above have already passed, so the
// colliding field is looked up again to name the right one.
func (r *Repository) translateCreateErr(err error, user *entities.User) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	field, lookupErr := r.collidingField(user.Username, user.Email)
	if lookupErr != nil || field == "" {
		field = "username"
	}
	return &database.ConflictError{Entity: "user", Field: field}
}

func (r *Repository) collidingField(username, email string) (string, error) {
	var existing entities.User
	err := r.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return "username", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	err = r.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return "email", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return "", nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, database.TranslateLookup(err, "user", id)
	}
	return &user, nil
}

// GetByLogin looks a user up by username or email, the way the login form
// accepts either.
func (r *Repository) GetByLogin(login string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, database.TranslateLookup(err, "user", 0)
	}
	return &user, nil
}

// List returns users ordered by registration date, newest first.
func (r *Repository) List(limit, offset int) ([]entities.User, int64, error) {
	var users []entities.User
	var total int64

	if err := r.db.Model(&entities.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&users).Error
	return users, total, err
}

// SetActive toggles account activation. Admins cannot deactivate their own
// account; the acting user id guards against that.
func (r *Repository) SetActive(id uint, active bool, actingUserID uint) (*entities.User, error) {
	if id == actingUserID && !active {
		return nil, &database.ForbiddenError{Action: "deactivate own account"}
	}

	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	user.IsActive = active
	return user, nil
}

// TouchLastLogin stamps the last successful login time.
func (r *Repository) TouchLastLogin(id uint) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// Delete removes the user together with their favorites and reviews in one
// transaction. Log rows referencing the user are left alone: their user_id
// becomes a dangling weak reference by design of the audit trail.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.First(&user, id).Error; err != nil {
			return database.TranslateLookup(err, "user", id)
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// Count returns the total number of registered users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
