package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorPredicates(t *testing.T) {
	notFound := &NotFoundError{Entity: "book", ID: 7}
	conflict := &ConflictError{Entity: "user", Field: "email"}
	dependents := &HasDependentsError{Entity: "author", Dependents: 3}
	forbidden := &ForbiddenError{Action: "delete this review"}
	validation := &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsConflict(conflict))
	assert.True(t, IsHasDependents(dependents))
	assert.True(t, IsForbidden(forbidden))
	assert.True(t, IsValidation(validation))

	// Predicates do not cross-match.
	assert.False(t, IsNotFound(conflict))
	assert.False(t, IsConflict(notFound))
	assert.False(t, IsValidation(forbidden))
}

func TestErrorPredicates_Wrapped(t *testing.T) {
	err := fmt.Errorf("while saving: %w", &ConflictError{Entity: "genre", Field: "name"})
	assert.True(t, IsConflict(err))
}

func TestTranslateCreate(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, TranslateCreate(nil, "book", "isbn"))
	})

	t.Run("duplicated key becomes conflict", func(t *testing.T) {
		err := TranslateCreate(gorm.ErrDuplicatedKey, "book", "isbn")
		assert.True(t, IsConflict(err))
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, "isbn", conflict.Field)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("disk full")
		err := TranslateCreate(cause, "book", "isbn")
		assert.ErrorIs(t, err, cause)
		assert.False(t, IsConflict(err))
	})
}

func TestTranslateLookup(t *testing.T) {
	t.Run("record not found becomes typed", func(t *testing.T) {
		err := TranslateLookup(gorm.ErrRecordNotFound, "book", 42)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "book 42")
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := TranslateLookup(cause, "book", 42)
		assert.ErrorIs(t, err, cause)
		assert.False(t, IsNotFound(err))
	})
}
