package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError means the referenced entity id does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError means a uniqueness constraint was violated. Field names the
// colliding attribute so callers can address the error to a form field.
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

// HasDependentsError blocks a guarded delete while dependent rows exist.
type HasDependentsError struct {
	Entity     string
	Dependents int64
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d dependent records exist", e.Entity, e.Dependents)
}

// ForbiddenError means an ownership or role check failed.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}

// ValidationError reports a field-level constraint violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsHasDependents(err error) bool {
	var hd *HasDependentsError
	return errors.As(err, &hd)
}

func IsForbidden(err error) bool {
	var f *ForbiddenError
	return errors.As(err, &f)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// TranslateCreate maps a low-level gorm error from an insert into the typed
// taxonomy. Concurrent creates racing on the same unique key reach the
// constraint itself; this keeps the loser's error field-addressable instead
// of leaking the driver failure.
func TranslateCreate(err error, entity, uniqueField string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Entity: entity, Field: uniqueField}
	}
	return fmt.Errorf("create %s: %w", entity, err)
}

// TranslateLookup maps gorm.ErrRecordNotFound to a typed NotFoundError.
func TranslateLookup(err error, entity string, id uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("lookup %s: %w", entity, err)
}
