package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching. The typed errors below carry the
// identifying detail and match these sentinels.
var (
	ErrNotFound   = errors.New("entity not found")
	ErrDuplicate  = errors.New("duplicate entity")
	ErrMissingKey = errors.New("missing primary key argument")
)

// NotFoundError reports that no row exists for the requested key.
type NotFoundError struct {
	Entity string
	Key    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %d not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateError reports a uniqueness constraint violation.
type DuplicateError struct {
	Entity string
	Err    error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s violates a uniqueness constraint: %v", e.Entity, e.Err)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func (e *DuplicateError) Unwrap() error { return e.Err }

// MissingKeyError reports a write call whose keyed arguments did not contain
// the entity's primary key. It is raised before any store call is made.
type MissingKeyError struct {
	Entity string
	Column string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("primary key %q not found in arguments for %s", e.Column, e.Entity)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrMissingKey }
