package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation indicates malformed input: missing fields, end before
	// start, self-referential edges.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced task, dependency or project does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate edge or a deletion blocked by references.
	ErrConflict = errors.New("conflict")

	// ErrCycle indicates a would-be or detected cycle in the dependency graph
	// or the containment tree.
	ErrCycle = errors.New("cycle detected")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return ErrValidation.Error() + ": " + e.Msg }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q %s", e.Entity, e.ID, ErrNotFound.Error())
}
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return ErrConflict.Error() + ": " + e.Msg }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflictf builds a ConflictError from a format string.
func Conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// CycleError carries the offending path when it is known. Graph names the
// graph the cycle lives in ("dependency" or "containment").
type CycleError struct {
	Graph string
	Path  []string
}

func (e *CycleError) Error() string {
	msg := ErrCycle.Error()
	if e.Graph != "" {
		msg = e.Graph + " " + msg
	}
	if len(e.Path) > 0 {
		msg += ": " + strings.Join(e.Path, " -> ")
	}
	return msg
}
func (e *CycleError) Unwrap() error { return ErrCycle }
