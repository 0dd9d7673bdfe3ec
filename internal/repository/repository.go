package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory, cache) inside this directory.

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition is returned when a room exists but is not in a state the transition starts from.
	ErrInvalidTransition = errors.New("invalid cleaning status transition")
	// ErrDuplicate is returned when a write would violate a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Transactor runs fn inside a single transaction.
// Repositories called with the context passed to fn participate in that transaction.
// Nested calls reuse the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
