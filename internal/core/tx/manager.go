// Package tx defines the unit of work shared by every stock-changing operation.
// Domain services depend on these interfaces; implementations live in
// infrastructure/storage (postgres and memory).
package tx

import (
	"context"
)

// Manager runs a unit of work.
//
// If fn returns an error the transaction is rolled back, otherwise committed.
// Nested calls reuse the transaction already carried by ctx, so a service that
// opens a unit of work can call another service that does the same and both
// commit or roll back together.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SavepointManager runs fn inside a savepoint of the current transaction.
// A failing fn rolls back only its own writes; the outer transaction stays usable.
type SavepointManager interface {
	Manager

	RunInSavepoint(ctx context.Context, fn func(ctx context.Context) error) error
}
