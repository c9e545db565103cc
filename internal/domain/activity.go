package domain

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// ActivityEntry is a diagnostic record of a completed operation.
type ActivityEntry struct {
	EntityType string
	EntityID   id.ID
	Action     string
	ActorID    string
	Payload    any
}

// ActivityLog persists activity entries.
type ActivityLog interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// RecordActivity writes entry on a best-effort basis: a nil log is skipped and
// failures are only logged. Callers invoke it after their unit of work
// committed, so it can never replace the operation's own result or error.
func RecordActivity(ctx context.Context, log ActivityLog, entry ActivityEntry) {
	if log == nil {
		return
	}
	if err := log.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "activity not recorded",
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"action", entry.Action,
			"error", err,
		)
	}
}
