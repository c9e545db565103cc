package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

// OutboxEvent is a published stock event waiting to be relayed.
type OutboxEvent struct {
	ID          id.ID
	Event       stock.Event
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// Outbox implements stock.EventPublisher. Events written inside a unit of
// work vanish with it on rollback.
type Outbox struct {
	s *Store

	// FailWith makes Publish return this error. Tests only.
	FailWith error
}

func (o *Outbox) Publish(ctx context.Context, event stock.Event) error {
	if o.FailWith != nil {
		return o.FailWith
	}
	return o.s.write(ctx, func(d *data) error {
		d.events = append(d.events, OutboxEvent{ID: id.New(), Event: event, CreatedAt: time.Now().UTC()})
		return nil
	})
}

// Events returns every event ever published, in order.
func (o *Outbox) Events() []OutboxEvent {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return append([]OutboxEvent(nil), o.s.d.events...)
}

// Drain hands pending events to handle and marks the handled ones published.
// It returns how many were handled.
func (o *Outbox) Drain(ctx context.Context, handle func(ctx context.Context, e stock.Event) error) (int, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	handled := 0
	for i := range o.s.d.events {
		ev := &o.s.d.events[i]
		if ev.PublishedAt != nil {
			continue
		}
		if err := handle(ctx, ev.Event); err != nil {
			return handled, fmt.Errorf("handle event %s: %w", ev.ID, err)
		}
		now := time.Now().UTC()
		ev.PublishedAt = &now
		handled++
	}
	return handled, nil
}

// ActivityRecord is a stored activity entry.
type ActivityRecord struct {
	EntityType string
	EntityID   id.ID
	Action     string
	ActorID    string
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// ActivityLog implements domain.ActivityLog.
type ActivityLog struct{ s *Store }

var _ domain.ActivityLog = (*ActivityLog)(nil)

func (l *ActivityLog) Record(ctx context.Context, entry domain.ActivityEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}
	return l.s.write(ctx, func(d *data) error {
		d.activity = append(d.activity, ActivityRecord{
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Action:     entry.Action,
			ActorID:    entry.ActorID,
			Payload:    payload,
			CreatedAt:  time.Now().UTC(),
		})
		return nil
	})
}

// Entries returns activity for one entity, oldest first.
func (l *ActivityLog) Entries(entityID id.ID) []ActivityRecord {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	var out []ActivityRecord
	for _, r := range l.s.d.activity {
		if r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out
}
