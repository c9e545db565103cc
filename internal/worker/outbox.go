package worker

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

// PostgresEvents reads sys_outbox in batches of batchSize.
func PostgresEvents(txm *postgres.TxManager, batchSize int) EventSource {
	return &outboxSource{txm: txm, batchSize: batchSize}
}

type outboxSource struct {
	txm       *postgres.TxManager
	batchSize int
}

func (s *outboxSource) Drain(ctx context.Context, handle func(ctx context.Context, e stock.Event) error) (int, error) {
	relay := postgres.NewOutboxRelay(s.txm, s.batchSize, postgres.OutboxHandlerFunc(
		func(ctx context.Context, msg *postgres.OutboxMessage) error {
			ev, err := msg.Event()
			if err != nil {
				return err
			}
			return handle(ctx, ev)
		}))
	return relay.ProcessBatch(ctx)
}
