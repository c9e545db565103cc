package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	appctx "github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/context"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const defaultCompressThreshold = 4 * 1024

// ActivityRecord is one row of sys_activity.
type ActivityRecord struct {
	ID                id.ID           `db:"id" json:"id"`
	EntityType        string          `db:"entity_type" json:"entityType"`
	EntityID          id.ID           `db:"entity_id" json:"entityId"`
	Action            string          `db:"action" json:"action"`
	ActorID           string          `db:"actor_id" json:"actorId"`
	Payload           json.RawMessage `db:"payload" json:"payload,omitempty"`
	PayloadCompressed []byte          `db:"payload_compressed" json:"-"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo" json:"-"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

// ActivityLog stores diagnostic activity records. Large payloads (audit
// completion reports, multi-line receipts) are zstd-compressed.
type ActivityLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ domain.ActivityLog = (*ActivityLog)(nil)

// NewActivityLog creates a new activity log.
func NewActivityLog(txManager *TxManager) (*ActivityLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ActivityLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: defaultCompressThreshold,
	}, nil
}

// Record implements domain.ActivityLog.
func (l *ActivityLog) Record(ctx context.Context, entry domain.ActivityEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}

	rec := ActivityRecord{
		ID:              id.New(),
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Action:          entry.Action,
		ActorID:         appctx.ActorOr(ctx, entry.ActorID),
		Payload:         payload,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}
	if len(payload) > l.compressThreshold {
		rec.PayloadCompressed = l.encoder.EncodeAll(payload, nil)
		rec.Payload = nil
		rec.CompressionAlgo = CompressionZstd
	}

	_, err = l.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_activity (
			id, entity_type, entity_id, action, actor_id,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		rec.ID, rec.EntityType, rec.EntityID, rec.Action, rec.ActorID,
		rec.Payload, rec.PayloadCompressed, rec.CompressionAlgo, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// History returns the newest activity of one entity, payloads decompressed.
func (l *ActivityLog) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]ActivityRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}

	var records []ActivityRecord
	err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &records, `
		SELECT id, entity_type, entity_id, action, actor_id,
		       payload, payload_compressed, compression_algo, created_at
		FROM sys_activity
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}

	for i := range records {
		if err := l.decompress(&records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (l *ActivityLog) decompress(rec *ActivityRecord) error {
	if rec.CompressionAlgo != CompressionZstd || len(rec.PayloadCompressed) == 0 {
		return nil
	}
	raw, err := l.decoder.DecodeAll(rec.PayloadCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress activity payload: %w", err)
	}
	rec.Payload = raw
	rec.PayloadCompressed = nil
	return nil
}
