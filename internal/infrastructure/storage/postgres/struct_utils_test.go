package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
)

type AuditedRow struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type embeddingRow struct {
	AuditedRow
	ID    id.ID          `db:"id"`
	Qty   types.Quantity `db:"qty"`
	Notes string         `db:"-"`
	Local string
}

func TestExtractDBColumns_SkipsUntaggedAndLines(t *testing.T) {
	cols := ExtractDBColumns[purchase_order.PurchaseOrder]()

	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "supplier")
	assert.Contains(t, cols, "received_at")
	assert.NotContains(t, cols, "lines")
	assert.NotContains(t, cols, "-")
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[*embeddingRow]()
	assert.ElementsMatch(t, []string{"id", "qty", "created_at", "updated_at"}, cols)
}

func TestStructToMapAndPick(t *testing.T) {
	now := time.Now().UTC()
	row := embeddingRow{
		AuditedRow: AuditedRow{CreatedAt: now, UpdatedAt: now},
		ID:         id.New(),
		Qty:        types.MustQuantity("2.5"),
		Notes:      "ignored",
	}

	m := StructToMap(&row)
	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, types.MustQuantity("2.5"), m["qty"])
	assert.Equal(t, now, m["created_at"])
	assert.Len(t, m, 4)

	picked := Pick(m, []string{"id", "qty", "missing"}, "id")
	assert.Equal(t, map[string]any{"qty": types.MustQuantity("2.5")}, picked)

	assert.Nil(t, StructToMap((*embeddingRow)(nil)))
}
