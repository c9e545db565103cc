package stock

import (
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Action is the reason a ledger entry was written.
type Action string

const (
	ActionSale              Action = "sale"
	ActionSaleReversal      Action = "sale_reversal"
	ActionPurchaseReceived  Action = "purchase_received"
	ActionTransferInitiated Action = "transfer_initiated"
	ActionTransferCompleted Action = "transfer_completed"
	ActionTransferCancelled Action = "transfer_cancelled"
	ActionWastage           Action = "wastage"
	ActionWastageReversal   Action = "wastage_reversal"
	ActionReturnIncrement   Action = "return_increment"
	ActionReturnReversal    Action = "return_reversal"
	ActionAuditAdjustment   Action = "audit_adjustment"
	ActionOpeningBalance    Action = "opening_balance"
	ActionManualAdjustment  Action = "manual_adjustment"
)

type direction int

const (
	dirAny direction = iota
	dirIncrease
	dirDecrease
	dirNone
)

var actionDirections = map[Action]direction{
	ActionSale:              dirDecrease,
	ActionSaleReversal:      dirIncrease,
	ActionPurchaseReceived:  dirIncrease,
	ActionTransferInitiated: dirDecrease,
	ActionTransferCompleted: dirNone,
	ActionTransferCancelled: dirIncrease,
	ActionWastage:           dirDecrease,
	ActionWastageReversal:   dirIncrease,
	ActionReturnIncrement:   dirIncrease,
	ActionReturnReversal:    dirDecrease,
	ActionAuditAdjustment:   dirAny,
	ActionOpeningBalance:    dirIncrease,
	ActionManualAdjustment:  dirAny,
}

// Valid reports whether a is a known ledger action.
func (a Action) Valid() bool {
	_, ok := actionDirections[a]
	return ok
}

// accepts reports whether delta has the sign this action requires.
func (a Action) accepts(delta types.Quantity) bool {
	switch actionDirections[a] {
	case dirIncrease:
		return delta.IsPositive()
	case dirDecrease:
		return delta.IsNegative()
	case dirNone:
		return delta.IsZero()
	default:
		return !delta.IsZero()
	}
}

// Reference types written to stock_mutations.reference_type.
const (
	RefInventoryItem  = "inventory_item"
	RefPurchaseOrder  = "purchase_order"
	RefStockTransfer  = "stock_transfer"
	RefInventoryAudit = "inventory_audit"
	RefWastage        = "wastage"
	RefProductReturn  = "product_return"
	RefOrder          = "order"
	RefManual         = "manual"
)

// Mutation is one immutable ledger entry. The column set is the stable
// compliance shape of the ledger.
type Mutation struct {
	ID             id.ID          `db:"id" json:"id"`
	ItemID         id.ID          `db:"item_id" json:"itemId"`
	Action         Action         `db:"action" json:"action"`
	QuantityChange types.Quantity `db:"quantity_change" json:"quantityChange"`
	ReferenceID    string         `db:"reference_id" json:"referenceId,omitempty"`
	ReferenceType  string         `db:"reference_type" json:"referenceType,omitempty"`
	LoggedBy       string         `db:"logged_by" json:"loggedBy"`
	Notes          string         `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// Level is the materialized stock of one item together with the fields the
// low-stock rule looks at.
type Level struct {
	ItemID       id.ID          `db:"id" json:"itemId"`
	Name         string         `db:"name" json:"name"`
	ItemType     string         `db:"item_type" json:"itemType"`
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`
	MinimumStock types.Quantity `db:"minimum_stock" json:"minimumStock"`
}

// Verification compares the materialized value against the ledger sum.
type Verification struct {
	ItemID       id.ID          `db:"item_id" json:"itemId"`
	Materialized types.Quantity `db:"materialized" json:"materialized"`
	LedgerSum    types.Quantity `db:"ledger_sum" json:"ledgerSum"`
}

// Drift is materialized minus ledger sum; zero when consistent.
func (v Verification) Drift() types.Quantity { return v.Materialized - v.LedgerSum }

// Consistent reports whether the projection matches the ledger.
func (v Verification) Consistent() bool { return v.Drift().IsZero() }

// Posting describes one durable stock change: the mutator delta and the
// ledger entry that records it.
type Posting struct {
	ItemID        id.ID
	Action        Action
	Delta         types.Quantity
	ReferenceType string
	ReferenceID   string
	ActorID       string
	Notes         string
	AllowNegative bool
}

// Result is the outcome of a posting.
type Result struct {
	Mutation *Mutation
	Previous types.Quantity
	Level    *Level
}
