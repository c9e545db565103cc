package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/product_return"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/wastage"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

// WastageRepo implements wastage.Repository.
type WastageRepo struct {
	*BaseDocumentRepo[wastage.Record]
}

var _ wastage.Repository = (*WastageRepo)(nil)

// NewWastageRepo creates a new wastage repository.
func NewWastageRepo(txm *postgres.TxManager) *WastageRepo {
	return &WastageRepo{NewBaseDocumentRepo[wastage.Record](txm, "wastage_records", "wastage record")}
}

func (r *WastageRepo) Create(ctx context.Context, rec *wastage.Record) error {
	return r.Insert(ctx, rec)
}

func (r *WastageRepo) GetByID(ctx context.Context, recordID id.ID) (*wastage.Record, error) {
	return r.Get(ctx, recordID, false)
}

func (r *WastageRepo) GetForUpdate(ctx context.Context, recordID id.ID) (*wastage.Record, error) {
	return r.Get(ctx, recordID, true)
}

// MarkReversed succeeds once per record.
func (r *WastageRepo) MarkReversed(ctx context.Context, rec *wastage.Record) error {
	return r.UpdateWhere(ctx, rec.ID, r.Update().
		Set("reversed_by", rec.ReversedBy).
		Set("reversed_at", rec.ReversedAt).
		Where(squirrel.Eq{"id": rec.ID, "reversed_at": nil}))
}

func (r *WastageRepo) List(ctx context.Context, filter wastage.ListFilter) (domain.ListResult[*wastage.Record], error) {
	q := r.Select()
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if !filter.IncludeReversed {
		q = q.Where(squirrel.Eq{"reversed_at": nil})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.To})
	}
	return r.Page(ctx, q, filter.Page, "created_at DESC", "id DESC")
}

// ReturnRepo implements product_return.Repository.
type ReturnRepo struct {
	*BaseDocumentRepo[product_return.Return]
}

var _ product_return.Repository = (*ReturnRepo)(nil)

// NewReturnRepo creates a new product return repository.
func NewReturnRepo(txm *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{NewBaseDocumentRepo[product_return.Return](txm, "product_returns", "product return")}
}

func (r *ReturnRepo) Create(ctx context.Context, ret *product_return.Return) error {
	return r.Insert(ctx, ret)
}

func (r *ReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*product_return.Return, error) {
	return r.Get(ctx, returnID, false)
}

func (r *ReturnRepo) GetForUpdate(ctx context.Context, returnID id.ID) (*product_return.Return, error) {
	return r.Get(ctx, returnID, true)
}

// MarkReversed succeeds once per return.
func (r *ReturnRepo) MarkReversed(ctx context.Context, ret *product_return.Return) error {
	return r.UpdateWhere(ctx, ret.ID, r.Update().
		Set("reversed_by", ret.ReversedBy).
		Set("reversed_at", ret.ReversedAt).
		Where(squirrel.Eq{"id": ret.ID, "reversed_at": nil}))
}

func (r *ReturnRepo) List(ctx context.Context, filter product_return.ListFilter) (domain.ListResult[*product_return.Return], error) {
	q := r.Select()
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if !filter.IncludeReversed {
		q = q.Where(squirrel.Eq{"reversed_at": nil})
	}
	return r.Page(ctx, q, filter.Page, "created_at DESC", "id DESC")
}
