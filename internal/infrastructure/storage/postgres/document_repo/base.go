// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo provides the header operations shared by every document
// table. Column lists come from the "db" tags of T.
type BaseDocumentRepo[T any] struct {
	txm        postgres.QuerierSource
	tableName  string
	entityName string
	selectCols []string
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](txm postgres.QuerierSource, tableName, entityName string) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		selectCols: postgres.ExtractDBColumns[T](),
	}
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Insert writes one header row.
func (r *BaseDocumentRepo[T]) Insert(ctx context.Context, doc *T) error {
	data := postgres.Pick(postgres.StructToMap(doc), r.selectCols)
	return r.exec(ctx, postgres.Builder().Insert(r.tableName).SetMap(data), "insert")
}

// Select starts a query over the header columns.
func (r *BaseDocumentRepo[T]) Select() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.selectCols...).From(r.tableName)
}

// Get loads one header, optionally row-locking it for the rest of the unit of work.
func (r *BaseDocumentRepo[T]) Get(ctx context.Context, docID id.ID, forUpdate bool) (*T, error) {
	q := r.Select().Where(squirrel.Eq{"id": docID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := new(T)
	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.entityName, docID.String())
		}
		return nil, fmt.Errorf("get %s: %w", r.entityName, err)
	}
	return doc, nil
}

// Page lists headers matched by q.
func (r *BaseDocumentRepo[T]) Page(ctx context.Context, q squirrel.SelectBuilder, page domain.Page, orderBy ...string) (domain.ListResult[*T], error) {
	return postgres.SelectPage[*T](ctx, r.querier(ctx), q, page, orderBy...)
}

// UpdateWhere runs an UPDATE and reports NotFound when nothing matched.
// A matched id with a failed guard yields CONCURRENT_MODIFICATION.
func (r *BaseDocumentRepo[T]) UpdateWhere(ctx context.Context, docID id.ID, q squirrel.UpdateBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "update", r.entityName)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.Get(ctx, docID, false); err != nil {
		return err
	}
	return apperror.NewConcurrentModification(r.entityName, docID.String())
}

// Update starts an UPDATE of the header table.
func (r *BaseDocumentRepo[T]) Update() squirrel.UpdateBuilder {
	return postgres.Builder().Update(r.tableName)
}

func (r *BaseDocumentRepo[T]) exec(ctx context.Context, q squirrel.Sqlizer, op string) error {
	_, err := execSqlizer(ctx, r.querier(ctx), q)
	if err != nil {
		return postgres.MapError(err, op, r.entityName)
	}
	return nil
}

func execSqlizer(ctx context.Context, q postgres.Querier, s squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := s.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build statement: %w", err)
	}
	return q.Exec(ctx, sql, args...)
}

// selectLines loads child rows of one document ordered by orderBy.
func selectLines[L any](ctx context.Context, q postgres.Querier, table, fk string, docID id.ID, orderBy ...string) ([]*L, error) {
	sql, args, err := postgres.Builder().
		Select(postgres.ExtractDBColumns[L]()...).
		From(table).
		Where(squirrel.Eq{fk: docID}).
		OrderBy(orderBy...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	lines := []*L{}
	if err := pgxscan.Select(ctx, q, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return lines, nil
}
