package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Builder returns a squirrel builder with PostgreSQL placeholder format.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// SelectPage counts the rows matched by q, then fetches one ordered page.
func SelectPage[T any](ctx context.Context, querier Querier, q squirrel.SelectBuilder, page domain.Page, orderBy ...string) (domain.ListResult[T], error) {
	page = page.Normalize()
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	countSQL, countArgs, err := Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}
	if result.TotalCount == 0 {
		return result, nil
	}

	sql, args, err := q.OrderBy(orderBy...).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build list query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}
