// Package pgtest provides a scripted postgres.Querier for repository tests
// that assert on generated SQL without a database.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

// Result scripts the answer to one statement. A zero Result is an empty
// result set.
type Result struct {
	Columns []string
	Rows    [][]any
	Tag     pgconn.CommandTag
	Err     error
}

// Row builds a single-row result.
func Row(columns []string, values ...any) Result {
	return Result{Columns: columns, Rows: [][]any{values}}
}

// Call is one recorded statement.
type Call struct {
	SQL  string
	Args []any
}

// Recorder answers statements in order from its script and records them.
type Recorder struct {
	mu      sync.Mutex
	results []Result
	calls   []Call
}

var (
	_ postgres.Querier       = (*Recorder)(nil)
	_ postgres.QuerierSource = (*Recorder)(nil)
)

// NewRecorder creates a Recorder that replies with results in order. Once
// the script runs out every statement gets an empty result.
func NewRecorder(results ...Result) *Recorder {
	return &Recorder{results: results}
}

// GetQuerier returns the recorder itself regardless of ctx.
func (r *Recorder) GetQuerier(context.Context) postgres.Querier { return r }

// Calls returns the recorded statements.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

func (r *Recorder) next(sql string, args []any) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{SQL: sql, Args: args})
	if len(r.results) == 0 {
		return Result{}
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res
}

// Exec implements postgres.Querier.
func (r *Recorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	res := r.next(sql, args)
	return res.Tag, res.Err
}

// Query implements postgres.Querier.
func (r *Recorder) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	res := r.next(sql, args)
	if res.Err != nil {
		return nil, res.Err
	}
	return &rows{res: res, pos: -1}, nil
}

// QueryRow implements postgres.Querier.
func (r *Recorder) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	res := r.next(sql, args)
	return &row{rows: rows{res: res, pos: -1}}
}

type rows struct {
	res    Result
	pos    int
	closed bool
}

func (r *rows) Close()                        { r.closed = true }
func (r *rows) Err() error                    { return nil }
func (r *rows) CommandTag() pgconn.CommandTag { return r.res.Tag }
func (r *rows) RawValues() [][]byte           { return nil }
func (r *rows) Conn() *pgx.Conn               { return nil }

func (r *rows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.res.Columns))
	for i, c := range r.res.Columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.res.Rows) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *rows) Values() ([]any, error) {
	if r.pos < 0 || r.pos >= len(r.res.Rows) {
		return nil, fmt.Errorf("pgtest: no current row")
	}
	return r.res.Rows[r.pos], nil
}

func (r *rows) Scan(dest ...any) error {
	values, err := r.Values()
	if err != nil {
		return err
	}
	if len(dest) != len(values) {
		return fmt.Errorf("pgtest: scan %d values into %d targets", len(values), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, values[i]); err != nil {
			return fmt.Errorf("pgtest: column %d: %w", i, err)
		}
	}
	return nil
}

type row struct {
	rows rows
}

func (r *row) Scan(dest ...any) error {
	if r.rows.res.Err != nil {
		return r.rows.res.Err
	}
	if !r.rows.Next() {
		return pgx.ErrNoRows
	}
	return r.rows.Scan(dest...)
}

func assign(dest, value any) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("target %T is not a pointer", dest)
	}
	if value == nil {
		target.Elem().Set(reflect.Zero(target.Elem().Type()))
		return nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target.Elem().Type()) {
		target.Elem().Set(v)
		return nil
	}
	if s, ok := dest.(sql.Scanner); ok {
		return s.Scan(value)
	}
	return fmt.Errorf("cannot assign %T to %T", value, dest)
}
