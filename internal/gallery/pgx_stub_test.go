package gallery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubDB is an in-memory DBTX that mimics the generations table semantics:
// inserts get an auto id and a strictly increasing timestamp, queries return
// rows newest-first capped at the requested limit.
type stubDB struct {
	rows     []storedRow
	execErr  error
	queryErr error
	nextID   int64
	clock    time.Time
}

type storedRow struct {
	id        int64
	createdAt time.Time
	imageURL  string
	config    []byte
	prompt    string
}

func newStubDB() *stubDB {
	return &stubDB{clock: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *stubDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.execErr != nil {
		return pgconn.CommandTag{}, s.execErr
	}
	if len(args) != 3 {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected args: %v", args)
	}
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	s.rows = append(s.rows, storedRow{
		id:        s.nextID,
		createdAt: s.clock,
		imageURL:  args[0].(string),
		config:    args[1].([]byte),
		prompt:    args[2].(string),
	})
	return pgconn.CommandTag{}, nil
}

func (s *stubDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	limit := args[0].(int)
	sorted := make([]storedRow, len(s.rows))
	copy(sorted, s.rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].createdAt.After(sorted[j].createdAt) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return &stubRows{rows: sorted, idx: -1}, nil
}

func (s *stubDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return stubRow{}
}

type stubRow struct{}

func (stubRow) Scan(dest ...any) error { return pgx.ErrNoRows }

type stubRows struct {
	rows []storedRow
	idx  int
}

func (r *stubRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.idx]
	*dest[0].(*int64) = row.id
	*dest[1].(*time.Time) = row.createdAt
	*dest[2].(*string) = row.imageURL
	*dest[3].(*string) = row.prompt
	return nil
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in stub rows")
}
func (r *stubRows) RawValues() [][]byte { return nil }
func (r *stubRows) Conn() *pgx.Conn     { return nil }
