package repository

import (
	"context"
	"database/sql"
	"errors"

	"skill-swap/internal/database"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func errRow(err error) fakeRow {
	return fakeRow{scan: func(...any) error { return err }}
}

type fakeRows struct {
	rows []fakeRow
	i    int
	err  error

	closed bool
}

func (r *fakeRows) Close() { r.closed = true }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.i-1].Scan(dest...) }
func (r *fakeRows) Err() error             { return r.err }

type call struct {
	query string
	args  []any
}

// fakeDB answers QueryRow with the queued rows in order and Query with rows.
type fakeDB struct {
	rowQueue []database.Row
	rows     *fakeRows
	queryErr error

	calls []call
}

func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close() error               { return nil }

func (d *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	d.calls = append(d.calls, call{query: query, args: args})
	return 0, nil
}

func (d *fakeDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	d.calls = append(d.calls, call{query: query, args: args})
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	if d.rows == nil {
		return &fakeRows{}, nil
	}
	return d.rows, nil
}

func (d *fakeDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	d.calls = append(d.calls, call{query: query, args: args})
	if len(d.rowQueue) == 0 {
		return errRow(sql.ErrNoRows)
	}
	r := d.rowQueue[0]
	d.rowQueue = d.rowQueue[1:]
	return r
}

func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (d *fakeDB) SQLDB() *sql.DB { return nil }
