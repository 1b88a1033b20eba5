// internal/record/mapper.go
//
// Generic persistence engine: CRUD and pagination over one table.
//
// Context
// -------
// A Mapper binds a live *sqlx.DB to a Table descriptor and executes single
// autocommit statements against it.  Entity packages embed a Mapper per
// table instead of inheriting from a base model, so there is no hidden
// shared state: records come back as fresh values, scopes are per-call
// Query values, and the caller decides when anything is persisted.
//
// Statement shape is built with squirrel using ? placeholders; column and
// operator names pass the descriptor allowlist before they reach the SQL
// string, and every value is parameter-bound.
//
// Failure policy
// --------------
// Lookup misses return (nil, nil).  Bad write input returns
// *ValidationError.  Driver errors are wrapped with the table and verb and
// propagated; translation into user-facing envelopes happens in the
// calling layer, never here.
package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/surgemusic/surge/internal/metrics"
)

// Mapper executes statements for one table.
type Mapper struct {
	db    *sqlx.DB
	table Table
	now   func() time.Time // injectable for tests
}

// NewMapper binds db to the given table descriptor.
func NewMapper(db *sqlx.DB, t Table) *Mapper {
	return &Mapper{db: db, table: t, now: time.Now}
}

// Table returns the bound descriptor.
func (m *Mapper) Table() Table { return m.table }

/*──────────────────────────── lookups ─────────────────────────────────────*/

// Find fetches one row by primary key, narrowed by any scope in q.  A miss
// returns (nil, nil).
func (m *Mapper) Find(ctx context.Context, id int64, q *Query) (*Record, error) {
	b := sq.Select("*").From(m.table.Name).Where(sq.Eq{m.table.PK(): id})
	b, err := q.apply(m.table, b)
	if err != nil {
		return nil, err
	}
	return m.selectOne(ctx, b.Limit(1))
}

// FindBy fetches one row keyed by an arbitrary column.  The column name is
// validated against the table descriptor before it is interpolated; only
// the value is bound.
func (m *Mapper) FindBy(ctx context.Context, column string, value any, q *Query) (*Record, error) {
	if !m.table.HasColumn(column) {
		return nil, &ValidationError{Table: m.table.Name, Columns: []string{column}, Reason: "unknown lookup column"}
	}
	b := sq.Select("*").From(m.table.Name).Where(sq.Eq{column: value})
	b, err := q.apply(m.table, b)
	if err != nil {
		return nil, err
	}
	return m.selectOne(ctx, b.Limit(1))
}

// Select returns every row matching the scope, as fresh records.
func (m *Mapper) Select(ctx context.Context, q *Query) ([]*Record, error) {
	b, err := q.apply(m.table, sq.Select("*").From(m.table.Name))
	if err != nil {
		return nil, err
	}
	rows, err := m.selectMaps(ctx, b)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, m.recordFromRow(row))
	}
	return out, nil
}

/*──────────────────────────── writes ──────────────────────────────────────*/

// Create inserts a new row from data, filtered through the fillable
// allowlist, and returns the persisted record with its generated primary
// key and (when enabled) equal created_at / updated_at stamps.
func (m *Mapper) Create(ctx context.Context, data map[string]any) (*Record, error) {
	rec := New(m.table).Fill(data)
	if err := m.createRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// createRecord persists rec as a new row.  Shared by Create and Save.
func (m *Mapper) createRecord(ctx context.Context, rec *Record) error {
	if err := m.runHook(m.table.BeforeCreate, rec); err != nil {
		return err
	}
	if m.table.Timestamps {
		now := m.now().UTC().Format(timeLayout)
		rec.setRaw(createdAtColumn, now)
		rec.setRaw(updatedAtColumn, now)
	}

	cols, vals := m.fillablePairs(rec)
	res, err := m.exec(ctx, "insert", sq.Insert(m.table.Name).Columns(cols...).Values(vals...))
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.setRaw(m.table.PK(), id)
	}
	rec.resync()
	return m.runHook(m.table.AfterCreate, rec)
}

// Update issues an UPDATE over the fillable intersection of data.  Any key
// outside the allowlist fails with *ValidationError before the database is
// touched.
func (m *Mapper) Update(ctx context.Context, id int64, data map[string]any) error {
	if bad := m.table.invalidColumns(data); len(bad) > 0 {
		return &ValidationError{Table: m.table.Name, Columns: bad, Reason: "invalid update columns"}
	}

	rec := New(m.table).Fill(data)
	if m.table.Timestamps {
		rec.setRaw(updatedAtColumn, m.now().UTC().Format(timeLayout))
	}

	cols, vals := m.fillablePairs(rec)
	b := sq.Update(m.table.Name)
	for i, c := range cols {
		b = b.Set(c, vals[i])
	}
	_, err := m.exec(ctx, "update", b.Where(sq.Eq{m.table.PK(): id}))
	return err
}

// Save persists rec: an UPDATE when the primary key is populated, an
// INSERT otherwise.  The update path restricts itself to the fillable
// attributes, so injected columns never trip the allowlist check.
func (m *Mapper) Save(ctx context.Context, rec *Record) error {
	id, ok := rec.ID()
	if !ok {
		return m.createRecord(ctx, rec)
	}
	return m.Update(ctx, id, rec.fillableAttributes())
}

// Delete hard-deletes by primary key, wrapped in the delete hooks.
func (m *Mapper) Delete(ctx context.Context, id int64) error {
	if err := m.runDeleteHook(m.table.BeforeDelete, id); err != nil {
		return err
	}
	if _, err := m.exec(ctx, "delete", sq.Delete(m.table.Name).Where(sq.Eq{m.table.PK(): id})); err != nil {
		return err
	}
	return m.runDeleteHook(m.table.AfterDelete, id)
}

// BulkInsert writes rows in one multi-row INSERT.  All rows share the
// column set of the first; empty input fails with ErrEmptyInsert.
func (m *Mapper) BulkInsert(ctx context.Context, rows []map[string]any) error {
	if len(rows) == 0 {
		return ErrEmptyInsert
	}

	// Columns come from the first row, in descriptor order, and must all be
	// known to the table.
	var cols []string
	for _, c := range m.table.Columns() {
		if _, ok := rows[0][c]; ok {
			cols = append(cols, c)
		}
	}
	if len(cols) != len(rows[0]) {
		return &ValidationError{Table: m.table.Name, Columns: m.table.invalidColumns(rows[0]), Reason: "unknown bulk insert columns"}
	}

	b := sq.Insert(m.table.Name).Columns(cols...)
	for _, row := range rows {
		vals := make([]any, len(cols))
		for i, c := range cols {
			vals[i] = normalizeValue(row[c])
		}
		b = b.Values(vals...)
	}
	_, err := m.exec(ctx, "insert", b)
	return err
}

/*──────────────────────────── soft delete ─────────────────────────────────*/

// SoftDelete stamps deleted_at and saves the record.
func (m *Mapper) SoftDelete(ctx context.Context, rec *Record) error {
	rec.Set(deletedAtColumn, m.now().UTC().Format(timeLayout))
	return m.Save(ctx, rec)
}

// Restore clears deleted_at and saves the record.
func (m *Mapper) Restore(ctx context.Context, rec *Record) error {
	rec.Set(deletedAtColumn, nil)
	return m.Save(ctx, rec)
}

// ForceDelete removes the row permanently.
func (m *Mapper) ForceDelete(ctx context.Context, id int64) error {
	return m.Delete(ctx, id)
}

/*──────────────────────────── pagination ──────────────────────────────────*/

// Pagination describes the position of one page within the full result.
type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int64 `json:"last_page"`
}

// Page is the result envelope for GetAllPaginated.
type Page struct {
	Data       []map[string]any `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// Paginate returns one page of rows as raw column maps.
func (m *Mapper) Paginate(ctx context.Context, q *Query, perPage, page int) ([]map[string]any, error) {
	perPage, page = clampPaging(perPage, page)
	b, err := q.apply(m.table, sq.Select("*").From(m.table.Name))
	if err != nil {
		return nil, err
	}
	offset := uint64(page-1) * uint64(perPage)
	return m.selectMaps(ctx, b.Limit(uint64(perPage)).Offset(offset))
}

// GetAllPaginated returns one page plus pagination metadata.  The COUNT
// sees the same predicates as the data query, so the page math stays
// consistent under a filtered scope.
func (m *Mapper) GetAllPaginated(ctx context.Context, q *Query, perPage, page int) (*Page, error) {
	perPage, page = clampPaging(perPage, page)

	data, err := m.Paginate(ctx, q, perPage, page)
	if err != nil {
		return nil, err
	}

	cb, err := q.applyWheres(m.table, sq.Select("COUNT(*)").From(m.table.Name))
	if err != nil {
		return nil, err
	}
	query, args, err := cb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("record: count %s: %w", m.table.Name, err)
	}
	var total int64
	if err := m.db.GetContext(ctx, &total, query, args...); err != nil {
		metrics.RecordQueryErrorsTotal.Inc()
		return nil, fmt.Errorf("record: count %s: %w", m.table.Name, err)
	}
	metrics.RecordQueriesTotal.Inc()

	lastPage := (total + int64(perPage) - 1) / int64(perPage)
	return &Page{
		Data: data,
		Pagination: Pagination{
			Total:       total,
			PerPage:     perPage,
			CurrentPage: page,
			LastPage:    lastPage,
		},
	}, nil
}

func clampPaging(perPage, page int) (int, int) {
	if perPage < 1 {
		perPage = 10
	}
	if page < 1 {
		page = 1
	}
	return perPage, page
}

/*──────────────────────────── plumbing ────────────────────────────────────*/

// selectOne runs b and scans a single row, mapping sql.ErrNoRows to a nil
// record.
func (m *Mapper) selectOne(ctx context.Context, b sq.SelectBuilder) (*Record, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("record: select %s: %w", m.table.Name, err)
	}
	row := make(map[string]any)
	if err := m.db.QueryRowxContext(ctx, query, args...).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.RecordQueriesTotal.Inc()
			return nil, nil
		}
		metrics.RecordQueryErrorsTotal.Inc()
		return nil, fmt.Errorf("record: select %s: %w", m.table.Name, err)
	}
	metrics.RecordQueriesTotal.Inc()
	return m.recordFromRow(row), nil
}

// selectMaps runs b and scans every row into a normalized column map.
func (m *Mapper) selectMaps(ctx context.Context, b sq.SelectBuilder) ([]map[string]any, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("record: select %s: %w", m.table.Name, err)
	}
	rows, err := m.db.QueryxContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQueryErrorsTotal.Inc()
		return nil, fmt.Errorf("record: select %s: %w", m.table.Name, err)
	}
	defer rows.Close()

	out := make([]map[string]any, 0, 16)
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("record: scan %s: %w", m.table.Name, err)
		}
		for k, v := range row {
			row[k] = normalizeValue(v)
		}
		out = append(out, row)
	}
	metrics.RecordQueriesTotal.Inc()
	return out, rows.Err()
}

// recordFromRow builds a fresh record from a scanned row: fillable columns
// go through Fill, the primary key is injected directly.
func (m *Mapper) recordFromRow(row map[string]any) *Record {
	rec := New(m.table).Fill(row)
	if v, ok := row[m.table.PK()]; ok {
		rec.setRaw(m.table.PK(), v)
	}
	rec.resync()
	return rec
}

// fillablePairs lists the fillable attributes present on rec, in descriptor
// order, ready for INSERT / UPDATE column lists.
func (m *Mapper) fillablePairs(rec *Record) ([]string, []any) {
	var cols []string
	var vals []any
	for _, c := range m.table.Fillable {
		if v, ok := rec.attrs[c]; ok {
			cols = append(cols, c)
			vals = append(vals, v)
		}
	}
	return cols, vals
}

type sqlizer interface {
	ToSql() (string, []any, error)
}

// exec renders b and runs it, tracking query metrics.
func (m *Mapper) exec(ctx context.Context, verb string, b sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("record: %s %s: %w", verb, m.table.Name, err)
	}
	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQueryErrorsTotal.Inc()
		return nil, fmt.Errorf("record: %s %s: %w", verb, m.table.Name, err)
	}
	metrics.RecordQueriesTotal.Inc()
	return res, nil
}

func (m *Mapper) runHook(h Hook, rec *Record) error {
	if h == nil {
		return nil
	}
	return h(rec)
}

func (m *Mapper) runDeleteHook(h DeleteHook, id int64) error {
	if h == nil {
		return nil
	}
	return h(id)
}
