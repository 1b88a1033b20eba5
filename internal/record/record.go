// internal/record/record.go
//
// Record value: attributes, last-fill snapshot, and dirty tracking.
//
// Context
// -------
// A Record holds the current (possibly unsaved) state of one row as a
// column → scalar map, plus a snapshot taken at the last Fill.  Dirty()
// diffs the two, so it reflects changes made since the last fill, not since
// the row was loaded.  That is a deliberate design choice carried over from
// the previous backend, and callers rely on it.
//
// Records are plain values with no connection handle.  Every request builds
// its own instances; nothing here is safe to share across goroutines.
//
// Notes
// -----
//   - Fill applies the fillable allowlist and silently drops foreign keys.
//   - Set writes one attribute directly and never touches the database;
//     persistence is always an explicit Mapper call.
//   - Attribute values are normalized scalars (string, int64, float64,
//     bool, or nil), so plain == comparison is safe in Dirty().
package record

import (
	"strconv"
	"time"
)

// Record is the in-memory state of one row.
type Record struct {
	table Table
	attrs map[string]any
	orig  map[string]any
}

// New returns an empty record bound to t.
func New(t Table) *Record {
	return &Record{
		table: t,
		attrs: make(map[string]any),
		orig:  make(map[string]any),
	}
}

/*──────────────────────────── fill and dirty ──────────────────────────────*/

// Fill merges data through the fillable allowlist and snapshots the result.
// Keys outside the allowlist are dropped.  Returns the record for chaining.
func (r *Record) Fill(data map[string]any) *Record {
	for k, v := range data {
		if r.table.fillable(k) {
			r.attrs[k] = normalizeValue(v)
		}
	}
	r.resync()
	return r
}

// Dirty returns the attributes whose current value differs from the
// last-fill snapshot.
func (r *Record) Dirty() map[string]any {
	out := make(map[string]any)
	for k, v := range r.attrs {
		if ov, ok := r.orig[k]; !ok || ov != v {
			out[k] = v
		}
	}
	return out
}

// resync snapshots the current attributes, clearing the dirty set.
func (r *Record) resync() {
	r.orig = make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		r.orig[k] = v
	}
}

/*──────────────────────────── accessors ───────────────────────────────────*/

// Set writes one attribute in memory.  It does not persist anything.
func (r *Record) Set(key string, value any) {
	r.attrs[key] = normalizeValue(value)
}

// Get returns the raw attribute value.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.attrs[key]
	return v, ok
}

// GetString returns the attribute as a string, or "" when absent or nil.
func (r *Record) GetString(key string) string {
	switch v := r.attrs[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}

// GetInt64 returns the attribute as an int64.  Numeric strings are parsed;
// anything else yields (0, false).
func (r *Record) GetInt64(key string) (int64, bool) {
	switch v := r.attrs[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// GetBool returns the attribute as a bool.  MySQL TINYINT(1) scans as an
// integer, so 0/1 and "0"/"1" are accepted alongside real bools.
func (r *Record) GetBool(key string) bool {
	switch v := r.attrs[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v == "1" || v == "true"
	default:
		return false
	}
}

// GetTime parses the attribute as a schema DATETIME string.
func (r *Record) GetTime(key string) (time.Time, bool) {
	s, ok := r.attrs[key].(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(timeLayout, s)
	return ts, err == nil
}

// ID returns the primary-key value when populated.
func (r *Record) ID() (int64, bool) {
	return r.GetInt64(r.table.PK())
}

// CreatedAt returns the stored created_at string, or "".
func (r *Record) CreatedAt() string { return r.GetString(createdAtColumn) }

// UpdatedAt returns the stored updated_at string, or "".
func (r *Record) UpdatedAt() string { return r.GetString(updatedAtColumn) }

// Attributes returns a copy of the current attribute map.
func (r *Record) Attributes() map[string]any {
	out := make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// Table returns the descriptor the record is bound to.
func (r *Record) Table() Table { return r.table }

/*──────────────────────────── soft-delete state ───────────────────────────*/

// IsSoftDeleted reports whether deleted_at is populated.
func (r *Record) IsSoftDeleted() bool {
	v, ok := r.attrs[deletedAtColumn]
	if !ok || v == nil {
		return false
	}
	s, isStr := v.(string)
	return !isStr || s != ""
}

/*──────────────────────────── internals ───────────────────────────────────*/

// fillableAttributes returns the attributes restricted to the fillable
// allowlist, for UPDATE statements driven by Save and SoftDelete.
func (r *Record) fillableAttributes() map[string]any {
	out := make(map[string]any)
	for k, v := range r.attrs {
		if r.table.fillable(k) {
			out[k] = v
		}
	}
	return out
}

// setRaw bypasses the allowlist.  The mapper uses it to inject the primary
// key and timestamp columns.
func (r *Record) setRaw(key string, value any) {
	r.attrs[key] = normalizeValue(value)
}

// normalizeValue coerces driver scan types into comparable scalars: []byte
// becomes string, and time.Time is rendered in the schema layout.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(timeLayout)
	default:
		return v
	}
}
