// internal/record/table.go
//
// Table descriptor for the generic data mapper.
//
// Context
// -------
// A Table describes one relation: its name, primary key, the fillable
// column allowlist, and the timestamp policy.  Entity packages declare one
// Table value per backing table and hand it to a Mapper; the descriptor is
// plain data and carries no connection handle, so it is safe to share.
//
// The fillable allowlist is the single guard against mass assignment.
// Every bulk write funnels through it; the primary key and the timestamp
// columns are the only attributes the mapper injects directly.
//
// Notes
// -----
//   - Lifecycle hooks are optional.  A nil hook is skipped.
//   - Column names are validated against Columns() before they are ever
//     interpolated into SQL; values are always parameter-bound.
//   - Oxford commas, two spaces after periods.
package record

// Hook runs around a mapper insert.  Hooks receive the in-flight record and
// may mutate it; returning an error aborts the statement.  Updates bypass
// these hooks so partial writes never trip create-time defaults.
type Hook func(*Record) error

// DeleteHook runs around a hard delete, keyed by primary key only.
type DeleteHook func(id int64) error

// Table describes one relation and its write policy.
type Table struct {
	Name       string
	PrimaryKey string   // defaults to "id"
	Fillable   []string // mass-assignment allowlist
	Timestamps bool     // stamp created_at / updated_at on writes

	BeforeCreate Hook
	AfterCreate  Hook
	BeforeDelete DeleteHook
	AfterDelete  DeleteHook
}

// Timestamp column names are fixed across the schema.
const (
	createdAtColumn = "created_at"
	updatedAtColumn = "updated_at"
	deletedAtColumn = "deleted_at"
)

// timeLayout matches the DATETIME format the schema stores.
const timeLayout = "2006-01-02 15:04:05"

/*──────────────────────────── helpers ─────────────────────────────────────*/

// PK returns the primary-key column, defaulting to "id".
func (t Table) PK() string {
	if t.PrimaryKey == "" {
		return "id"
	}
	return t.PrimaryKey
}

// Columns returns every column the mapper may touch: the primary key, the
// fillable set, and the timestamp columns.  Order is stable: pk first, then
// fillable order, then any timestamp column not already listed.
func (t Table) Columns() []string {
	cols := make([]string, 0, len(t.Fillable)+4)
	seen := make(map[string]struct{}, len(t.Fillable)+4)
	add := func(c string) {
		if _, dup := seen[c]; dup || c == "" {
			return
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	add(t.PK())
	for _, c := range t.Fillable {
		add(c)
	}
	if t.Timestamps {
		add(createdAtColumn)
		add(updatedAtColumn)
	}
	return cols
}

// HasColumn reports whether name is a column this table knows about.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// fillable reports whether name is in the mass-assignment allowlist.
func (t Table) fillable(name string) bool {
	for _, c := range t.Fillable {
		if c == name {
			return true
		}
	}
	return false
}

// invalidColumns returns the keys of data that are outside the fillable
// allowlist, in a stable (sorted) order.
func (t Table) invalidColumns(data map[string]any) []string {
	var bad []string
	for k := range data {
		if !t.fillable(k) {
			bad = append(bad, k)
		}
	}
	sortStrings(bad)
	return bad
}

// sortStrings is a tiny insertion sort; column lists are short.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
