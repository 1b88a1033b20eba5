// internal/record/errors.go
//
// Error taxonomy for the data mapper.
//
// Context
// -------
// Lookup misses are not errors: Find and FindBy return (nil, nil).  Invalid
// write input surfaces as *ValidationError so callers can render the field
// detail; anything the driver reports is wrapped and propagated untouched.
// The mapper never retries and never panics across its boundary.
package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInsert is returned by BulkInsert when no rows are supplied.
var ErrEmptyInsert = errors.New("record: bulk insert requires at least one row")

// ValidationError reports write input that violates the table descriptor,
// such as update keys outside the fillable allowlist or an unknown column
// in a query scope.
type ValidationError struct {
	Table   string
	Columns []string // offending column names
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record: %s: %s: %s",
		e.Table, e.Reason, strings.Join(e.Columns, ", "))
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
