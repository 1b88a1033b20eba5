// internal/entity/login.go
//
// `logins` table binding: one row per issued session.
//
// Context
// -------
// A login row binds a user id to the client fingerprint captured at
// authentication time (IP, user agent, coarse location), a validity flag,
// and a six-month expiry.  A session is live only while the row is not
// soft-deleted, is_valid is set, and expires_at lies in the future; the
// authorization flow checks all three.
//
// Schema reference (2025-11-20)
//
//	CREATE TABLE logins (
//	    id         INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    user_id    INT UNSIGNED NOT NULL,
//	    ip_address VARCHAR(45)  NOT NULL,
//	    user_agent VARCHAR(512) NOT NULL,
//	    location   VARCHAR(128) NOT NULL,
//	    is_valid   TINYINT(1)   NOT NULL DEFAULT 1,
//	    expires_at DATETIME NOT NULL,
//	    created_at DATETIME NOT NULL,
//	    updated_at DATETIME NOT NULL,
//	    deleted_at DATETIME NULL
//	);
package entity

import (
	"time"

	"github.com/surgemusic/surge/internal/record"
)

// SessionTTL is how long an issued session stays valid.
const SessionTTL = 6 // months

// Logins describes the logins table for the data mapper.
var Logins = record.Table{
	Name:       "logins",
	Timestamps: true,
	Fillable: []string{
		"user_id",
		"ip_address",
		"user_agent",
		"location",
		"is_valid",
		"created_at",
		"updated_at",
		"expires_at",
		"deleted_at",
	},
}

// Login wraps a logins row with typed accessors.
type Login struct{ *record.Record }

// AsLogin binds a record to the Login accessors.
func AsLogin(r *record.Record) Login { return Login{r} }

// UserID returns the id of the user the session belongs to.
func (l Login) UserID() (int64, bool) { return l.GetInt64("user_id") }

// IsValid reports the session validity flag.
func (l Login) IsValid() bool { return l.GetBool("is_valid") }

// ExpiresAt returns the stored expiry instant.
func (l Login) ExpiresAt() (time.Time, bool) { return l.GetTime("expires_at") }

// IsExpired reports whether the session expiry has passed.  A row without a
// parseable expires_at counts as expired; better to re-authenticate than to
// honor a malformed session.
func (l Login) IsExpired(now time.Time) bool {
	exp, ok := l.ExpiresAt()
	if !ok {
		return true
	}
	return !exp.After(now)
}

// IsLive reports whether the session authorizes requests at the given
// instant: not soft-deleted, flagged valid, and not expired.
func (l Login) IsLive(now time.Time) bool {
	return !l.IsSoftDeleted() && l.IsValid() && !l.IsExpired(now)
}
