// internal/entity/token.go
//
// `verification_codes` table binding.
//
// Context
// -------
// Verification tokens carry a one-shot UUID code mailed to a user after
// registration.  The BeforeCreate hook mints the code when the caller did
// not supply one, so every persisted token has a usable code.
//
// Schema reference (2025-11-20)
//
//	CREATE TABLE verification_codes (
//	    id          INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    user_id     INT UNSIGNED NOT NULL,
//	    code        CHAR(36)     NOT NULL UNIQUE,
//	    is_verified TINYINT(1)   NOT NULL DEFAULT 0,
//	    expires_at  DATETIME NOT NULL,
//	    created_at  DATETIME NOT NULL,
//	    updated_at  DATETIME NOT NULL,
//	    deleted_at  DATETIME NULL
//	);
package entity

import (
	"github.com/google/uuid"

	"github.com/surgemusic/surge/internal/record"
)

// Tokens describes the verification_codes table for the data mapper.
var Tokens = record.Table{
	Name:       "verification_codes",
	Timestamps: true,
	Fillable: []string{
		"user_id",
		"code",
		"created_at",
		"expires_at",
		"updated_at",
		"deleted_at",
		"is_verified",
	},
	BeforeCreate: func(r *record.Record) error {
		if code, _ := r.Get("code"); code == nil || code == "" {
			r.Set("code", uuid.NewString())
		}
		return nil
	},
}

// Token wraps a verification_codes row with typed accessors.
type Token struct{ *record.Record }

// AsToken binds a record to the Token accessors.
func AsToken(r *record.Record) Token { return Token{r} }

// Code returns the verification code.
func (t Token) Code() string { return t.GetString("code") }

// IsVerified reports whether the code has been redeemed.
func (t Token) IsVerified() bool { return t.GetBool("is_verified") }
