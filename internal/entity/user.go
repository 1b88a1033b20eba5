// internal/entity/user.go
//
// `users` table binding.
//
// Context
// -------
// Users carries the account profile plus the bcrypt password hash and the
// verification / terms flags.  The fillable list mirrors the schema; the
// primary key is injected by the mapper and is deliberately absent here.
//
// Schema reference (2025-11-20)
//
//	CREATE TABLE users (
//	    id                 INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    first_name         VARCHAR(64)   NOT NULL,
//	    last_name          VARCHAR(64)   NOT NULL,
//	    username           VARCHAR(64)   NOT NULL UNIQUE,
//	    email              VARCHAR(128)  NOT NULL UNIQUE,
//	    phone              VARCHAR(32)   NULL,
//	    image              VARCHAR(256)  NULL,
//	    password           VARCHAR(128)  NOT NULL,
//	    verified_at        DATETIME NULL,
//	    is_verified        TINYINT(1)    NOT NULL DEFAULT 0,
//	    is_agreed_to_terms TINYINT(1)    NOT NULL DEFAULT 0,
//	    google_id          VARCHAR(64)   NULL,
//	    provider           VARCHAR(16)   NOT NULL DEFAULT 'local',
//	    created_at         DATETIME NOT NULL,
//	    updated_at         DATETIME NOT NULL,
//	    deleted_at         DATETIME NULL
//	);
package entity

import "github.com/surgemusic/surge/internal/record"

// Users describes the users table for the data mapper.
var Users = record.Table{
	Name:       "users",
	Timestamps: true,
	Fillable: []string{
		"first_name",
		"last_name",
		"username",
		"email",
		"phone",
		"image",
		"password",
		"created_at",
		"updated_at",
		"deleted_at",
		"verified_at",
		"is_verified",
		"is_agreed_to_terms",
		"google_id",
		"provider",
	},
}

// User wraps a users row with typed accessors.
type User struct{ *record.Record }

// AsUser binds a record to the User accessors.  The record must come from
// the Users table.
func AsUser(r *record.Record) User { return User{r} }

// Email returns the account email.
func (u User) Email() string { return u.GetString("email") }

// Username returns the account handle.
func (u User) Username() string { return u.GetString("username") }

// PasswordHash returns the stored bcrypt hash.
func (u User) PasswordHash() string { return u.GetString("password") }

// IsVerified reports whether the account passed email verification.
func (u User) IsVerified() bool { return u.GetBool("is_verified") }
