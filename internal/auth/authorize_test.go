// internal/auth/authorize_test.go
//
// Unit-tests for session-token authorization using sqlmock.
//
// Run: go test ./internal/auth -v

package auth

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// expectSessionRow wires the logins lookup for one token resolution.
func expectSessionRow(mock sqlmock.Sqlmock, id int64, isValid int64, expiresAt string, deletedAt any) {
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM logins WHERE id = ? LIMIT 1`,
	)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "is_valid", "expires_at", "deleted_at"}).
			AddRow(id, int64(3), isValid, expiresAt, deletedAt))
}

func TestAuthorizeLiveSession(t *testing.T) {
	s, mock := newTestService(t)
	expectSessionRow(mock, 77, 1, "2026-09-14 00:00:00", nil)

	authz := s.Authorize(context.Background(), "77")
	if !authz.IsAuthorized() {
		t.Fatal("live session rejected")
	}
	if userID, _ := authz.UserID(); userID != 3 {
		t.Errorf("user id = %d, want 3", userID)
	}
	if sessionID, _ := authz.SessionID(); sessionID != 77 {
		t.Errorf("session id = %d, want 77", sessionID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestAuthorizeRejectsDeadSessions(t *testing.T) {
	cases := []struct {
		name      string
		isValid   int64
		expiresAt string
		deletedAt any
	}{
		{"expired", 1, "2026-01-01 00:00:00", nil},
		{"invalidated", 0, "2026-09-14 00:00:00", nil},
		{"soft deleted", 1, "2026-09-14 00:00:00", "2026-02-01 00:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newTestService(t)
			expectSessionRow(mock, 77, tc.isValid, tc.expiresAt, tc.deletedAt)

			if authz := s.Authorize(context.Background(), "77"); authz.IsAuthorized() {
				t.Error("dead session authorized")
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet SQL expectations: %v", err)
			}
		})
	}
}

func TestAuthorizeRejectsGarbageTokens(t *testing.T) {
	s, mock := newTestService(t)

	for _, token := range []string{"", "abc", "-5", "0", "77; DROP TABLE logins"} {
		if authz := s.Authorize(context.Background(), token); authz.IsAuthorized() {
			t.Errorf("token %q authorized", token)
		}
	}
	// None of those may reach the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("garbage token hit the database: %v", err)
	}
}

func TestAuthorizeUnknownSession(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM logins WHERE id = ? LIMIT 1`,
	)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if authz := s.Authorize(context.Background(), "404"); authz.IsAuthorized() {
		t.Error("unknown session authorized")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
