// internal/auth/password_test.go
//
// Unit-tests for the bcrypt helpers.
//
// Run: go test ./internal/auth -v

package auth

import (
	"strings"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("not a bcrypt hash: %q", hash)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in the clear")
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("correct horse battery staple", "") {
		t.Error("empty hash accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, _ := HashPassword("secret123")
	b, _ := HashPassword("secret123")
	if a == b {
		t.Error("two hashes of one password must differ")
	}
}
