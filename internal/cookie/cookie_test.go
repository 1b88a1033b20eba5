// internal/cookie/cookie_test.go
//
// Unit-tests for the session-cookie helpers.
//
// Run: go test ./internal/cookie -v

package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetAndReadSession(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	SetSession(rr, req, 42)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != Name || c.Value != "42" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if c.Secure {
		t.Error("plain-HTTP request must not set Secure")
	}

	// Round-trip: a request carrying the cookie yields the token back.
	next := httptest.NewRequest(http.MethodGet, "/songs", nil)
	next.AddCookie(c)
	token, ok := SessionToken(next)
	if !ok || token != "42" {
		t.Errorf("SessionToken = %q, %v", token, ok)
	}
}

func TestSecureOverTLS(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "https://surge.example/auth/login", nil)

	SetSession(rr, req, 7)
	if c := rr.Result().Cookies()[0]; !c.Secure {
		t.Error("TLS request must set the Secure flag")
	}
}

func TestClearSession(t *testing.T) {
	rr := httptest.NewRecorder()
	ClearSession(rr)

	c := rr.Result().Cookies()[0]
	if c.Name != Name || c.Value != "" || c.MaxAge != -1 {
		t.Errorf("clear cookie = %+v", c)
	}
}

func TestSessionTokenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/songs", nil)
	if _, ok := SessionToken(req); ok {
		t.Error("missing cookie reported ok")
	}
}
