// internal/cookie/cookie.go
//
// Session-cookie helpers.
//
// Context
//   Authorization reads a session id from a cookie named "surge_session";
//   the id points at a row in the logins table, which is where validity and
//   expiry actually live.  The cookie itself is just the token carrier, so
//   these helpers stay tiny: set after login, read on every request, clear
//   on logout.  All callers rely only on this API, so swapping the carrier
//   (e.g., an Authorization header) later is painless.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package cookie

import (
	"net/http"
	"strconv"
	"time"
)

// Name is the fixed session-cookie name.
const Name = "surge_session"

// maxAge mirrors the session record's six-month expiry.
const maxAge = 6 * 30 * 24 * time.Hour

// SetSession stores the login id in the session cookie.
//
// Callers invoke this after the session row has been persisted.
func SetSession(w http.ResponseWriter, r *http.Request, loginID int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strconv.FormatInt(loginID, 10),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(maxAge),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// SessionToken returns the raw token stored in the session cookie.
//
// ok == false when the cookie is missing or empty.
func SessionToken(r *http.Request) (token string, ok bool) {
	c, err := r.Cookie(Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
