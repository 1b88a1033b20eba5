// internal/auth/authorize.go
//
// Authorization flow: session token → validated user id.
//
// Context
// -------
// The client presents an opaque session token (the login row's primary
// key, carried in a cookie).  Authorize resolves it to a logins row and
// treats the session as live only when the row exists, is not
// soft-deleted, still has its validity flag, and has not passed its
// expiry.  Expired-but-not-invalidated sessions are rejected the same as
// revoked ones; invalidation remains a separate explicit step for revoking
// a session early.
//
// Every failure mode, including a database error, resolves to "not
// authorized".  The flow fails closed.
package auth

import (
	"context"
	"strconv"

	"github.com/surgemusic/surge/internal/entity"
)

// Authorization is the resolved identity for one request.  The zero value
// is unauthorized.
type Authorization struct {
	userID    int64
	sessionID int64
	ok        bool
}

// IsAuthorized reports whether a live session resolved to a user.
func (a Authorization) IsAuthorized() bool { return a.ok }

// UserID returns the authenticated user's id.
func (a Authorization) UserID() (int64, bool) { return a.userID, a.ok }

// SessionID returns the id of the session row backing this authorization.
func (a Authorization) SessionID() (int64, bool) { return a.sessionID, a.ok }

// Authorize resolves a raw session token into an Authorization.
func (s *Service) Authorize(ctx context.Context, token string) Authorization {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id < 1 {
		return Authorization{}
	}

	rec, err := s.logins.Find(ctx, id, nil)
	if err != nil {
		s.log.Errorw("session lookup failed", "session_id", id, "err", err)
		return Authorization{}
	}
	if rec == nil {
		return Authorization{}
	}

	login := entity.AsLogin(rec)
	if !login.IsLive(s.now().UTC()) {
		return Authorization{}
	}

	userID, ok := login.UserID()
	if !ok {
		return Authorization{}
	}
	return Authorization{userID: userID, sessionID: id, ok: true}
}
