// internal/api/auth_handlers.go
//
// Account handlers: register, login, logout, and verification.
//
// Context
// -------
// These handlers pair the auth service's envelopes with transport
// concerns the service must not know about: the session cookie and HTTP
// status codes.  The session id travels in the success payload (the
// serialized login row), which is also where the cookie value comes from.
package api

import (
	"net/http"

	"github.com/surgemusic/surge/internal/auth"
	"github.com/surgemusic/surge/internal/clientinfo"
	"github.com/surgemusic/surge/internal/cookie"
	"github.com/surgemusic/surge/internal/response"
)

var registerRules = map[string]string{
	"first_name": "required|string|max:64",
	"last_name":  "required|string|max:64",
	"username":   "required|string|max:64",
	"email":      "required|email|max:128",
	"password":   "required|string|min:8",
}

var loginRules = map[string]string{
	"email":    "required|email",
	"password": "required|string",
}

var verifyRules = map[string]string{
	"code": "required|string|max:36",
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	data, err := decodeBody(r)
	if err != nil {
		response.Error("Malformed request body", nil).WriteJSON(w, http.StatusBadRequest)
		return
	}
	if !h.validate(w, data, registerRules) {
		return
	}

	resp := h.auth.Register(r.Context(), data, clientinfo.FromRequest(r))
	if !resp.OK {
		resp.WriteJSON(w, http.StatusBadRequest)
		return
	}

	if id, ok := sessionIDFrom(resp); ok {
		cookie.SetSession(w, r, id)

		// Best-effort: a failed token mint must not fail registration.
		if userID, ok := h.sessionUserID(resp); ok {
			if _, err := h.auth.IssueVerificationToken(r.Context(), userID); err != nil {
				h.log.Errorw("verification token issue failed", "user_id", userID, "err", err)
			}
		}
	}
	resp.WriteJSON(w, http.StatusCreated)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	data, err := decodeBody(r)
	if err != nil {
		response.Error("Malformed request body", nil).WriteJSON(w, http.StatusBadRequest)
		return
	}
	if !h.validate(w, data, loginRules) {
		return
	}

	email, _ := data["email"].(string)
	password, _ := data["password"].(string)

	resp := h.auth.Login(r.Context(), email, password, clientinfo.FromRequest(r))
	if !resp.OK {
		resp.WriteJSON(w, http.StatusUnauthorized)
		return
	}
	if id, ok := sessionIDFrom(resp); ok {
		cookie.SetSession(w, r, id)
	}
	resp.WriteJSON(w, http.StatusOK)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	authz := auth.FromContext(r.Context())
	if id, ok := authz.SessionID(); ok {
		if err := h.auth.Invalidate(r.Context(), id); err != nil {
			h.writeFailure(w, err)
			return
		}
	}
	cookie.ClearSession(w)
	response.Success(nil, "Logged out").WriteJSON(w, http.StatusOK)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	data, err := decodeBody(r)
	if err != nil {
		response.Error("Malformed request body", nil).WriteJSON(w, http.StatusBadRequest)
		return
	}
	if !h.validate(w, data, verifyRules) {
		return
	}

	code, _ := data["code"].(string)
	resp := h.auth.ConfirmVerificationToken(r.Context(), code)
	if !resp.OK {
		resp.WriteJSON(w, http.StatusBadRequest)
		return
	}
	resp.WriteJSON(w, http.StatusOK)
}

/*──────────────────────────── payload helpers ─────────────────────────────*/

// sessionIDFrom digs the login row's primary key out of a success payload.
func sessionIDFrom(resp response.Response) (int64, bool) {
	attrs, ok := resp.Data.(map[string]any)
	if !ok {
		return 0, false
	}
	id, ok := attrs["id"].(int64)
	return id, ok
}

// sessionUserID digs the user id out of a success payload.
func (h *Handler) sessionUserID(resp response.Response) (int64, bool) {
	attrs, ok := resp.Data.(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := attrs["user_id"].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
