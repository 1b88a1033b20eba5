// internal/api/api.go
//
// HTTP surface: route table and shared handler plumbing.
//
// Context
// -------
// The API is thin glue: decode JSON, run the declarative field rules, call
// the auth service or a mapper, and emit the uniform response envelope.
// Anything with real behavior lives below this package.
//
// Route table
// -----------
//
//	POST   /auth/register      create account + auto-login
//	POST   /auth/login         authenticate, set session cookie
//	POST   /auth/logout        invalidate session, clear cookie   (authed)
//	POST   /auth/verify        redeem a verification code
//	GET    /songs              paginated listing                  (authed)
//	POST   /songs              upload metadata                    (authed)
//	GET    /songs/{id}         fetch one                          (authed)
//	PUT    /songs/{id}         update                             (authed)
//	DELETE /songs/{id}         hard delete                        (authed)
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/surgemusic/surge/internal/auth"
	"github.com/surgemusic/surge/internal/entity"
	"github.com/surgemusic/surge/internal/record"
	"github.com/surgemusic/surge/internal/response"
	"github.com/surgemusic/surge/internal/rules"
)

// Handler owns the route table and the collaborators it dispatches to.
type Handler struct {
	auth  *auth.Service
	songs *record.Mapper
	log   *zap.SugaredLogger
}

// New wires the HTTP surface over one shared pool.
func New(db *sqlx.DB, authSvc *auth.Service, log *zap.SugaredLogger) *Handler {
	return &Handler{
		auth:  authSvc,
		songs: record.NewMapper(db, entity.Songs),
		log:   log,
	}
}

// Routes builds the chi router for the whole API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Post("/verify", h.handleVerify)
		r.With(h.RequireAuth).Post("/logout", h.handleLogout)
	})

	r.Route("/songs", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/", h.handleSongList)
		r.Post("/", h.handleSongCreate)
		r.Get("/{id}", h.handleSongGet)
		r.Put("/{id}", h.handleSongUpdate)
		r.Delete("/{id}", h.handleSongDelete)
	})

	return r
}

/*──────────────────────────── shared plumbing ─────────────────────────────*/

// decodeBody parses the request body into a column map.
func decodeBody(r *http.Request) (map[string]any, error) {
	data := make(map[string]any)
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

// validate runs the field rules and writes the failure envelope itself.
// Returns false when the request is already answered.
func (h *Handler) validate(w http.ResponseWriter, data map[string]any, ruleSet map[string]string) bool {
	if err := rules.New(data, ruleSet).Validate(); err != nil {
		var ve *rules.ValidationError
		if errors.As(err, &ve) {
			response.Error("Validation failed", ve.Fields).WriteJSON(w, http.StatusUnprocessableEntity)
			return false
		}
		response.Error("Validation failed", nil).WriteJSON(w, http.StatusUnprocessableEntity)
		return false
	}
	return true
}

// writeFailure translates a lower-layer error into an envelope.  The
// mapper's validation failures surface as 422 with the offending columns;
// everything else is an opaque 500.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var ve *record.ValidationError
	if errors.As(err, &ve) {
		response.Error("Validation failed", map[string][]string{
			"columns": ve.Columns,
		}).WriteJSON(w, http.StatusUnprocessableEntity)
		return
	}
	h.log.Errorw("request failed", "err", err)
	response.Error("Internal server error", nil).WriteJSON(w, http.StatusInternalServerError)
}
