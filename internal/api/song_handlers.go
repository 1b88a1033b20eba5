// internal/api/song_handlers.go
//
// Song catalog handlers: CRUD plus paginated listing.
//
// Context
// -------
// Songs belong to the authenticated user; create stamps user_id from the
// resolved session rather than trusting the body.  Updates pass straight
// through the mapper, so a non-fillable column in the payload comes back
// as a 422 with the offending names and no row is touched.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/surgemusic/surge/internal/auth"
	"github.com/surgemusic/surge/internal/response"
)

var songCreateRules = map[string]string{
	"song_title":  "required|string|max:128",
	"artist_name": "required|string|max:128",
	"song":        "required|string|max:256",
}

func (h *Handler) handleSongList(w http.ResponseWriter, r *http.Request) {
	perPage := queryInt(r, "per_page", 10)
	page := queryInt(r, "page", 1)

	pageData, err := h.songs.GetAllPaginated(r.Context(), nil, perPage, page)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	response.Success(pageData, "Paginated songs retrieved successfully").WriteJSON(w, http.StatusOK)
}

func (h *Handler) handleSongCreate(w http.ResponseWriter, r *http.Request) {
	data, err := decodeBody(r)
	if err != nil {
		response.Error("Malformed request body", nil).WriteJSON(w, http.StatusBadRequest)
		return
	}
	if !h.validate(w, data, songCreateRules) {
		return
	}

	if userID, ok := auth.FromContext(r.Context()).UserID(); ok {
		data["user_id"] = userID
	}

	song, err := h.songs.Create(r.Context(), data)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	response.Success(song.Attributes(), "Song created successfully").WriteJSON(w, http.StatusCreated)
}

func (h *Handler) handleSongGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	song, err := h.songs.Find(r.Context(), id, nil)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if song == nil {
		response.Error("Song not found", nil).WriteJSON(w, http.StatusNotFound)
		return
	}
	response.Success(song.Attributes(), "Song retrieved successfully").WriteJSON(w, http.StatusOK)
}

func (h *Handler) handleSongUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := decodeBody(r)
	if err != nil {
		response.Error("Malformed request body", nil).WriteJSON(w, http.StatusBadRequest)
		return
	}

	existing, err := h.songs.Find(r.Context(), id, nil)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if existing == nil {
		response.Error("Song not found", nil).WriteJSON(w, http.StatusNotFound)
		return
	}

	if err := h.songs.Update(r.Context(), id, data); err != nil {
		h.writeFailure(w, err)
		return
	}
	response.Success(nil, "Song updated successfully").WriteJSON(w, http.StatusOK)
}

func (h *Handler) handleSongDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.songs.Find(r.Context(), id, nil)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if existing == nil {
		response.Error("Song not found", nil).WriteJSON(w, http.StatusNotFound)
		return
	}

	if err := h.songs.Delete(r.Context(), id); err != nil {
		h.writeFailure(w, err)
		return
	}
	response.Success(nil, "Song deleted successfully").WriteJSON(w, http.StatusOK)
}

/*──────────────────────────── request helpers ─────────────────────────────*/

// pathID parses the {id} route segment, answering 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Error("Invalid id", nil).WriteJSON(w, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
