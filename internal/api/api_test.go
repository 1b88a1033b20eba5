// internal/api/api_test.go
//
// Handler tests: routing, session gating, and envelope translation, with
// sqlmock standing in for MySQL.
//
// Run: go test ./internal/api -v

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/surgemusic/surge/internal/auth"
	"github.com/surgemusic/surge/internal/cookie"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sdb := sqlx.NewDb(db, "sqlmock")
	log := zap.NewNop().Sugar()
	return New(sdb, auth.NewService(sdb, log), log), mock
}

// expectLiveSession wires the logins lookup the auth middleware performs.
func expectLiveSession(mock sqlmock.Sqlmock, sessionID, userID int64) {
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM logins WHERE id = ? LIMIT 1`,
	)).
		WithArgs(sessionID).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "is_valid", "expires_at"}).
			AddRow(sessionID, userID, int64(1), "2099-01-01 00:00:00"))
}

func sessionRequest(method, target, body string, sessionID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: sessionID})
	}
	return req
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return got
}

func TestSongsRequireSessionCookie(t *testing.T) {
	h, mock := newTestHandler(t)
	rr := httptest.NewRecorder()

	h.Routes().ServeHTTP(rr, sessionRequest(http.MethodGet, "/songs/", "", ""))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if env := decodeEnvelope(t, rr); env["success"] != false || env["message"] != "Unauthorized" {
		t.Errorf("envelope = %v", env)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("anonymous request hit the database: %v", err)
	}
}

func TestSongsRejectDeadSession(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM logins WHERE id = ? LIMIT 1`,
	)).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "is_valid", "expires_at"}).
			AddRow(int64(77), int64(3), int64(0), "2099-01-01 00:00:00"))

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, sessionRequest(http.MethodGet, "/songs/", "", "77"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSongListPaginates(t *testing.T) {
	h, mock := newTestHandler(t)
	expectLiveSession(mock, 77, 3)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM songs LIMIT 2 OFFSET 2`,
	)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "song_title"}).
			AddRow(int64(3), "c").
			AddRow(int64(4), "d"))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COUNT(*) FROM songs`,
	)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(5)))

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr,
		sessionRequest(http.MethodGet, "/songs/?per_page=2&page=2", "", "77"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr)
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("data shape: %#v", env["data"])
	}
	pg, _ := data["pagination"].(map[string]any)
	if pg["total"] != float64(5) || pg["last_page"] != float64(3) {
		t.Errorf("pagination = %v", pg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSongGetMissIs404(t *testing.T) {
	h, mock := newTestHandler(t)
	expectLiveSession(mock, 77, 3)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM songs WHERE id = ? LIMIT 1`,
	)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, sessionRequest(http.MethodGet, "/songs/404", "", "77"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if env := decodeEnvelope(t, rr); env["message"] != "Song not found" {
		t.Errorf("envelope = %v", env)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSongCreateStampsOwnerFromSession(t *testing.T) {
	h, mock := newTestHandler(t)
	expectLiveSession(mock, 77, 3)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO songs (song_title,artist_name,song,user_id,created_at,updated_at) VALUES (?,?,?,?,?,?)`,
	)).
		WithArgs("Night Drive", "Mireille", "/assets/night-drive.mp3",
			int64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))

	body := `{"song_title":"Night Drive","artist_name":"Mireille","song":"/assets/night-drive.mp3","user_id":999}`
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, sessionRequest(http.MethodPost, "/songs/", body, "77"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSongCreateValidation(t *testing.T) {
	h, mock := newTestHandler(t)
	expectLiveSession(mock, 77, 3)

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr,
		sessionRequest(http.MethodPost, "/songs/", `{"artist_name":"Mireille"}`, "77"))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	errs, _ := env["errors"].(map[string]any)
	if _, present := errs["song_title"]; !present {
		t.Errorf("missing song_title failure: %v", env)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("invalid payload reached the database: %v", err)
	}
}

func TestSongUpdateRejectsUnknownColumns(t *testing.T) {
	h, mock := newTestHandler(t)
	expectLiveSession(mock, 77, 3)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM songs WHERE id = ? LIMIT 1`,
	)).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "song_title"}).
			AddRow(int64(12), "Night Drive"))

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr,
		sessionRequest(http.MethodPut, "/songs/12", `{"is_admin":true}`, "77"))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	errs, _ := env["errors"].(map[string]any)
	cols, _ := errs["columns"].([]any)
	if len(cols) != 1 || cols[0] != "is_admin" {
		t.Errorf("offending columns = %v", env)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h, mock := newTestHandler(t)

	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM users WHERE email = ? LIMIT 1`,
	)).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}).
			AddRow(int64(3), "ada@example.com", hash))
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO logins (user_id,ip_address,user_agent,location,is_valid,created_at,updated_at,expires_at) VALUES (?,?,?,?,?,?,?,?)`,
	)).
		WithArgs(int64(3), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(77, 1))

	body := `{"email":"ada@example.com","password":"secret123"}`
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, sessionRequest(http.MethodPost, "/auth/login", body, ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookie.Name {
			session = c
		}
	}
	if session == nil || session.Value != "77" {
		t.Fatalf("session cookie = %+v", session)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLoginFailureIs401WithoutCookie(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM users WHERE email = ? LIMIT 1`,
	)).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"email":"ghost@example.com","password":"whatever"}`
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, sessionRequest(http.MethodPost, "/auth/login", body, ""))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("failed login must not set a cookie")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMalformedBodyIs400(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr,
		sessionRequest(http.MethodPost, "/auth/login", `{"email":`, ""))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestLogoutInvalidatesAndClearsCookie(t *testing.T) {
	h, mock := newTestHandler(t)
	expectLiveSession(mock, 77, 3)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE logins SET is_valid = ?, updated_at = ? WHERE id = ?`,
	)).
		WithArgs(false, sqlmock.AnyArg(), int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, sessionRequest(http.MethodPost, "/auth/logout", "", "77"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookie.Name && c.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the session cookie")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
