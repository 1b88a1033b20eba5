// internal/auth/service.go
//
// Authentication flow: registration, login, session issuance, and
// verification tokens.
//
// Context
// -------
// Login resolves a user by email and checks the bcrypt hash; both misses
// produce the same "Invalid email or password" envelope so the response
// never reveals which check failed.  A successful authentication persists a
// session row binding the user id to the client fingerprint (IP, user
// agent, location) with a six-month expiry; the serialized session is the
// success payload, and the HTTP layer decides how to hand its id to the
// client.
//
// Registration is create-then-auto-login: the new user immediately gets a
// session.  Any failure in that sequence collapses into one error envelope
// carrying the raw failure description; the flow is deliberately
// best-effort catch-all rather than granular.
//
// Notes
// -----
//   - No exception-style control flow: every operation returns a Response
//     or an error, and persistence failures never escape as panics.
//   - The clock is injectable so expiry tests do not race midnight.
package auth

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/surgemusic/surge/internal/clientinfo"
	"github.com/surgemusic/surge/internal/entity"
	"github.com/surgemusic/surge/internal/metrics"
	"github.com/surgemusic/surge/internal/record"
	"github.com/surgemusic/surge/internal/response"
)

const (
	// invalidCredentials is intentionally non-specific.
	invalidCredentials = "Invalid email or password"

	// verificationTTL bounds how long an emailed code stays redeemable.
	verificationTTL = 24 * time.Hour

	timeLayout = "2006-01-02 15:04:05"
)

// Service wires the user, login, and token mappers into the auth flows.
type Service struct {
	users  *record.Mapper
	logins *record.Mapper
	tokens *record.Mapper
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewService builds the auth service over one shared connection pool.
func NewService(db *sqlx.DB, log *zap.SugaredLogger) *Service {
	return &Service{
		users:  record.NewMapper(db, entity.Users),
		logins: record.NewMapper(db, entity.Logins),
		tokens: record.NewMapper(db, entity.Tokens),
		log:    log,
		now:    time.Now,
	}
}

/*──────────────────────────── registration ────────────────────────────────*/

// Register creates a user and immediately mints a session for it.  The
// plaintext password in data is replaced by its bcrypt hash before the
// record is built; every other failure in the sequence collapses into one
// error envelope.
func (s *Service) Register(ctx context.Context, data map[string]any, client clientinfo.Info) response.Response {
	if plain, ok := data["password"].(string); ok && plain != "" {
		hash, err := HashPassword(plain)
		if err != nil {
			return response.Error("Failed to create user", map[string][]string{"error": {err.Error()}})
		}
		data["password"] = hash
	}

	user, err := s.users.Create(ctx, data)
	if err != nil {
		s.log.Errorw("user create failed", "err", err)
		return response.Error("Failed to create user", map[string][]string{"error": {err.Error()}})
	}

	userID, _ := user.ID()
	login, err := s.issueSession(ctx, userID, client)
	if err != nil {
		s.log.Errorw("session create failed", "user_id", userID, "err", err)
		return response.Error("Failed to create user", map[string][]string{"error": {err.Error()}})
	}

	return response.Success(login.Attributes(), "User created successfully")
}

/*──────────────────────────── login ───────────────────────────────────────*/

// Login authenticates by email and password.  On success the serialized
// session row is the payload; on any failure the envelope carries the same
// generic message.
func (s *Service) Login(ctx context.Context, email, password string, client clientinfo.Info) response.Response {
	rec, err := s.users.FindBy(ctx, "email", email, nil)
	if err != nil {
		s.log.Errorw("user lookup failed", "err", err)
		metrics.LoginFailureTotal.Inc()
		return response.Error(invalidCredentials, nil)
	}
	if rec == nil {
		metrics.LoginFailureTotal.Inc()
		return response.Error(invalidCredentials, nil)
	}

	user := entity.AsUser(rec)
	if !VerifyPassword(password, user.PasswordHash()) {
		metrics.LoginFailureTotal.Inc()
		return response.Error(invalidCredentials, nil)
	}

	userID, _ := user.ID()
	login, err := s.issueSession(ctx, userID, client)
	if err != nil {
		s.log.Errorw("session create failed", "user_id", userID, "err", err)
		return response.Error("Failed to log in", map[string][]string{"error": {err.Error()}})
	}

	metrics.LoginSuccessTotal.Inc()
	return response.Success(login.Attributes(), "User logged in successfully.")
}

// issueSession persists one logins row for userID with the client
// fingerprint and the standard expiry.
func (s *Service) issueSession(ctx context.Context, userID int64, client clientinfo.Info) (*record.Record, error) {
	now := s.now().UTC()
	login, err := s.logins.Create(ctx, map[string]any{
		"user_id":    userID,
		"ip_address": client.IP,
		"user_agent": client.UserAgent,
		"location":   client.Location,
		"is_valid":   true,
		"expires_at": now.AddDate(0, entity.SessionTTL, 0).Format(timeLayout),
	})
	if err != nil {
		return nil, err
	}
	metrics.SessionsIssuedTotal.Inc()
	return login, nil
}

// Invalidate flips the session's validity flag off.  The row is kept for
// audit; authorization treats it as dead from here on.
func (s *Service) Invalidate(ctx context.Context, loginID int64) error {
	return s.logins.Update(ctx, loginID, map[string]any{"is_valid": false})
}

/*──────────────────────────── verification tokens ─────────────────────────*/

// IssueVerificationToken mints a one-shot verification code for userID.
// The code itself comes from the token table's BeforeCreate hook.
func (s *Service) IssueVerificationToken(ctx context.Context, userID int64) (entity.Token, error) {
	rec, err := s.tokens.Create(ctx, map[string]any{
		"user_id":     userID,
		"is_verified": false,
		"expires_at":  s.now().UTC().Add(verificationTTL).Format(timeLayout),
	})
	if err != nil {
		return entity.Token{}, err
	}
	return entity.AsToken(rec), nil
}

// ConfirmVerificationToken redeems a code: the token and its user are both
// marked verified.  Unknown, redeemed, and expired codes share one message.
func (s *Service) ConfirmVerificationToken(ctx context.Context, code string) response.Response {
	const badCode = "Invalid verification code"

	rec, err := s.tokens.FindBy(ctx, "code", code, nil)
	if err != nil {
		s.log.Errorw("token lookup failed", "err", err)
		return response.Error(badCode, nil)
	}
	if rec == nil {
		return response.Error(badCode, nil)
	}

	token := entity.AsToken(rec)
	if token.IsVerified() {
		return response.Error(badCode, nil)
	}
	if exp, ok := rec.GetTime("expires_at"); !ok || !exp.After(s.now().UTC()) {
		return response.Error(badCode, nil)
	}

	tokenID, _ := rec.ID()
	if err := s.tokens.Update(ctx, tokenID, map[string]any{"is_verified": true}); err != nil {
		return response.Error("Failed to verify account", map[string][]string{"error": {err.Error()}})
	}

	userID, _ := rec.GetInt64("user_id")
	err = s.users.Update(ctx, userID, map[string]any{
		"is_verified": true,
		"verified_at": s.now().UTC().Format(timeLayout),
	})
	if err != nil {
		return response.Error("Failed to verify account", map[string][]string{"error": {err.Error()}})
	}

	return response.Success(nil, "Account verified")
}
