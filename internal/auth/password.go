// internal/auth/password.go
//
// Password hashing helpers (bcrypt).
//
// Context
// -------
// Stored hashes use bcrypt with the library default cost.  Verification is
// constant-time inside the library; callers only ever see a boolean, so a
// mismatch and a malformed hash are indistinguishable, which keeps the
// login flow's generic failure message honest.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
