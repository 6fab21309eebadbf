// Package auth defines the credential check consumed by FTP sessions.
//
// The server core treats authentication as a pluggable predicate: any
// implementation of Authenticator can back USER/PASS. Two implementations
// are provided, a plaintext static pair for reference builds and a
// bcrypt-hashed variant for configurations that should not store the
// password in the clear.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the default cost parameter for bcrypt hashing.
// Cost 10 provides a good balance between security and performance.
const DefaultBcryptCost = 10

// MaxPasswordLength is the maximum allowed password length.
// bcrypt silently truncates at 72 bytes, so we enforce this limit.
const MaxPasswordLength = 72

// ErrPasswordTooLong is returned when a password exceeds the bcrypt limit.
var ErrPasswordTooLong = errors.New("password must be at most 72 characters")

// Authenticator decides whether a USER/PASS pair may log in.
//
// Implementations must be safe for concurrent calls; every session invokes
// the predicate independently.
type Authenticator interface {
	Authenticate(user, password string) bool
}

// Func adapts a plain function to the Authenticator interface.
type Func func(user, password string) bool

// Authenticate implements Authenticator.
func (f Func) Authenticate(user, password string) bool {
	return f(user, password)
}

// Static is a fixed-credential Authenticator holding the password in the
// clear. Suitable for reference builds and tests.
type Static struct {
	User     string
	Password string
}

// NewStatic returns a Static authenticator for the given pair.
func NewStatic(user, password string) *Static {
	return &Static{User: user, Password: password}
}

// Default returns the reference-build credentials (admin/password).
func Default() *Static {
	return NewStatic("admin", "password")
}

// Authenticate implements Authenticator using constant-time comparison.
func (s *Static) Authenticate(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.User)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	return userOK && passOK
}

// StaticHashed is a fixed-credential Authenticator that stores a bcrypt
// hash instead of the plaintext password.
type StaticHashed struct {
	User         string
	PasswordHash string
}

// NewStaticHashed returns a StaticHashed authenticator for the given user
// and bcrypt hash (as produced by HashPassword).
func NewStaticHashed(user, passwordHash string) *StaticHashed {
	return &StaticHashed{User: user, PasswordHash: passwordHash}
}

// Authenticate implements Authenticator.
func (s *StaticHashed) Authenticate(user, password string) bool {
	if subtle.ConstantTimeCompare([]byte(user), []byte(s.User)) != 1 {
		return false
	}
	return VerifyPassword(password, s.PasswordHash)
}

// HashPassword creates a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultBcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword checks if a password matches a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
