package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier decides whether a submitted admin password is valid.
type CredentialVerifier interface {
	Verify(password string) bool
}

// StaticPasswordVerifier compares against a configured secret in constant time.
// An empty secret rejects everything.
type StaticPasswordVerifier struct {
	secret []byte
}

func NewStaticPasswordVerifier(secret string) *StaticPasswordVerifier {
	return &StaticPasswordVerifier{secret: []byte(secret)}
}

func (v *StaticPasswordVerifier) Verify(password string) bool {
	if len(v.secret) == 0 || password == "" {
		return false
	}
	return subtle.ConstantTimeCompare(v.secret, []byte(password)) == 1
}

// BcryptVerifier checks a password against a stored bcrypt hash.
type BcryptVerifier struct {
	hash []byte
}

func NewBcryptVerifier(hash string) (*BcryptVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("auth: invalid bcrypt hash: %w", err)
	}
	return &BcryptVerifier{hash: []byte(hash)}, nil
}

func (v *BcryptVerifier) Verify(password string) bool {
	if password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
}

// NewVerifier prefers the hash when both are configured.
func NewVerifier(password, hash string) (CredentialVerifier, error) {
	if hash != "" {
		return NewBcryptVerifier(hash)
	}
	return NewStaticPasswordVerifier(password), nil
}
