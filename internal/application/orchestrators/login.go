package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// AdminGate holds the bcrypt hash of the shared admin secret.
type AdminGate struct {
	hash []byte
}

// MaxSecretBytes is the longest secret bcrypt compares in full.
const MaxSecretBytes = 72

var (
	ErrInvalidSecret   = errors.New("invalid password")
	ErrEmptyAdminHash  = errors.New("admin secret hash is empty")
	ErrEmptyAdminInput = errors.New("admin secret cannot be empty")
	ErrSecretTooLong   = fmt.Errorf("admin secret cannot exceed %d bytes", MaxSecretBytes)
)

// NewAdminGate wraps an existing bcrypt hash.
// PRE: hash was produced by HashSecret or bcrypt
// POST: Returns a gate or an error if the hash is malformed
func NewAdminGate(hash string) (*AdminGate, error) {
	if hash == "" {
		return nil, ErrEmptyAdminHash
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("parse admin secret hash: %w", err)
	}
	return &AdminGate{hash: []byte(hash)}, nil
}

// NewAdminGateFromSecret hashes a plaintext secret at startup.
func NewAdminGateFromSecret(secret string) (*AdminGate, error) {
	hash, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}
	return NewAdminGate(hash)
}

// HashSecret returns a bcrypt hash suitable for AURA_ADMIN_SECRET_HASH.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptyAdminInput
	}
	if len(secret) > MaxSecretBytes {
		return "", ErrSecretTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin secret: %w", err)
	}
	return string(hash), nil
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Password string `schema:"password"`
	RemoteIP string `schema:"-"`
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Gate *AdminGate
}

// ExecuteLogin checks the submitted password against the admin secret.
// PRE: deps.Gate is configured
// POST: Returns nil only when the password equals the configured secret exactly
func ExecuteLogin(_ context.Context, input LoginInput, deps LoginDeps) error {
	if deps.Gate == nil || input.Password == "" {
		slog.Info("auth_event", "event", "login_failed", "ip", input.RemoteIP, "reason", "empty")
		return ErrInvalidSecret
	}
	// bcrypt ignores bytes past MaxSecretBytes, so a longer password could match on its prefix.
	if len(input.Password) > MaxSecretBytes {
		slog.Info("auth_event", "event", "login_failed", "ip", input.RemoteIP, "reason", "too_long")
		return ErrInvalidSecret
	}
	if err := bcrypt.CompareHashAndPassword(deps.Gate.hash, []byte(input.Password)); err != nil {
		slog.Info("auth_event", "event", "login_failed", "ip", input.RemoteIP, "reason", "wrong_password")
		return ErrInvalidSecret
	}
	slog.Info("auth_event", "event", "login_success", "ip", input.RemoteIP)
	return nil
}
