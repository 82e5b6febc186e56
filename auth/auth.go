// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Headers set by the authentication gateway in front of the API
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderSignature = "X-Identity-Signature"
	HeaderOfficer   = "X-Officer-Key"
)

var (
	ErrInvalidOfficerKey = errors.New("invalid officer key")
	ErrMissingIdentity   = errors.New("missing caller identity")
	ErrInvalidIdentity   = errors.New("invalid identity signature")
)

// Identity is the authenticated caller as vouched for by the gateway.
type Identity struct {
	UserID string
	Email  string
}

func sign(secret string, parts ...string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(strings.Join(parts, "\x00")))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// GenerateOfficerKey creates an HMAC-based officer key for an election
// This is deterministic and verifiable
func GenerateOfficerKey(electionID, salt string) string {
	return sign(salt, "officer", electionID)
}

// ValidateOfficerKey checks if the provided officer key is valid for the election
func ValidateOfficerKey(electionID, officerKey, salt string) error {
	expected := GenerateOfficerKey(electionID, salt)
	if !hmac.Equal([]byte(officerKey), []byte(expected)) {
		return ErrInvalidOfficerKey
	}
	return nil
}

// SignIdentity produces the signature the gateway attaches to a request
func SignIdentity(userID, email, secret string) string {
	return sign(secret, "identity", userID, strings.ToLower(email))
}

// VerifyIdentity checks the identity signature
func VerifyIdentity(id Identity, signature, secret string) error {
	expected := SignIdentity(id.UserID, id.Email, secret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidIdentity
	}
	return nil
}

// IdentityFromRequest reads and verifies the caller identity headers.
// The email may be empty; callers decide whether that is acceptable.
func IdentityFromRequest(r *http.Request, secret string) (Identity, error) {
	id := Identity{
		UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Email:  strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
	}
	signature := r.Header.Get(HeaderSignature)
	if id.UserID == "" || signature == "" {
		return Identity{}, ErrMissingIdentity
	}
	if err := VerifyIdentity(id, signature, secret); err != nil {
		return Identity{}, err
	}
	return id, nil
}
