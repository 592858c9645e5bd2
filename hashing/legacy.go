package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hasbyte1/go-django-utils/crypto"
)

// SHA1Hasher is the legacy salted-SHA1 algorithm. Not recommended for new
// passwords; it exists so stored "sha1$..." hashes keep verifying and can be
// upgraded on the next successful login.
//
// Encoded form: "sha1$<salt>$<hex sha1(salt+password)>".
type SHA1Hasher struct{}

// NewSHA1Hasher returns the legacy SHA1 hasher.
func NewSHA1Hasher() *SHA1Hasher { return &SHA1Hasher{} }

// Algorithm returns "sha1".
func (h *SHA1Hasher) Algorithm() string { return AlgSHA1 }

// Salt returns a fresh 12-character alphanumeric salt.
func (h *SHA1Hasher) Salt() (string, error) {
	return crypto.RandomString(crypto.DefaultRandomLength, "")
}

// Encode returns "sha1$<salt>$<hex digest>".
func (h *SHA1Hasher) Encode(password, salt string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", ErrInvalidOption)
	}
	if salt == "" || strings.Contains(salt, "$") {
		return "", fmt.Errorf("%w: salt must be non-empty and free of '$'", ErrInvalidOption)
	}
	sum := sha1.Sum([]byte(salt + password))
	return fmt.Sprintf("%s$%s$%s", AlgSHA1, salt, hex.EncodeToString(sum[:])), nil
}

// Verify re-encodes with the stored salt and compares in constant time.
func (h *SHA1Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false, fmt.Errorf("%w: want 3 fields, got %d", ErrInvalidHash, len(parts))
	}
	if parts[0] != AlgSHA1 {
		return false, fmt.Errorf("%w: tag %q is not %q", ErrInvalidHash, parts[0], AlgSHA1)
	}
	expected, err := h.Encode(password, parts[1])
	if err != nil {
		return false, err
	}
	return crypto.ConstantTimeCompare(encoded, expected), nil
}

// MD5Hasher is the historical unsalted MD5 format: a bare 32-character hex
// digest with no algorithm tag and no salt. Old installations still carry
// these values, so they must remain detectable and verifiable — and nothing
// more. Never select it for new passwords.
type MD5Hasher struct{}

// NewMD5Hasher returns the legacy MD5 hasher.
func NewMD5Hasher() *MD5Hasher { return &MD5Hasher{} }

// Algorithm returns "md5".
func (h *MD5Hasher) Algorithm() string { return AlgMD5 }

// Salt returns "": the historical format never used one.
func (h *MD5Hasher) Salt() (string, error) { return "", nil }

// Encode returns the bare hex MD5 of password. The salt argument is ignored
// to match the historical format exactly.
func (h *MD5Hasher) Encode(password, salt string) (string, error) {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify re-encodes and compares in constant time.
func (h *MD5Hasher) Verify(password, encoded string) (bool, error) {
	expected, err := h.Encode(password, "")
	if err != nil {
		return false, err
	}
	return crypto.ConstantTimeCompare(encoded, expected), nil
}
