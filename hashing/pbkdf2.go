package hashing

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/hasbyte1/go-django-utils/crypto"
)

// DefaultPBKDF2Iterations is the iteration count applied to newly encoded
// PBKDF2 hashes. Iterations may be raised safely at any time: the count is
// written into each hash and read back at verify time, so existing hashes
// keep verifying unchanged.
const DefaultPBKDF2Iterations = 10000

// PBKDF2Hasher hashes passwords with PBKDF2 and a configurable HMAC digest.
//
// Encoded form: "<algorithm>$<iterations>$<salt>$<base64 derived key>".
// The SHA-256 variant ("pbkdf2_sha256") is the recommended default; the
// SHA-1 variant ("pbkdf2_sha1") exists for interoperability with PKCS #5
// implementations such as OpenSSL's PKCS5_PBKDF2_HMAC_SHA1.
type PBKDF2Hasher struct {
	algorithm  string
	iterations int
	digest     func() hash.Hash
}

// NewPBKDF2SHA256Hasher returns the PBKDF2-HMAC-SHA256 hasher. A
// non-positive iterations selects [DefaultPBKDF2Iterations].
func NewPBKDF2SHA256Hasher(iterations int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &PBKDF2Hasher{algorithm: AlgPBKDF2SHA256, iterations: iterations, digest: sha256.New}
}

// NewPBKDF2SHA1Hasher returns the PBKDF2-HMAC-SHA1 hasher. A non-positive
// iterations selects [DefaultPBKDF2Iterations].
func NewPBKDF2SHA1Hasher(iterations int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &PBKDF2Hasher{algorithm: AlgPBKDF2SHA1, iterations: iterations, digest: sha1.New}
}

// Algorithm returns "pbkdf2_sha256" or "pbkdf2_sha1".
func (h *PBKDF2Hasher) Algorithm() string { return h.algorithm }

// Iterations returns the configured iteration count for new hashes.
func (h *PBKDF2Hasher) Iterations() int { return h.iterations }

// Salt returns a fresh 12-character alphanumeric salt.
func (h *PBKDF2Hasher) Salt() (string, error) {
	return crypto.RandomString(crypto.DefaultRandomLength, "")
}

// Encode derives a key from password and salt at the configured iteration
// count. The salt must be non-empty and must not contain "$".
func (h *PBKDF2Hasher) Encode(password, salt string) (string, error) {
	return h.encode(password, salt, h.iterations)
}

func (h *PBKDF2Hasher) encode(password, salt string, iterations int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", ErrInvalidOption)
	}
	if salt == "" || strings.Contains(salt, "$") {
		return "", fmt.Errorf("%w: salt must be non-empty and free of '$'", ErrInvalidOption)
	}
	key, err := crypto.PBKDF2([]byte(password), []byte(salt), iterations, 0, h.digest)
	if err != nil {
		return "", fmt.Errorf("hashing: pbkdf2: %w", err)
	}
	b64 := base64.StdEncoding.EncodeToString(key)
	return fmt.Sprintf("%s$%d$%s$%s", h.algorithm, iterations, salt, b64), nil
}

// Verify re-derives the key using the iteration count and salt stored in
// encoded — never the hasher's current configuration — and compares in
// constant time.
func (h *PBKDF2Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 4)
	if len(parts) != 4 {
		return false, fmt.Errorf("%w: want 4 fields, got %d", ErrInvalidHash, len(parts))
	}
	if parts[0] != h.algorithm {
		return false, fmt.Errorf("%w: tag %q is not %q", ErrInvalidHash, parts[0], h.algorithm)
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: bad iteration count %q", ErrInvalidHash, parts[1])
	}
	expected, err := h.encode(password, parts[2], iterations)
	if err != nil {
		return false, err
	}
	return crypto.ConstantTimeCompare(encoded, expected), nil
}
