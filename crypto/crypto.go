// Package crypto carries the shared cryptographic primitives used by the
// hashing and signing packages: constant-time string comparison, the RFC 2898
// PBKDF2 key derivation with a pluggable digest, random-salt generation, and
// a salted HMAC helper. It is the Go counterpart of django.utils.crypto.
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"hash"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

// RandomStringChars is the default salt alphabet: ASCII letters and digits.
const RandomStringChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultRandomLength is the default length for [RandomString] salts.
const DefaultRandomLength = 12

// ErrInvalidIterations is returned by [PBKDF2] for a non-positive iteration
// count.
var ErrInvalidIterations = errors.New("crypto: iteration count must be positive")

// ConstantTimeCompare reports whether a == b in time that depends only on
// the length of the inputs, never on where they first differ. Unequal
// lengths return false immediately; the length itself is not secret.
//
// This is the comparison every password verify and signature check in this
// module must go through. Do not replace it with ==.
func ConstantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// PBKDF2 derives a key from password and salt per RFC 2898 section 5.2.
//
// digest selects the HMAC pseudorandom function (nil means SHA-256). keyLen
// is the desired output length in bytes; zero means one digest output. The
// iteration count must be positive — a zero or negative count is a caller
// bug, not a cheap KDF.
func PBKDF2(password, salt []byte, iterations, keyLen int, digest func() hash.Hash) ([]byte, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	if digest == nil {
		digest = sha256.New
	}
	if keyLen <= 0 {
		keyLen = digest().Size()
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, digest), nil
}

// RandomString returns length characters drawn uniformly from alphabet using
// the operating system's CSPRNG. An empty alphabet defaults to
// [RandomStringChars].
func RandomString(length int, alphabet string) (string, error) {
	if alphabet == "" {
		alphabet = RandomStringChars
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("crypto: read random: %w", err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}

// SaltedHMAC returns the HMAC-SHA1 of value keyed by SHA1(keySalt + secret).
//
// Pass a different keySalt for every distinct application of HMAC so that a
// signature produced in one context can never be replayed in another.
func SaltedHMAC(keySalt, value, secret string) []byte {
	key := sha1.Sum([]byte(keySalt + secret))
	mac := hmac.New(sha1.New, key[:])
	mac.Write([]byte(value))
	return mac.Sum(nil)
}
