package hashing

import (
	"fmt"
	"strings"

	dmcrypto "github.com/developermail/crypto"
	md5crypt "github.com/developermail/crypto/md5"

	"github.com/hasbyte1/go-django-utils/crypto"
)

// md5CryptMagic is the modular-crypt prefix of the MD5-crypt flavour this
// hasher computes.
const md5CryptMagic = "$1$"

// cryptSaltChars is the salt alphabet accepted by crypt(3).
const cryptSaltChars = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// CryptHasher is the legacy UNIX crypt(3) format. Not recommended for new
// passwords.
//
// Encoded form: "crypt$$<crypt output>" — the middle field is always empty
// because the salt is already embedded in the crypt output and was never
// stored twice.
//
// Without a platform libc to call, this implementation computes the
// MD5-crypt flavour ("$1$...") in pure Go. Stored hashes in other crypt
// flavours (e.g. 13-character DES outputs) fail with [ErrUnsupported] rather
// than silently reporting a mismatch.
type CryptHasher struct {
	crypter dmcrypto.Crypter
}

// NewCryptHasher returns the crypt(3) hasher.
func NewCryptHasher() *CryptHasher {
	return &CryptHasher{crypter: md5crypt.New()}
}

// Algorithm returns "crypt".
func (h *CryptHasher) Algorithm() string { return AlgCrypt }

// Salt returns two random characters from the crypt salt alphabet.
func (h *CryptHasher) Salt() (string, error) {
	return crypto.RandomString(2, cryptSaltChars)
}

// Encode returns "crypt$$<crypt output>".
func (h *CryptHasher) Encode(password, salt string) (string, error) {
	if salt == "" {
		return "", fmt.Errorf("%w: crypt needs a salt", ErrInvalidOption)
	}
	data, err := h.crypter.Generate([]byte(password), []byte(md5CryptMagic+salt))
	if err != nil {
		return "", fmt.Errorf("hashing: crypt: %w", err)
	}
	return fmt.Sprintf("%s$%s$%s", AlgCrypt, "", data), nil
}

// Verify re-runs crypt with the stored output as the salt settings and
// compares in constant time, the same way crypt(password, data) == data
// works against a libc implementation.
func (h *CryptHasher) Verify(password, encoded string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false, fmt.Errorf("%w: want 3 fields, got %d", ErrInvalidHash, len(parts))
	}
	if parts[0] != AlgCrypt {
		return false, fmt.Errorf("%w: tag %q is not %q", ErrInvalidHash, parts[0], AlgCrypt)
	}
	data := parts[2]
	if !strings.HasPrefix(data, md5CryptMagic) {
		return false, fmt.Errorf("%w: crypt flavour of %q", ErrUnsupported, data)
	}
	expected, err := h.crypter.Generate([]byte(password), []byte(data))
	if err != nil {
		return false, fmt.Errorf("hashing: crypt: %w", err)
	}
	return crypto.ConstantTimeCompare(data, expected), nil
}
