package hashing

import "strings"

// UnusablePassword is the sentinel stored in place of a hash for accounts
// that must never authenticate. It is not a valid encoded hash for any
// algorithm.
const UnusablePassword = "!"

// Algorithm tags for the built-in hashers. The tag doubles as the registry
// key and as the leading field of every encoded hash.
const (
	AlgPBKDF2SHA256 = "pbkdf2_sha256"
	AlgPBKDF2SHA1   = "pbkdf2_sha1"
	AlgArgon2       = "argon2"
	AlgBcrypt       = "bcrypt"
	AlgSHA1         = "sha1"
	AlgMD5          = "md5"
	AlgCrypt        = "crypt"
)

// Hasher is the interface satisfied by all password hashing algorithms.
//
// Implementations are immutable after construction and safe for concurrent
// use by multiple goroutines.
type Hasher interface {
	// Algorithm returns the unique tag identifying this hasher. It is the
	// first "$"-delimited field of every hash the hasher encodes.
	Algorithm() string

	// Salt generates a fresh cryptographically random salt appropriate for
	// the algorithm. Hashers whose output embeds its own salt (bcrypt) or
	// that never used one (legacy MD5) return "".
	Salt() (string, error)

	// Encode hashes password with the given salt and returns the encoded
	// database value. The result is deterministic for identical inputs.
	Encode(password, salt string) (string, error)

	// Verify checks password against a previously encoded hash. It returns
	// (false, nil) for a well-formed hash that does not match, and a non-nil
	// error for a hash this hasher cannot parse.
	//
	// Comparison is performed in constant time.
	Verify(password, encoded string) (bool, error)
}

// IsPasswordUsable reports whether encoded is a hash an account could ever
// authenticate against. It is false for the empty string and for the
// [UnusablePassword] sentinel.
func IsPasswordUsable(encoded string) bool {
	return encoded != "" && encoded != UnusablePassword
}

// DetectAlgorithm returns the algorithm tag embedded in an encoded hash.
//
// The legacy unsalted MD5 format carries no tag and is recognised by shape:
// exactly 32 characters with no "$". Everything else is identified by the
// substring before the first "$". The second return value is false when the
// string matches neither form.
func DetectAlgorithm(encoded string) (string, bool) {
	if len(encoded) == 32 && !strings.Contains(encoded, "$") {
		return AlgMD5, true
	}
	tag, _, found := strings.Cut(encoded, "$")
	if !found || tag == "" {
		return "", false
	}
	return tag, true
}
