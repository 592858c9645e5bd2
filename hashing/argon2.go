package hashing

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/hasbyte1/go-django-utils/crypto"
)

// Argon2 parameter defaults for new hashes. All parameters are written into
// the hash string, so they can be tuned at any time without invalidating
// stored values.
const (
	// DefaultArgon2Memory is the memory cost in KiB (64 MiB).
	DefaultArgon2Memory uint32 = 64 * 1024
	// DefaultArgon2Time is the number of passes over memory.
	DefaultArgon2Time uint32 = 3
	// DefaultArgon2Threads is the degree of parallelism.
	DefaultArgon2Threads uint8 = 2
	// DefaultArgon2KeyLen is the derived key length in bytes.
	DefaultArgon2KeyLen uint32 = 32
)

// argon2Variant is the only Argon2 flavour this hasher computes. Argon2id
// resists both side-channel and GPU attacks; the i and d variants are not
// produced and verify with [ErrUnsupported].
const argon2Variant = "argon2id"

// Argon2Options configures an [Argon2Hasher]. Zero fields select the
// package defaults.
type Argon2Options struct {
	Memory  uint32 // KiB
	Time    uint32 // iterations
	Threads uint8
	KeyLen  uint32 // bytes
}

func (o Argon2Options) withDefaults() Argon2Options {
	if o.Memory == 0 {
		o.Memory = DefaultArgon2Memory
	}
	if o.Time == 0 {
		o.Time = DefaultArgon2Time
	}
	if o.Threads == 0 {
		o.Threads = DefaultArgon2Threads
	}
	if o.KeyLen == 0 {
		o.KeyLen = DefaultArgon2KeyLen
	}
	return o
}

// Argon2Hasher hashes passwords with Argon2id.
//
// Encoded form (the tag followed by a PHC-style string, unpadded base64):
//
//	argon2$argon2id$v=19$m=65536,t=3,p=2$<b64 salt>$<b64 key>
type Argon2Hasher struct {
	opts Argon2Options
}

// NewArgon2Hasher returns an Argon2id hasher. Zero option fields select the
// package defaults; a memory cost below 8×threads is rejected with
// [ErrInvalidOption].
func NewArgon2Hasher(opts Argon2Options) (*Argon2Hasher, error) {
	opts = opts.withDefaults()
	if opts.Memory < 8*uint32(opts.Threads) {
		return nil, fmt.Errorf("%w: argon2 memory (%d KiB) must be at least 8 KiB per thread",
			ErrInvalidOption, opts.Memory)
	}
	if opts.KeyLen < 16 {
		return nil, fmt.Errorf("%w: argon2 key length %d is below 16 bytes", ErrInvalidOption, opts.KeyLen)
	}
	return &Argon2Hasher{opts: opts}, nil
}

// Algorithm returns "argon2".
func (h *Argon2Hasher) Algorithm() string { return AlgArgon2 }

// Salt returns a fresh 12-character alphanumeric salt.
func (h *Argon2Hasher) Salt() (string, error) {
	return crypto.RandomString(crypto.DefaultRandomLength, "")
}

// Encode derives an Argon2id key and returns the tagged PHC string.
func (h *Argon2Hasher) Encode(password, salt string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", ErrInvalidOption)
	}
	if salt == "" || strings.Contains(salt, "$") {
		return "", fmt.Errorf("%w: salt must be non-empty and free of '$'", ErrInvalidOption)
	}
	key := argon2.IDKey([]byte(password), []byte(salt),
		h.opts.Time, h.opts.Memory, h.opts.Threads, h.opts.KeyLen)
	return fmt.Sprintf("%s$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgArgon2, argon2Variant, argon2.Version,
		h.opts.Memory, h.opts.Time, h.opts.Threads,
		base64.RawStdEncoding.EncodeToString([]byte(salt)),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify recomputes the key using the parameters and salt stored in encoded
// and compares in constant time.
func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	// tag$variant$v=..$m=..,t=..,p=..$salt$key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("%w: want 6 fields, got %d", ErrInvalidHash, len(parts))
	}
	if parts[0] != AlgArgon2 {
		return false, fmt.Errorf("%w: tag %q is not %q", ErrInvalidHash, parts[0], AlgArgon2)
	}
	if parts[1] != argon2Variant {
		return false, fmt.Errorf("%w: argon2 variant %q", ErrUnsupported, parts[1])
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: bad version field %q", ErrInvalidHash, parts[2])
	}
	if version != argon2.Version {
		return false, fmt.Errorf("%w: argon2 version %d", ErrUnsupported, version)
	}
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("%w: bad parameter field %q", ErrInvalidHash, parts[3])
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: bad salt encoding", ErrInvalidHash)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: bad key encoding", ErrInvalidHash)
	}
	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
