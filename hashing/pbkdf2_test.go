package hashing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hasbyte1/go-django-utils/hashing"
)

// testIterations keeps KDF work small in tests. Production hashes use
// hashing.DefaultPBKDF2Iterations.
const testIterations = 2000

// ──────────────────────────────────────────────────────────────────────────────
// Known answers
// ──────────────────────────────────────────────────────────────────────────────

func TestPBKDF2SHA256_KnownAnswer(t *testing.T) {
	h := hashing.NewPBKDF2SHA256Hasher(testIterations)
	encoded, err := h.Encode("letmein", "seasalt")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "pbkdf2_sha256$2000$seasalt$BmIZnhZ3zVdDpviQIvlBPZUHRP/UnT5uEqiSr17zLg4="
	if encoded != want {
		t.Errorf("encoded = %q, want %q", encoded, want)
	}
}

func TestPBKDF2SHA256_EncodeVerify(t *testing.T) {
	h := hashing.NewPBKDF2SHA256Hasher(testIterations)
	salt, err := h.Salt()
	if err != nil {
		t.Fatalf("Salt: %v", err)
	}
	encoded, err := h.Encode("letmein", salt)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "pbkdf2_sha256$") {
		t.Errorf("encoded %q missing algorithm tag", encoded)
	}
	ok, err := h.Verify("letmein", encoded)
	if err != nil || !ok {
		t.Errorf("Verify(correct) = %v, %v", ok, err)
	}
	ok, err = h.Verify("letmeinz", encoded)
	if err != nil || ok {
		t.Errorf("Verify(wrong) = %v, %v", ok, err)
	}
}

func TestPBKDF2SHA1_EncodeVerify(t *testing.T) {
	h := hashing.NewPBKDF2SHA1Hasher(testIterations)
	encoded, err := h.Encode("letmein", "seasalt")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "pbkdf2_sha1$2000$seasalt$") {
		t.Errorf("encoded = %q", encoded)
	}
	ok, err := h.Verify("letmein", encoded)
	if err != nil || !ok {
		t.Errorf("Verify(correct) = %v, %v", ok, err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Iterations travel with the hash
// ──────────────────────────────────────────────────────────────────────────────

func TestPBKDF2_VerifyUsesStoredIterations(t *testing.T) {
	old := hashing.NewPBKDF2SHA256Hasher(testIterations)
	encoded, err := old.Encode("letmein", "seasalt")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// A hasher configured with a higher count must still verify the old
	// hash, reading the count out of the encoded string.
	current := hashing.NewPBKDF2SHA256Hasher(testIterations * 2)
	ok, err := current.Verify("letmein", encoded)
	if err != nil || !ok {
		t.Errorf("Verify with raised iteration config = %v, %v", ok, err)
	}
}

func TestPBKDF2_DefaultIterations(t *testing.T) {
	h := hashing.NewPBKDF2SHA256Hasher(0)
	if h.Iterations() != hashing.DefaultPBKDF2Iterations {
		t.Errorf("iterations = %d, want %d", h.Iterations(), hashing.DefaultPBKDF2Iterations)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Malformed input
// ──────────────────────────────────────────────────────────────────────────────

func TestPBKDF2_MalformedHash(t *testing.T) {
	h := hashing.NewPBKDF2SHA256Hasher(testIterations)
	cases := []string{
		"pbkdf2_sha256$2000$seasalt",          // missing key field
		"pbkdf2_sha1$2000$seasalt$AAAA",       // wrong tag for this hasher
		"pbkdf2_sha256$notanumber$seasalt$AA", // unparsable iterations
	}
	for _, encoded := range cases {
		if _, err := h.Verify("letmein", encoded); !errors.Is(err, hashing.ErrInvalidHash) {
			t.Errorf("Verify(%q): expected ErrInvalidHash, got %v", encoded, err)
		}
	}
}

func TestPBKDF2_RejectsBadSalt(t *testing.T) {
	h := hashing.NewPBKDF2SHA256Hasher(testIterations)
	for _, salt := range []string{"", "sea$salt"} {
		if _, err := h.Encode("letmein", salt); !errors.Is(err, hashing.ErrInvalidOption) {
			t.Errorf("Encode with salt %q: expected ErrInvalidOption, got %v", salt, err)
		}
	}
}
