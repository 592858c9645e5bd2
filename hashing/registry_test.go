package hashing_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hasbyte1/go-django-utils/hashing"
)

// newTestRegistry returns a registry over all built-in algorithms with fast
// (test-safe) cost parameters.
func newTestRegistry(tb testing.TB) *hashing.Registry {
	tb.Helper()
	return hashing.NewRegistry(hashing.Options{
		PBKDF2Iterations: testIterations,
		BcryptCost:       testBcryptCost,
		Argon2:           fastArgon2Opts(),
	})
}

// plainHasher is a toy custom hasher used to exercise Register.
type plainHasher struct{}

func (plainHasher) Algorithm() string            { return "plain" }
func (plainHasher) Salt() (string, error)        { return "pepper", nil }
func (plainHasher) Encode(p, s string) (string, error) { return "plain$" + s + "$" + p, nil }
func (plainHasher) Verify(p, encoded string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 || parts[0] != "plain" {
		return false, hashing.ErrInvalidHash
	}
	return parts[2] == p, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// MakePassword / CheckPassword
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_MakeCheckRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	encoded, err := reg.MakePassword("correct horse")
	if err != nil {
		t.Fatalf("MakePassword: %v", err)
	}
	if !strings.HasPrefix(encoded, "pbkdf2_sha256$") {
		t.Errorf("encoded = %q, want pbkdf2_sha256 prefix", encoded)
	}
	ok, err := reg.CheckPassword("correct horse", encoded, nil)
	if err != nil || !ok {
		t.Errorf("CheckPassword(correct) = %v, %v", ok, err)
	}
	ok, err = reg.CheckPassword("wrong", encoded, nil)
	if err != nil || ok {
		t.Errorf("CheckPassword(wrong) = %v, %v", ok, err)
	}
}

func TestRegistry_MakePasswordWithEveryAlgorithm(t *testing.T) {
	reg := newTestRegistry(t)
	for _, alg := range []string{
		hashing.AlgPBKDF2SHA256, hashing.AlgPBKDF2SHA1, hashing.AlgArgon2,
		hashing.AlgBcrypt, hashing.AlgSHA1, hashing.AlgMD5, hashing.AlgCrypt,
	} {
		encoded, err := reg.MakePasswordWith(alg, "letmein", "")
		if err != nil {
			t.Fatalf("%s: MakePasswordWith: %v", alg, err)
		}
		ok, err := reg.CheckPassword("letmein", encoded, nil)
		if err != nil || !ok {
			t.Errorf("%s: CheckPassword(correct) = %v, %v", alg, ok, err)
		}
		ok, err = reg.CheckPassword("letmeinz", encoded, nil)
		if err != nil || ok {
			t.Errorf("%s: CheckPassword(wrong) = %v, %v", alg, ok, err)
		}
	}
}

func TestRegistry_LegacyBareMD5Detected(t *testing.T) {
	reg := newTestRegistry(t)
	// 32 hex chars, no "$": detected by shape, not by tag.
	ok, err := reg.CheckPassword("letmein", "0d107d09f5bbe40cade3de5c71e9e9b7", nil)
	if err != nil || !ok {
		t.Errorf("CheckPassword(legacy md5) = %v, %v", ok, err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Unusable passwords
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_UnusablePassword(t *testing.T) {
	reg := newTestRegistry(t)
	encoded, err := reg.MakePassword("")
	if err != nil {
		t.Fatalf("MakePassword: %v", err)
	}
	if encoded != hashing.UnusablePassword {
		t.Errorf("MakePassword(\"\") = %q, want %q", encoded, hashing.UnusablePassword)
	}
	if hashing.IsPasswordUsable(encoded) {
		t.Error("sentinel must not be usable")
	}
	for _, password := range []string{"", "letmein", hashing.UnusablePassword} {
		ok, err := reg.CheckPassword(password, encoded, nil)
		if err != nil || ok {
			t.Errorf("CheckPassword(%q, sentinel) = %v, %v; want false, nil", password, ok, err)
		}
	}
}

func TestIsPasswordUsable(t *testing.T) {
	if hashing.IsPasswordUsable("") || hashing.IsPasswordUsable("!") {
		t.Error("empty and sentinel must be unusable")
	}
	if !hashing.IsPasswordUsable("sha1$x$y") {
		t.Error("any other string is usable")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Upgrade on verify
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_UpgradeOnVerify(t *testing.T) {
	reg := newTestRegistry(t)
	for _, alg := range []string{hashing.AlgSHA1, hashing.AlgMD5} {
		encoded, err := reg.MakePasswordWith(alg, "letmein", "")
		if err != nil {
			t.Fatalf("%s: MakePasswordWith: %v", alg, err)
		}
		calls := 0
		var gotPassword string
		ok, err := reg.CheckPassword("letmein", encoded, func(p string) {
			calls++
			gotPassword = p
		})
		if err != nil || !ok {
			t.Fatalf("%s: CheckPassword = %v, %v", alg, ok, err)
		}
		if calls != 1 {
			t.Errorf("%s: setter called %d times, want 1", alg, calls)
		}
		if gotPassword != "letmein" {
			t.Errorf("%s: setter got %q, want the raw password", alg, gotPassword)
		}
	}
}

func TestRegistry_NoUpgradeForPreferred(t *testing.T) {
	reg := newTestRegistry(t)
	encoded, err := reg.MakePassword("letmein")
	if err != nil {
		t.Fatalf("MakePassword: %v", err)
	}
	called := false
	ok, err := reg.CheckPassword("letmein", encoded, func(string) { called = true })
	if err != nil || !ok {
		t.Fatalf("CheckPassword = %v, %v", ok, err)
	}
	if called {
		t.Error("setter must not run for the preferred algorithm")
	}
}

func TestRegistry_NoUpgradeOnMismatch(t *testing.T) {
	reg := newTestRegistry(t)
	encoded, _ := reg.MakePasswordWith(hashing.AlgSHA1, "letmein", "")
	called := false
	ok, err := reg.CheckPassword("wrong", encoded, func(string) { called = true })
	if err != nil || ok {
		t.Fatalf("CheckPassword = %v, %v", ok, err)
	}
	if called {
		t.Error("setter must not run when verification fails")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuration errors
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_UnknownAlgorithm(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := reg.Hasher("lolcat"); !errors.Is(err, hashing.ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if _, err := reg.MakePasswordWith("lolcat", "letmein", ""); !errors.Is(err, hashing.ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestRegistry_BadConfigIsFatalAndCached(t *testing.T) {
	reg := hashing.NewRegistry(hashing.Options{Algorithms: []string{"lolcat"}})
	_, err := reg.MakePassword("letmein")
	if !errors.Is(err, hashing.ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm on first use, got %v", err)
	}
	// Not retried: the same configuration error comes back on every use.
	_, err2 := reg.Preferred()
	if !errors.Is(err2, hashing.ErrUnknownAlgorithm) {
		t.Errorf("expected cached ErrUnknownAlgorithm, got %v", err2)
	}
}

func TestRegistry_CheckPasswordMalformedHash(t *testing.T) {
	reg := newTestRegistry(t)
	// Neither a tagged hash nor a 32-char legacy digest.
	if _, err := reg.CheckPassword("letmein", "garbage", nil); !errors.Is(err, hashing.ErrInvalidHash) {
		t.Errorf("expected ErrInvalidHash, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Custom hashers and freezing
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_RegisterCustomPreferred(t *testing.T) {
	reg := hashing.NewRegistry(hashing.Options{Algorithms: []string{"plain", hashing.AlgMD5}})
	if err := reg.Register(plainHasher{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	encoded, err := reg.MakePassword("letmein")
	if err != nil {
		t.Fatalf("MakePassword: %v", err)
	}
	if !strings.HasPrefix(encoded, "plain$") {
		t.Errorf("encoded = %q, want the custom hasher to be preferred", encoded)
	}
	ok, err := reg.CheckPassword("letmein", encoded, nil)
	if err != nil || !ok {
		t.Errorf("CheckPassword = %v, %v", ok, err)
	}
}

func TestRegistry_RegisterAfterUseIsFrozen(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := reg.Preferred(); err != nil {
		t.Fatalf("Preferred: %v", err)
	}
	if err := reg.Register(plainHasher{}); !errors.Is(err, hashing.ErrRegistryFrozen) {
		t.Errorf("expected ErrRegistryFrozen, got %v", err)
	}
}

func TestRegistry_RegisterNil(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.Register(nil); !errors.Is(err, hashing.ErrNilHasher) {
		t.Errorf("expected ErrNilHasher, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrency
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_ConcurrentFirstUse(t *testing.T) {
	reg := newTestRegistry(t)
	encoded := "sha1$seasalt$fec3530984afba6bade3347b7140d1a7da7da8c7"

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := reg.CheckPassword("letmein", encoded, nil)
			if err != nil {
				errs <- err
				return
			}
			if !ok {
				errs <- errors.New("verification failed")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent check: %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// DetectAlgorithm
// ──────────────────────────────────────────────────────────────────────────────

func TestDetectAlgorithm(t *testing.T) {
	cases := []struct {
		encoded string
		tag     string
		ok      bool
	}{
		{"pbkdf2_sha256$2000$salt$hash", "pbkdf2_sha256", true},
		{"bcrypt$$2a$04$abcdefghijklmnopqrstuv", "bcrypt", true},
		{"0d107d09f5bbe40cade3de5c71e9e9b7", "md5", true},
		{"crypt$$$1$ab$whatever", "crypt", true},
		{"garbage", "", false},
		{"$leading", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		tag, ok := hashing.DetectAlgorithm(tc.encoded)
		if tag != tc.tag || ok != tc.ok {
			t.Errorf("DetectAlgorithm(%q) = %q, %v; want %q, %v", tc.encoded, tag, ok, tc.tag, tc.ok)
		}
	}
}
