// Package hashing provides pluggable password hashing with Django-compatible
// encoded hash strings, ported in the spirit of django.contrib.auth.hashers.
//
// # Architecture
//
// The central abstraction is the [Hasher] interface. Seven algorithms ship
// with this package:
//
//   - [PBKDF2Hasher] — PBKDF2-HMAC-SHA256 ("pbkdf2_sha256", the preferred
//     default) and PBKDF2-HMAC-SHA1 ("pbkdf2_sha1")
//   - [Argon2Hasher] — Argon2id in Django's "argon2$" wire format
//   - [BcryptHasher] — bcrypt behind a "bcrypt$" tag
//   - [SHA1Hasher], [MD5Hasher], [CryptHasher] — legacy formats kept only so
//     hashes from old databases stay verifiable
//
// Every encoded hash is self-describing: it starts with "<algorithm>$",
// except the legacy bare-MD5 form (32 hex characters, no "$"), which
// [DetectAlgorithm] recognises by shape.
//
// The [Registry] holds an ordered set of hashers built lazily from a
// configured algorithm list; the first entry is the preferred algorithm for
// new passwords. Once populated it is immutable and freely shared across
// goroutines.
//
// # Quick start
//
//	reg := hashing.NewRegistry(hashing.Options{})   // built-in defaults
//
//	encoded, _ := reg.MakePassword("my-secret-password")
//	ok, _ := reg.CheckPassword("my-secret-password", encoded, nil)
//
// # Transparent hash upgrades
//
// [Registry.CheckPassword] takes a setter callback. When a password verifies
// against a hash produced by a non-preferred algorithm, the setter is invoked
// with the raw password so the caller can re-hash and persist — old SHA1 and
// MD5 hashes migrate to PBKDF2 over normal logins, without a password reset:
//
//	ok, _ := reg.CheckPassword(password, stored, func(p string) {
//	    newHash, _ := reg.MakePassword(p)
//	    persist(userID, newHash)
//	})
//
// # Unusable passwords
//
// [Registry.MakePassword] returns the [UnusablePassword] sentinel ("!") for
// an empty password; [IsPasswordUsable] and [Registry.CheckPassword] treat
// the sentinel as never matching anything. Accounts can therefore be disabled
// by storing the sentinel, and an empty password can never verify.
package hashing
