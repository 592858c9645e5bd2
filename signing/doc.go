// Package signing creates and restores tamper-evident signed strings, in the
// wire format of django.core.signing.
//
// A [Signer] appends an HMAC-SHA1 signature, URL-safe and unpadded, to any
// string value:
//
//	s := signing.NewSigner("predictable-secret")
//	signed := s.Sign("hello", "")        // "hello:<signature>"
//	value, err := s.Unsign(signed, "")   // "hello", nil
//
// Any modification of the signed value makes Unsign fail with
// [ErrBadSignature]. The salt argument domain-separates signatures: the same
// secret can sign unrelated kinds of values (different cookie names, say)
// without a signature from one context verifying in another. It is not a
// password salt — reusing a well-known value per context is fine.
//
// A [TimestampSigner] additionally embeds a base62 Unix timestamp inside the
// signed portion, so [TimestampSigner.Unsign] can enforce a max age and
// report [ErrSignatureExpired] — distinguishable from tampering, since an
// expired value is still authentic.
//
// [Dumps] and [Loads] wrap arbitrary JSON-serializable values: compact JSON,
// optional zlib compression (applied only when it actually shrinks the
// payload, and flagged in-band with a leading "."), URL-safe base64, then a
// TimestampSigner signature over the result.
package signing
