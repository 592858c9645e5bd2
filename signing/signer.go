package signing

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hasbyte1/go-django-utils/baseconv"
	"github.com/hasbyte1/go-django-utils/crypto"
)

// DefaultSep is the separator between a value and its signature.
const DefaultSep = ":"

// b64Encode is URL-safe base64 with the padding stripped, the framing used
// for every signature and payload in this package.
func b64Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func b64Decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// Signer signs and verifies strings with HMAC-SHA1 under a secret key.
// It holds no mutable state: construct once, sign and unsign any number of
// times from any goroutine.
//
// Signers built with different keys or used with different salts are
// independent — their signatures never cross-verify.
type Signer struct {
	key string
	sep string
}

// NewSigner returns a Signer for the given secret key using [DefaultSep].
func NewSigner(key string) *Signer {
	return NewSignerSep(key, DefaultSep)
}

// NewSignerSep returns a Signer with a custom separator. The separator must
// not be a URL-safe base64 character or it could not be found reliably next
// to a signature.
func NewSignerSep(key, sep string) *Signer {
	if sep == "" {
		sep = DefaultSep
	}
	return &Signer{key: key, sep: sep}
}

// Signature computes the URL-safe, unpadded base64 HMAC-SHA1 of value.
//
// The HMAC key is derived as hex(SHA1(salt + "signer" + secret)), so each
// salt yields an unrelated signing key from the same secret.
func (s *Signer) Signature(value, salt string) string {
	derived := sha1.Sum([]byte(salt + "signer" + s.key))
	mac := hmac.New(sha1.New, []byte(hex.EncodeToString(derived[:])))
	mac.Write([]byte(value))
	return b64Encode(mac.Sum(nil))
}

// Sign returns "<value><sep><signature>".
func (s *Signer) Sign(value, salt string) string {
	return value + s.sep + s.Signature(value, salt)
}

// Unsign splits off the signature at the last separator, recomputes it, and
// returns the original value if they match in constant time. A missing
// separator or a mismatch yields [ErrBadSignature]; the expected signature
// is never part of the error, so failures cannot be used as an oracle.
func (s *Signer) Unsign(signed, salt string) (string, error) {
	idx := strings.LastIndex(signed, s.sep)
	if idx < 0 {
		return "", fmt.Errorf("%w: no %q found in value", ErrBadSignature, s.sep)
	}
	value, sig := signed[:idx], signed[idx+len(s.sep):]
	if crypto.ConstantTimeCompare(sig, s.Signature(value, salt)) {
		return value, nil
	}
	return "", fmt.Errorf("%w: signature %q does not match", ErrBadSignature, sig)
}

// TimestampSigner is a [Signer] that appends a base62-encoded Unix timestamp
// to the value before signing, so the timestamp is covered by the signature
// and age can be enforced at unsign time.
type TimestampSigner struct {
	Signer

	// Now supplies the current time. It defaults to [time.Now] and exists so
	// tests can pin the clock.
	Now func() time.Time
}

// NewTimestampSigner returns a TimestampSigner for the given secret key.
func NewTimestampSigner(key string) *TimestampSigner {
	return &TimestampSigner{Signer: *NewSigner(key), Now: time.Now}
}

func (t *TimestampSigner) timestamp() string {
	return baseconv.Base62.Encode(t.Now().Unix())
}

// Sign returns "<value><sep><timestamp><sep><signature>".
func (t *TimestampSigner) Sign(value, salt string) string {
	value = value + t.sep + t.timestamp()
	return t.Signer.Sign(value, salt)
}

// Unsign verifies the signature, then the embedded timestamp. A maxAge of
// zero skips the age check. A value older than maxAge fails with
// [ErrSignatureExpired] — authentic but stale, distinct from tampering.
func (t *TimestampSigner) Unsign(signed, salt string, maxAge time.Duration) (string, error) {
	base, err := t.Signer.Unsign(signed, salt)
	if err != nil {
		return "", err
	}
	idx := strings.LastIndex(base, t.sep)
	if idx < 0 {
		return "", fmt.Errorf("%w: no timestamp found", ErrBadSignature)
	}
	value, stamp := base[:idx], base[idx+len(t.sep):]
	ts, err := baseconv.Base62.Decode(stamp)
	if err != nil {
		return "", fmt.Errorf("%w: bad timestamp %q", ErrBadSignature, stamp)
	}
	if maxAge > 0 {
		age := t.Now().Sub(time.Unix(ts, 0))
		if age > maxAge {
			return "", fmt.Errorf("%w: age %s > %s", ErrSignatureExpired, age, maxAge)
		}
	}
	return value, nil
}
