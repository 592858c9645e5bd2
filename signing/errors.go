package signing

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by unsigning operations.
//
// [ErrSignatureExpired] wraps [ErrBadSignature], so code that only cares
// about "do not trust this value" can match the broader class:
//
//	_, err := signer.Unsign(v, "", maxAge)
//	switch {
//	case errors.Is(err, signing.ErrSignatureExpired):
//	    // authentic but too old
//	case errors.Is(err, signing.ErrBadSignature):
//	    // tampered or malformed
//	}
var (
	// ErrBadSignature is returned when a signed value fails verification:
	// the signature does not match, or the separator is missing. The error
	// message never includes the expected signature.
	ErrBadSignature = errors.New("signing: bad signature")

	// ErrSignatureExpired is returned by [TimestampSigner.Unsign] and [Loads]
	// when the signature is valid but the embedded timestamp is older than
	// the requested max age.
	ErrSignatureExpired = fmt.Errorf("%w: timestamp expired", ErrBadSignature)
)
