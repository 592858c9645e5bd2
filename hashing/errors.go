package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := reg.Hasher("lolcat")
//	if errors.Is(err, hashing.ErrUnknownAlgorithm) {
//	    // algorithm is not in the configured list
//	}
var (
	// ErrUnknownAlgorithm is returned when an algorithm name is requested —
	// explicitly or via the tag of an encoded hash — that is not part of the
	// registry's configured set. This is a configuration error, not a failed
	// verification.
	ErrUnknownAlgorithm = errors.New("hashing: unknown password hashing algorithm")

	// ErrInvalidHash is returned when an encoded hash string cannot be parsed:
	// wrong field count, a tag that does not match the verifying hasher, or
	// unparsable numeric fields. A corrupt stored hash is reported loudly
	// instead of masquerading as a failed login.
	ErrInvalidHash = errors.New("hashing: malformed encoded hash")

	// ErrInvalidOption is returned when a hasher constructor is given a
	// parameter outside its allowed range (e.g. a bcrypt cost above 31).
	ErrInvalidOption = errors.New("hashing: invalid option value")

	// ErrUnsupported is returned at first use of an algorithm variant that is
	// not available in this environment, such as a crypt(3) flavour this
	// implementation cannot compute. It is never downgraded to a silent
	// "does not match".
	ErrUnsupported = errors.New("hashing: algorithm not supported in this environment")

	// ErrEmptyAlgorithm is returned during registry construction when a
	// hasher reports an empty algorithm tag.
	ErrEmptyAlgorithm = errors.New("hashing: hasher does not specify an algorithm name")

	// ErrNilHasher is returned by [Registry.Register] for a nil Hasher.
	ErrNilHasher = errors.New("hashing: hasher must not be nil")

	// ErrRegistryFrozen is returned by [Registry.Register] once the registry
	// has been populated; the hasher set is immutable for the process
	// lifetime after first use.
	ErrRegistryFrozen = errors.New("hashing: registry already populated")
)
