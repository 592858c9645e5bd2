package hashing

import (
	"fmt"
	"sync"
)

// Default is the algorithm name that resolves to the registry's preferred
// hasher (the first entry of the configured list).
const Default = "default"

// DefaultAlgorithms is the algorithm list used when [Options.Algorithms] is
// empty. The first entry is the preferred algorithm for new passwords; the
// rest exist only to keep previously stored hashes verifiable.
var DefaultAlgorithms = []string{
	AlgPBKDF2SHA256,
	AlgPBKDF2SHA1,
	AlgArgon2,
	AlgBcrypt,
	AlgSHA1,
	AlgMD5,
	AlgCrypt,
}

// PasswordSetter is invoked by [Registry.CheckPassword] with the raw password
// when a hash verified correctly but was produced by a non-preferred
// algorithm. The callback should re-hash with [Registry.MakePassword] and
// persist the result.
type PasswordSetter func(password string)

// Options configures a [Registry]. The zero value selects
// [DefaultAlgorithms] and each hasher's built-in parameters.
type Options struct {
	// Algorithms is the ordered list of algorithm names to load; the first
	// entry is preferred for new passwords. Names must be built-in tags or
	// the tags of hashers passed to [Registry.Register] before first use.
	Algorithms []string

	// PBKDF2Iterations overrides the iteration count for new PBKDF2 hashes.
	PBKDF2Iterations int

	// BcryptCost overrides the bcrypt work factor.
	BcryptCost int

	// Argon2 overrides the Argon2id parameters.
	Argon2 Argon2Options
}

// Registry is a thread-safe, lazily-initialized mapping from algorithm tag
// to [Hasher]. It is populated exactly once, on first use, from the
// configured algorithm list; a configuration error is fatal on that first
// use and cached rather than retried. After population the registry is
// immutable for the process lifetime.
type Registry struct {
	opts Options

	mu        sync.Mutex
	loaded    bool
	loadErr   error
	custom    map[string]Hasher // registered before first use
	hashers   map[string]Hasher
	preferred Hasher
}

// NewRegistry creates a registry for the given options. No hashers are
// constructed until the first operation that needs one.
func NewRegistry(opts Options) *Registry {
	return &Registry{opts: opts, custom: make(map[string]Hasher)}
}

// Register adds a custom hasher under its own algorithm tag. It must be
// called before the registry's first use; afterwards the hasher set is
// frozen and Register returns [ErrRegistryFrozen].
//
// A registered hasher becomes preferred only if its tag is also the first
// entry of [Options.Algorithms].
func (r *Registry) Register(h Hasher) error {
	if h == nil {
		return ErrNilHasher
	}
	if h.Algorithm() == "" {
		return ErrEmptyAlgorithm
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return ErrRegistryFrozen
	}
	r.custom[h.Algorithm()] = h
	return nil
}

// buildBuiltin constructs one of the built-in hashers by tag.
func (r *Registry) buildBuiltin(name string) (Hasher, error) {
	switch name {
	case AlgPBKDF2SHA256:
		return NewPBKDF2SHA256Hasher(r.opts.PBKDF2Iterations), nil
	case AlgPBKDF2SHA1:
		return NewPBKDF2SHA1Hasher(r.opts.PBKDF2Iterations), nil
	case AlgArgon2:
		return NewArgon2Hasher(r.opts.Argon2)
	case AlgBcrypt:
		return NewBcryptHasher(r.opts.BcryptCost)
	case AlgSHA1:
		return NewSHA1Hasher(), nil
	case AlgMD5:
		return NewMD5Hasher(), nil
	case AlgCrypt:
		return NewCryptHasher(), nil
	}
	return nil, fmt.Errorf("%w: %q is not in the configured algorithm list", ErrUnknownAlgorithm, name)
}

// load populates the registry from the configured list. Caller holds r.mu.
func (r *Registry) load() error {
	if r.loaded {
		return r.loadErr
	}
	r.loaded = true

	names := r.opts.Algorithms
	if len(names) == 0 {
		names = DefaultAlgorithms
	}

	hashers := make(map[string]Hasher, len(names)+len(r.custom))
	for tag, h := range r.custom {
		hashers[tag] = h
	}
	var preferred Hasher
	for _, name := range names {
		h, ok := hashers[name]
		if !ok {
			var err error
			h, err = r.buildBuiltin(name)
			if err != nil {
				r.loadErr = err
				return err
			}
		}
		if h.Algorithm() == "" {
			r.loadErr = fmt.Errorf("%w: entry %q", ErrEmptyAlgorithm, name)
			return r.loadErr
		}
		hashers[h.Algorithm()] = h
		if preferred == nil {
			preferred = h
		}
	}
	r.hashers = hashers
	r.preferred = preferred
	return nil
}

// Hasher returns the hasher registered for algorithm. The name "default"
// (or "") resolves to the preferred hasher. An unknown name is a
// configuration error ([ErrUnknownAlgorithm]).
func (r *Registry) Hasher(algorithm string) (Hasher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(); err != nil {
		return nil, err
	}
	if algorithm == Default || algorithm == "" {
		return r.preferred, nil
	}
	h, ok := r.hashers[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q — did you include it in the algorithm list?",
			ErrUnknownAlgorithm, algorithm)
	}
	return h, nil
}

// Preferred returns the hasher used for new passwords.
func (r *Registry) Preferred() (Hasher, error) {
	return r.Hasher(Default)
}

// Algorithms returns the tags of all loaded hashers, preferred first.
func (r *Registry) Algorithms() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(); err != nil {
		return nil, err
	}
	out := []string{r.preferred.Algorithm()}
	for tag := range r.hashers {
		if tag != r.preferred.Algorithm() {
			out = append(out, tag)
		}
	}
	return out, nil
}

// MakePassword turns a plain-text password into an encoded hash for storage,
// using the preferred hasher and a fresh salt.
//
// An empty password yields the [UnusablePassword] sentinel, which disallows
// all logins — an absent password must never become a hash that something
// could match.
func (r *Registry) MakePassword(password string) (string, error) {
	return r.MakePasswordWith(Default, password, "")
}

// MakePasswordWith is [Registry.MakePassword] with an explicit algorithm
// name and, optionally, a caller-supplied salt. An empty salt asks the
// hasher for a fresh one.
func (r *Registry) MakePasswordWith(algorithm, password, salt string) (string, error) {
	if password == "" {
		return UnusablePassword, nil
	}
	h, err := r.Hasher(algorithm)
	if err != nil {
		return "", err
	}
	if salt == "" {
		salt, err = h.Salt()
		if err != nil {
			return "", err
		}
	}
	return h.Encode(password, salt)
}

// CheckPassword reports whether password matches the encoded hash.
//
// It returns (false, nil) without any hashing work when password is empty or
// encoded is unusable. Otherwise the verifying hasher is selected from the
// tag embedded in encoded — so hashes made under an older configuration keep
// verifying — and, on success, setter is called with the raw password when
// the hash's algorithm is no longer the preferred one.
func (r *Registry) CheckPassword(password, encoded string, setter PasswordSetter) (bool, error) {
	return r.CheckPasswordPreferred(password, encoded, setter, Default)
}

// CheckPasswordPreferred is [Registry.CheckPassword] with an explicit
// preferred algorithm, for callers migrating toward something other than the
// registry's first entry.
func (r *Registry) CheckPasswordPreferred(password, encoded string, setter PasswordSetter, preferred string) (bool, error) {
	if password == "" || !IsPasswordUsable(encoded) {
		return false, nil
	}
	tag, ok := DetectAlgorithm(encoded)
	if !ok {
		return false, fmt.Errorf("%w: no algorithm tag", ErrInvalidHash)
	}
	hasher, err := r.Hasher(tag)
	if err != nil {
		return false, err
	}
	pref, err := r.Hasher(preferred)
	if err != nil {
		return false, err
	}
	match, err := hasher.Verify(password, encoded)
	if err != nil {
		return false, err
	}
	if match && setter != nil && hasher.Algorithm() != pref.Algorithm() {
		setter(password)
	}
	return match, nil
}
