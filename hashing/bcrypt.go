package hashing

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the bcrypt work factor for new hashes. At cost 12,
// hashing takes roughly 250 ms on a modern server CPU. Increase it as
// hardware improves; the cost stored in each hash keeps old values
// verifiable.
const DefaultBcryptCost = 12

// BcryptHasher hashes passwords with bcrypt.
//
// Encoded form: "bcrypt$<modular crypt output>", e.g.
// "bcrypt$$2a$12$N9qo8uLOickgx2ZMRZoMye...". Everything after the tag is the
// bcrypt library's self-contained output, salt included, so [BcryptHasher.Salt]
// returns "" and Encode ignores its salt argument.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher with the given work factor.
// A non-positive cost selects [DefaultBcryptCost]; out-of-range costs are
// rejected with [ErrInvalidOption].
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d must be in [%d, %d]",
			ErrInvalidOption, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Algorithm returns "bcrypt".
func (h *BcryptHasher) Algorithm() string { return AlgBcrypt }

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Salt returns "". Bcrypt generates and embeds its own 128-bit salt, so
// there is nothing for the caller to supply or store.
func (h *BcryptHasher) Salt() (string, error) { return "", nil }

// Encode hashes password with a fresh internal salt at the configured cost.
// The salt argument is ignored.
//
// Note that bcrypt truncates passwords longer than 72 bytes.
func (h *BcryptHasher) Encode(password, salt string) (string, error) {
	data, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: %w", err)
	}
	return AlgBcrypt + "$" + string(data), nil
}

// Verify checks password against the bcrypt output embedded after the tag.
func (h *BcryptHasher) Verify(password, encoded string) (bool, error) {
	tag, data, found := strings.Cut(encoded, "$")
	if !found || tag != AlgBcrypt {
		return false, fmt.Errorf("%w: tag %q is not %q", ErrInvalidHash, tag, AlgBcrypt)
	}
	err := bcrypt.CompareHashAndPassword([]byte(data), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return true, nil
}
