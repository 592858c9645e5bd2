// Package baseconv converts integers between base 10 and arbitrary bases
// defined by a custom digit alphabet, in the style of Django's
// django.utils.baseconv module.
//
// Negative numbers are rendered with a configurable sign marker prefix
// (default "-") rather than a bit-width-dependent encoding, so the scheme
// works for integers of any magnitude:
//
//	base20, _ := baseconv.NewConverter("0123456789abcdefghij")
//	base20.Encode(1234)   // "31e"
//	base20.Decode("31e")  // 1234, nil
//
// The stock [Base62] converter is what [signing.TimestampSigner] uses to
// encode Unix timestamps compactly.
package baseconv

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Stock digit alphabets.
const (
	Base2Alphabet  = "01"
	Base16Alphabet = "0123456789ABCDEF"
	Base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	Base56Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"
	Base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	Base64Alphabet = Base62Alphabet + "-_"
)

// Sentinel errors returned by decoding operations.
var (
	// ErrInvalidDigit is returned when the input contains a character that is
	// not part of the converter's alphabet.
	ErrInvalidDigit = errors.New("baseconv: invalid digit")

	// ErrEmptyInput is returned when an empty string (or a bare sign marker)
	// is decoded.
	ErrEmptyInput = errors.New("baseconv: empty input")

	// ErrOverflow is returned by [Converter.Decode] when the decoded value
	// does not fit in an int64. Use [Converter.DecodeString] for values of
	// arbitrary magnitude.
	ErrOverflow = errors.New("baseconv: value overflows int64")
)

// Converter encodes and decodes integers in the base defined by its digit
// alphabet. A Converter is immutable and safe for concurrent use.
type Converter struct {
	digits string
	sign   string
}

// NewConverter builds a Converter for the given ordered digit alphabet with
// the default "-" sign marker. The base is len(digits).
func NewConverter(digits string) (*Converter, error) {
	return NewConverterWithSign(digits, "-")
}

// NewConverterWithSign builds a Converter with a custom single-character sign
// marker. A non-"-" marker enables the string-preserving variants
// [Converter.EncodeString] and [Converter.DecodeString] to round-trip inputs
// whose digit set itself contains "-".
func NewConverterWithSign(digits, sign string) (*Converter, error) {
	if len(digits) < 2 {
		return nil, fmt.Errorf("baseconv: alphabet %q needs at least two digits", digits)
	}
	if len(sign) != 1 {
		return nil, fmt.Errorf("baseconv: sign marker %q must be a single character", sign)
	}
	seen := make(map[rune]bool, len(digits))
	for _, r := range digits {
		if seen[r] {
			return nil, fmt.Errorf("baseconv: alphabet %q has duplicate digit %q", digits, r)
		}
		seen[r] = true
	}
	if strings.Contains(digits, sign) {
		return nil, fmt.Errorf("baseconv: sign marker %q collides with the alphabet", sign)
	}
	return &Converter{digits: digits, sign: sign}, nil
}

func mustConverter(digits, sign string) *Converter {
	c, err := NewConverterWithSign(digits, sign)
	if err != nil {
		panic(err)
	}
	return c
}

// Stock converters mirroring the original module's set. Base64 uses "$" as
// its sign marker because "-" is one of its digits.
var (
	Base2  = mustConverter(Base2Alphabet, "-")
	Base16 = mustConverter(Base16Alphabet, "-")
	Base36 = mustConverter(Base36Alphabet, "-")
	Base56 = mustConverter(Base56Alphabet, "-")
	Base62 = mustConverter(Base62Alphabet, "-")
	Base64 = mustConverter(Base64Alphabet, "$")
)

// Base returns the numeric base of the converter (the alphabet length).
func (c *Converter) Base() int { return len(c.digits) }

// Sign returns the converter's sign marker.
func (c *Converter) Sign() string { return c.sign }

func (c *Converter) String() string {
	return fmt.Sprintf("<baseconv: base%d (%s)>", len(c.digits), c.digits)
}

// Encode renders n in the converter's base. Encode(0) is the alphabet's
// first digit; negative values are prefixed with the sign marker.
func (c *Converter) Encode(n int64) string {
	// Negate through uint64 so math.MinInt64 is handled.
	neg := n < 0
	var u uint64
	if neg {
		u = uint64(-(n + 1)) + 1
	} else {
		u = uint64(n)
	}

	base := uint64(len(c.digits))
	if u == 0 {
		return string(c.digits[0])
	}
	var out []byte
	for u > 0 {
		out = append(out, c.digits[u%base])
		u /= base
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if neg {
		return c.sign + string(out)
	}
	return string(out)
}

// Decode parses s back to an int64. Characters outside the alphabet are an
// error, never silently skipped.
func (c *Converter) Decode(s string) (int64, error) {
	neg := strings.HasPrefix(s, c.sign)
	if neg {
		s = s[len(c.sign):]
	}
	if s == "" {
		return 0, ErrEmptyInput
	}

	base := int64(len(c.digits))
	var x int64
	for _, r := range s {
		idx := int64(strings.IndexRune(c.digits, r))
		if idx < 0 {
			return 0, fmt.Errorf("%w: %q is not in the base%d alphabet", ErrInvalidDigit, r, base)
		}
		if x > (int64(^uint64(0)>>1)-idx)/base {
			return 0, ErrOverflow
		}
		x = x*base + idx
	}
	if neg {
		return -x, nil
	}
	return x, nil
}

// EncodeString converts a base-10 digit string of arbitrary length, with an
// optional leading sign marker, into the converter's base. This is the
// string-preserving variant used when the sign marker is not "-".
func (c *Converter) EncodeString(s string) (string, error) {
	neg := strings.HasPrefix(s, c.sign)
	if neg {
		s = s[len(c.sign):]
	}
	if s == "" {
		return "", ErrEmptyInput
	}

	x, ok := new(big.Int).SetString(s, 10)
	if ok && x.Sign() < 0 {
		ok = false
	}
	if !ok {
		return "", fmt.Errorf("%w: %q is not a base10 number", ErrInvalidDigit, s)
	}

	base := big.NewInt(int64(len(c.digits)))
	if x.Sign() == 0 {
		if neg {
			return c.sign + string(c.digits[0]), nil
		}
		return string(c.digits[0]), nil
	}
	var out []byte
	rem := new(big.Int)
	for x.Sign() > 0 {
		x.QuoRem(x, base, rem)
		out = append(out, c.digits[rem.Int64()])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if neg {
		return c.sign + string(out), nil
	}
	return string(out), nil
}

// DecodeString is the inverse of [Converter.EncodeString]: it converts a
// digit string in the converter's base back to base 10, preserving a leading
// sign marker.
func (c *Converter) DecodeString(s string) (string, error) {
	neg := strings.HasPrefix(s, c.sign)
	if neg {
		s = s[len(c.sign):]
	}
	if s == "" {
		return "", ErrEmptyInput
	}

	base := big.NewInt(int64(len(c.digits)))
	x := new(big.Int)
	for _, r := range s {
		idx := strings.IndexRune(c.digits, r)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q is not in the base%d alphabet", ErrInvalidDigit, r, len(c.digits))
		}
		x.Mul(x, base)
		x.Add(x, big.NewInt(int64(idx)))
	}
	if neg {
		return c.sign + x.String(), nil
	}
	return x.String(), nil
}
