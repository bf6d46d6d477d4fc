package bigint

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// BigInteger is a signed integer of any number of decimal digits.
//
// The zero value is the integer 0. A nil *BigInteger is accepted by Add and
// Multiply as an absent operand and renders as "0".
type BigInteger struct {
	// negative is true only for values strictly below zero.
	negative bool
	// numDigits is len(digits), kept as a cheap magnitude-length comparator.
	numDigits int
	// digits is empty exactly when the value is zero.
	digits DigitSequence
}

// New returns the integer 0.
func New() *BigInteger {
	return &BigInteger{}
}

// newFromDigits wraps a freshly computed sequence, stripping most-significant
// zeros and collapsing a negative zero.
func newFromDigits(negative bool, d DigitSequence) *BigInteger {
	d = d.trim()
	if len(d) == 0 {
		return New()
	}
	return &BigInteger{negative: negative, numDigits: len(d), digits: d}
}

// Parse converts a decimal string into a BigInteger.
//
// Leading and trailing whitespace is ignored, so "  +123  " parses as 123.
// A single leading '-' makes the value negative and a leading '+' is
// ignored. At least one digit must follow; leading zeros are dropped and a
// value of zero is always positive. Anything else, including whitespace
// between digits, fails with *apperrors.FormatError.
func Parse(text string) (*BigInteger, error) {
	s := strings.TrimSpace(text)
	negative := false
	if s != "" {
		switch s[0] {
		case '-':
			negative = true
			s = s[1:]
		case '+':
			s = s[1:]
		}
	}
	if s == "" {
		return nil, &apperrors.FormatError{Input: text}
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, &apperrors.FormatError{Input: text}
		}
	}

	s = strings.TrimLeft(s, "0")
	if s == "" {
		return New(), nil
	}
	return &BigInteger{negative: negative, numDigits: len(s), digits: digitsFromString(s)}, nil
}

// MustParse is like Parse but panics if text is not a valid integer.
func MustParse(text string) *BigInteger {
	x, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q) failed: %v", text, err))
	}
	return x
}

// Add returns a new BigInteger holding a + b. Either operand may be
// negative, so Add also subtracts. Neither operand is modified.
func Add(a, b *BigInteger) *BigInteger {
	switch {
	case a == nil && b == nil:
		return New()
	case b == nil:
		return a.clone()
	case a == nil:
		return b.clone()
	}

	if a.negative == b.negative {
		return newFromDigits(a.negative, addDigits(a.digits, b.digits))
	}

	switch compareMagnitude(a, b) {
	case 1:
		return newFromDigits(a.negative, subtractDigits(a.digits, b.digits))
	case -1:
		return newFromDigits(b.negative, subtractDigits(b.digits, a.digits))
	default:
		// x + (-x)
		return New()
	}
}

// Multiply returns a new BigInteger holding a * b using long
// multiplication. Neither operand is modified.
func Multiply(a, b *BigInteger) *BigInteger {
	if a.IsZero() || b.IsZero() {
		return New()
	}

	var total DigitSequence
	for k, d := range b.digits {
		if d == 0 {
			continue
		}
		partial := shiftDigits(multiplyDigit(a.digits, d), k)
		total = addDigits(total, partial)
	}
	return newFromDigits(a.negative != b.negative, total)
}

// ToString returns the canonical decimal form of x. It is equivalent to
// x.String().
func ToString(x *BigInteger) string {
	return x.String()
}

// compareMagnitude compares |a| and |b|, returning -1, 0 or +1. The digit
// count decides first; equal counts are compared from the most-significant
// digit down.
func compareMagnitude(a, b *BigInteger) int {
	switch {
	case a.numDigits > b.numDigits:
		return 1
	case a.numDigits < b.numDigits:
		return -1
	}
	for i := a.numDigits - 1; i >= 0; i-- {
		switch {
		case a.digits[i] > b.digits[i]:
			return 1
		case a.digits[i] < b.digits[i]:
			return -1
		}
	}
	return 0
}

func (x *BigInteger) clone() *BigInteger {
	return &BigInteger{negative: x.negative, numDigits: x.numDigits, digits: x.digits.clone()}
}

// Neg returns a new BigInteger holding -x. The negation of zero is zero.
func (x *BigInteger) Neg() *BigInteger {
	if x.IsZero() {
		return New()
	}
	c := x.clone()
	c.negative = !c.negative
	return c
}

// IsZero reports whether x is zero. A nil x is zero.
func (x *BigInteger) IsZero() bool {
	return x == nil || x.numDigits == 0
}

// IsNegative reports whether x is strictly below zero.
func (x *BigInteger) IsNegative() bool {
	return x != nil && x.negative
}

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x *BigInteger) Sign() int {
	switch {
	case x.IsZero():
		return 0
	case x.negative:
		return -1
	default:
		return 1
	}
}

// NumDigits returns the number of stored decimal digits: 0 for zero,
// otherwise the length of the canonical form without its sign.
func (x *BigInteger) NumDigits() int {
	if x == nil {
		return 0
	}
	return x.numDigits
}

// Equal reports whether a and b hold the same value.
func Equal(a, b *BigInteger) bool {
	if a.Sign() != b.Sign() {
		return false
	}
	if a.IsZero() {
		return true
	}
	return compareMagnitude(a, b) == 0
}

// String renders x in canonical decimal form: "0" for zero, otherwise the
// digits most-significant first with a leading '-' when negative.
func (x *BigInteger) String() string {
	if x.IsZero() {
		return "0"
	}
	var sb strings.Builder
	sb.Grow(x.numDigits + 1)
	if x.negative {
		sb.WriteByte('-')
	}
	for i := x.numDigits - 1; i >= 0; i-- {
		sb.WriteByte('0' + x.digits[i])
	}
	return sb.String()
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (x BigInteger) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (x *BigInteger) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = *v
	return nil
}

// MarshalJSON encodes x as a JSON string so that no precision is lost in
// consumers that read numbers as floats.
func (x BigInteger) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(x.String())), nil
}

// UnmarshalJSON accepts either a JSON string or a bare JSON integer. A JSON
// null leaves x unchanged.
func (x *BigInteger) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return &apperrors.FormatError{Input: s}
		}
		s = unquoted
	}
	return x.UnmarshalText([]byte(s))
}
