// Package amount implements the non-negative arbitrary-precision integer used
// for every asset quantity, fee and balance in the library.
//
// Conversions from fractional input always round toward the ceiling: an
// amount of 0.9 becomes 1, never 0. Under-funding a transaction is a
// correctness failure; over-funding by rounding up is safe.
package amount

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDigits bounds the decimal width of any parsed amount. It is the width of
// 2^256 and of the NUMERIC(78,0) columns amounts are stored in.
const MaxDigits = 78

// maxInputLen bounds the text Parse and ParseUnits will look at.
const maxInputLen = 512

var limit = new(big.Int).Exp(big.NewInt(10), big.NewInt(MaxDigits), nil)

// Amount is an immutable non-negative integer of arbitrary precision.
// The zero value is 0 and is ready to use.
type Amount struct {
	v *big.Int
}

// Zero returns an Amount of 0.
func Zero() Amount { return Amount{} }

// New returns an Amount holding v.
func New(v uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(v)}
}

// FromInt64 returns an Amount holding v. Negative values are rejected.
func FromInt64(v int64) (Amount, error) {
	if v < 0 {
		return Amount{}, fmt.Errorf("%w: %d is negative", ErrInvalidAmount, v)
	}
	return Amount{v: big.NewInt(v)}, nil
}

// FromBig returns an Amount holding a copy of b. A nil b is treated as 0.
func FromBig(b *big.Int) (Amount, error) {
	if b == nil {
		return Amount{}, nil
	}
	if b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, b.String())
	}
	return Amount{v: new(big.Int).Set(b)}, nil
}

// FromDecimal returns the smallest integer greater than or equal to d.
// Values wider than MaxDigits are rejected before they are expanded.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d.String())
	}
	if d.IsZero() {
		return Amount{}, nil
	}
	exp := int64(d.Exponent())
	width := int64(d.NumDigits()) + exp
	if width > MaxDigits {
		return Amount{}, fmt.Errorf("%w: more than %d digits", ErrInvalidAmount, MaxDigits)
	}
	// Below one; ceil without building 10^-exp.
	if width <= 0 {
		return New(1), nil
	}
	return bounded(d.Ceil().BigInt())
}

func bounded(b *big.Int) (Amount, error) {
	if b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, b.String())
	}
	if b.Cmp(limit) >= 0 {
		return Amount{}, fmt.Errorf("%w: more than %d digits", ErrInvalidAmount, MaxDigits)
	}
	return Amount{v: b}, nil
}

// FromFloat converts f using its shortest decimal representation, rounding up.
func FromFloat(f float64) (Amount, error) {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse reads a decimal ("12", "0.9", "1e3") or 0x-prefixed hex string.
// Fractional decimals are rounded up. Signed hex and values wider than
// MaxDigits are rejected.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if len(s) > maxInputLen {
		return Amount{}, fmt.Errorf("%w: input longer than %d bytes", ErrInvalidAmount, maxInputLen)
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if digits == "" || digits[0] == '-' || digits[0] == '+' {
			return Amount{}, fmt.Errorf("%w: bad hex %q", ErrInvalidAmount, s)
		}
		// 2^260 > 10^78; anything longer after leading zeros is out of range.
		if len(strings.TrimLeft(digits, "0")) > 65 {
			return Amount{}, fmt.Errorf("%w: more than %d digits", ErrInvalidAmount, MaxDigits)
		}
		b, ok := new(big.Int).SetString(digits, 16)
		if !ok {
			return Amount{}, fmt.Errorf("%w: bad hex %q", ErrInvalidAmount, s)
		}
		return bounded(b)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseUnits reads a human-readable amount expressed with the given number of
// decimals and returns it in base units, rounding any excess precision up.
// ParseUnits("1.5", 9) == 1500000000.
func ParseUnits(s string, decimals int32) (Amount, error) {
	if decimals < 0 || decimals > MaxDigits {
		return Amount{}, fmt.Errorf("%w: decimals %d out of range", ErrInvalidAmount, decimals)
	}
	s = strings.TrimSpace(s)
	if len(s) > maxInputLen {
		return Amount{}, fmt.Errorf("%w: input longer than %d bytes", ErrInvalidAmount, maxInputLen)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	if !d.IsZero() && d.Exponent() > MaxDigits {
		return Amount{}, fmt.Errorf("%w: more than %d digits", ErrInvalidAmount, MaxDigits)
	}
	return FromDecimal(d.Shift(decimals))
}

// Format renders a in display units with the given number of decimals,
// trimming trailing zeros. Format(1500000000, 9) == "1.5".
func (a Amount) Format(decimals int32) string {
	return decimal.NewFromBigInt(a.big(), -decimals).String()
}

func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Big returns a copy of the underlying integer.
func (a Amount) Big() *big.Int { return new(big.Int).Set(a.big()) }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.big(), b.big())}
}

// Sub returns a - b, or ErrUnderflow when b > a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.LT(b) {
		return Amount{}, fmt.Errorf("%w: %s - %s", ErrUnderflow, a, b)
	}
	return Amount{v: new(big.Int).Sub(a.big(), b.big())}, nil
}

// Mul returns a * b.
func (a Amount) Mul(b Amount) Amount {
	return Amount{v: new(big.Int).Mul(a.big(), b.big())}
}

// DivCeil returns ceil(a / b). Division by zero returns ErrInvalidAmount.
func (a Amount) DivCeil(b Amount) (Amount, error) {
	if b.IsZero() {
		return Amount{}, fmt.Errorf("%w: division by zero", ErrInvalidAmount)
	}
	q, r := new(big.Int).QuoRem(a.big(), b.big(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return Amount{v: q}, nil
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.big().Cmp(b.big()) }

// Equal reports whether a == b.
func (a Amount) Equal(b Amount) bool { return a.Cmp(b) == 0 }

// GT reports whether a > b.
func (a Amount) GT(b Amount) bool { return a.Cmp(b) > 0 }

// GTE reports whether a >= b.
func (a Amount) GTE(b Amount) bool { return a.Cmp(b) >= 0 }

// LT reports whether a < b.
func (a Amount) LT(b Amount) bool { return a.Cmp(b) < 0 }

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool { return a.big().Sign() == 0 }

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a.GTE(b) {
		return a
	}
	return b
}

// Uint64 returns a as a uint64 and whether it fits.
func (a Amount) Uint64() (uint64, bool) {
	b := a.big()
	if !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

// String returns the base-10 representation.
func (a Amount) String() string { return a.big().String() }

// MarshalJSON encodes the amount as a decimal string so that values above
// 2^53 survive JSON consumers that parse numbers as float64.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a decimal or hex string, or a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount{}
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
	} else {
		s = string(data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
