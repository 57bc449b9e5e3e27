package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// Amount is an exact money value kept as whole zloty plus grosz (hundredths).
// It is an immutable value type: arithmetic returns new values and never
// mutates the receiver.
type Amount struct {
	zloty uint64
	grosz uint64
}

// NewAmount builds an amount from a zloty and a grosz part. A grosz part of
// 100 or more carries into the zloty part.
func NewAmount(zloty, grosz uint64) Amount {
	return Amount{zloty: zloty + grosz/100, grosz: grosz % 100}
}

// AmountFromFloat truncates the value toward zero at two decimal places.
// Negative inputs collapse to zero.
func AmountFromFloat(v float64) Amount {
	if v <= 0 {
		return Amount{}
	}
	zloty := uint64(v)
	return Amount{zloty: zloty, grosz: uint64(v*100) - zloty*100}
}

// Accepted forms: "36", "36,41", "36,41 zl", "36 zl". The grosz part must be
// exactly two digits when present.
var amountPattern = regexp.MustCompile(`^(\d+)(?:,(\d{2}))?(?:\s*zl)?$`)

// ParseAmount parses the canonical string form of an amount.
func ParseAmount(s string) (Amount, error) {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, &ErrInvalidAmount{Reason: fmt.Sprintf("malformed amount %q", s)}
	}

	zloty, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Amount{}, &ErrInvalidAmount{Reason: fmt.Sprintf("malformed amount %q", s)}
	}

	var grosz uint64
	if m[2] != "" {
		grosz, _ = strconv.ParseUint(m[2], 10, 64)
	}

	return NewAmount(zloty, grosz), nil
}

// Zloty returns the whole-zloty part.
func (a Amount) Zloty() uint64 { return a.zloty }

// Grosz returns the grosz part, always in [0,100).
func (a Amount) Grosz() uint64 { return a.grosz }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.zloty == 0 && a.grosz == 0 }

// Add returns the sum of the two amounts. Addition always succeeds.
func (a Amount) Add(b Amount) Amount {
	return NewAmount(a.zloty+b.zloty, a.grosz+b.grosz)
}

// Sub returns a minus b. It fails with ErrInvalidAmount when b exceeds a;
// this is the primitive "insufficient funds" signal used across the system.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b.Greater(a) {
		return Amount{}, &ErrInvalidAmount{Reason: "result of amount subtraction less than zero"}
	}

	zloty, grosz := a.zloty, a.grosz
	if b.grosz > grosz {
		zloty--
		grosz += 100
	}
	return Amount{zloty: zloty - b.zloty, grosz: grosz - b.grosz}, nil
}

// MulFloat multiplies the decimal value of the amount by f and reconstructs
// the result from the product. The result may be inexact.
func (a Amount) MulFloat(f float64) Amount {
	return AmountFromFloat(a.Float64() * f)
}

// Float64 returns the decimal value of the amount.
func (a Amount) Float64() float64 {
	return float64(a.zloty) + float64(a.grosz)/100
}

// Less reports a < b, comparing zloty first, then grosz.
func (a Amount) Less(b Amount) bool {
	return a.zloty < b.zloty || (a.zloty == b.zloty && a.grosz < b.grosz)
}

// Greater reports a > b.
func (a Amount) Greater(b Amount) bool { return b.Less(a) }

// LessOrEqual reports a <= b.
func (a Amount) LessOrEqual(b Amount) bool { return !a.Greater(b) }

// String renders the canonical form, e.g. "36,41 zl".
func (a Amount) String() string {
	return fmt.Sprintf("%d,%02d zl", a.zloty, a.grosz)
}

// MarshalJSON encodes the amount as its canonical string, not a number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes the canonical string form.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ErrInvalidAmount{Reason: "amount is not a JSON string"}
	}

	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
