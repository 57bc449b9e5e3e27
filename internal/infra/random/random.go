// Package random generates the identifiers the bank hands out: transfer ids
// and IBAN account numbers.
package random

import (
	"math/rand"
	"strings"
	"time"
)

// bankID is the fixed 8-digit institution prefix of every account number.
const bankID = "12345678"

// transferIDLength is the digit count of a transfer identifier.
const transferIDLength = 10

// Generator produces random identifiers. It is deterministic given a seeded
// source, which tests rely on.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded from the clock.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a generator driven by the given source.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// DigitString returns n random decimal digits.
func (g *Generator) DigitString(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.rng.Intn(10)))
	}
	return b.String()
}

// TransferID returns a fresh 10-digit transfer identifier. taken reports
// whether a candidate is already in use; generation retries until the id is
// unique.
func (g *Generator) TransferID(taken func(string) bool) string {
	for {
		id := g.DigitString(transferIDLength)
		if !taken(id) {
			return id
		}
	}
}

// IBAN builds a Polish IBAN: the PL prefix, a two-digit mod-97 checksum and
// a 24-digit BBAN made of the bank id and 16 random digits.
func (g *Generator) IBAN() string {
	bban := bankID + g.DigitString(16)

	// Country letters map to 2521 (P=25, L=21); the trailing 00 stands in
	// for the checksum during its own computation.
	shifted := bban + "252100"

	remainder := 0
	for _, digit := range shifted {
		remainder = (remainder*10 + int(digit-'0')) % 97
	}

	checksum := 98 - remainder
	return "PL" + twoDigits(checksum) + bban
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
