// Package handid generates time-ordered hand identifiers: a UUIDv7 rendered
// as 26 lowercase Crockford base32 characters.
package handid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, lowercase. No i, l, o or u.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of every identifier.
const Length = 26

// Generator produces identifiers from a source of random bytes.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a generator reading randomness from r, or from
// crypto/rand when r is nil.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// New returns a fresh identifier using crypto/rand.
func New() string {
	return NewGenerator(nil).New()
}

// New returns a fresh identifier. Identifiers from one generator sort by
// creation time.
func (g *Generator) New() string {
	id, err := uuid.NewV7FromReader(g.rand)
	if err != nil {
		panic("handid: failed to read random bytes: " + err.Error())
	}
	return encode(id)
}

// encode writes the 128 bits as 26 five-bit groups, most significant first.
// The final group carries the last three bits padded with zeros.
func encode(id uuid.UUID) string {
	var sb strings.Builder
	sb.Grow(Length)
	for i := range Length {
		bit := i * 5
		var v uint16
		for j := range 5 {
			b := bit + j
			v <<= 1
			if b < 128 && id[b/8]&(0x80>>(b%8)) != 0 {
				v |= 1
			}
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Validate checks that id has the shape of an identifier.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand id must be exactly %d characters, got %d", Length, len(id))
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
