// Package gameid generates sortable identifiers for games: a UUIDv7 rendered
// as 26 characters of Crockford base32.
package gameid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource is satisfied by *math/rand/v2.Rand
type RandSource interface {
	Uint64() uint64
}

// Generator produces game IDs from a clock and an optional RandSource. With a
// nil RandSource crypto/rand is used.
type Generator struct {
	clock quartz.Clock
	rand  RandSource
}

// NewGenerator creates a generator. A nil clock means the real clock.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rand: randSource}
}

// Generate creates a game ID using the real clock and crypto/rand
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates a new game ID
func (g *Generator) Generate() string {
	var id [16]byte

	ms := uint64(g.clock.Now().UnixMilli())
	binary.BigEndian.PutUint64(id[0:8], ms<<16)

	if g.rand != nil {
		binary.BigEndian.PutUint16(id[6:8], uint16(g.rand.Uint64()))
		binary.BigEndian.PutUint64(id[8:16], g.rand.Uint64())
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("gameid: reading random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant

	return encode(id)
}

// encode renders 128 bits as 26 base32 digits, most significant first. The
// leading digit only carries 3 bits.
func encode(id [16]byte) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])
	out := make([]byte, 26)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Validate checks if a game ID is well formed
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, ch := range id {
		if !strings.ContainsRune(alphabet, ch) {
			return fmt.Errorf("invalid character %c at position %d", ch, i)
		}
	}
	return nil
}
