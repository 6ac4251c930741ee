// Package gameid generates sortable identifiers for tables.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, lower case.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID.
const Length = 26

// Generate returns a new game ID: a UUIDv7 encoded as 26 base32 characters.
// IDs generated later sort after earlier ones.
func Generate() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate game id: %w", err)
	}
	return encode(id), nil
}

// GenerateFrom returns a game ID whose random bits are read from r. It is
// intended for deterministic tests.
func GenerateFrom(r io.Reader) (string, error) {
	id, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate game id: %w", err)
	}
	return encode(id), nil
}

// encode writes the 128 bits as 26 groups of 5, the first group carrying
// only the top three bits.
func encode(id uuid.UUID) string {
	var out [Length]byte
	var acc uint64
	bits := 2 // left pad to 130 bits
	pos := 0
	for _, b := range id {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = alphabet[(acc>>bits)&0x1f]
			pos++
		}
	}
	return string(out[:])
}

// Validate checks that id is a well-formed game ID.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
