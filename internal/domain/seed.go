package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
)

// Seed is the deterministic identity of a request: 8 lowercase hex characters
// encoding a 31-bit value derived from the user input. Equal input always
// yields the equal seed, which makes generation reproducible and drives
// fallback-name selection.
type Seed string

// DeriveSeed hashes firstName+birthMonth with SHA-256 and encodes the first
// four digest bytes as a big-endian integer masked to 31 bits, so the value
// fits the signed 32-bit sampling-seed parameters of the inference backends.
// The encoding is stable: persisted seeds stay valid across releases.
func DeriveSeed(firstName, birthMonth string) Seed {
	sum := sha256.Sum256([]byte(firstName + birthMonth))
	v := binary.BigEndian.Uint32(sum[:4]) & 0x7FFFFFFF
	return Seed(fmt.Sprintf("%08x", v))
}

// Int31 parses the seed value. Empty or malformed seeds report an error.
func (s Seed) Int31() (int32, error) {
	v, err := strconv.ParseUint(string(s), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse seed %q: %w", string(s), err)
	}
	if v > 0x7FFFFFFF {
		return 0, fmt.Errorf("seed %q exceeds 31 bits", string(s))
	}
	return int32(v), nil
}

// Int32Ptr adapts the seed for provider configs that take an optional
// sampling seed; nil when the seed is absent or malformed.
func (s Seed) Int32Ptr() *int32 {
	v, err := s.Int31()
	if err != nil {
		return nil
	}
	return &v
}

// FallbackIndex maps the seed onto [0, n). A missing or unparseable seed
// pins to index 0 so fallback selection stays deterministic on bad input.
func (s Seed) FallbackIndex(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := strconv.ParseUint(string(s), 16, 64)
	if err != nil {
		return 0
	}
	return int(v % uint64(n))
}
