// Package shortcode converts 128-bit identifiers into fixed-length base62
// short codes. The encoding is deterministic: the same identifier always
// yields the same code, so collision handling is done by minting a new
// identifier, never by re-encoding.
package shortcode

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Alphabet is the 62-character code alphabet, digits first.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultLength is the default code length.
const DefaultLength = 10

var base = big.NewInt(int64(len(Alphabet)))

// Encode returns the base62 representation of the identifier's 128-bit
// value, truncated or left-padded with '0' to exactly length characters.
func Encode(id uuid.UUID, length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	encoded := encodeBase62(new(big.Int).SetBytes(id[:]))

	if len(encoded) >= length {
		return encoded[:length]
	}

	return strings.Repeat(string(Alphabet[0]), length-len(encoded)) + encoded
}

func encodeBase62(num *big.Int) string {
	if num.Sign() == 0 {
		return string(Alphabet[0])
	}

	var (
		digits []byte
		rem    big.Int
	)

	n := new(big.Int).Set(num)
	for n.Sign() > 0 {
		n.DivMod(n, base, &rem)
		digits = append(digits, Alphabet[rem.Int64()])
	}

	// Digits come out least-significant first
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return string(digits)
}
