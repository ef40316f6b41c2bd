package repository

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodeAlphabet leaves out glyphs that are easy to confuse: I, O, 0 and 1.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var alphabetSize = big.NewInt(int64(len(CodeAlphabet)))

// NewCode - returns a random room code of the given length.
func NewCode(length int) (string, error) {
	var code strings.Builder
	code.Grow(length)

	for range length {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}
		code.WriteByte(CodeAlphabet[n.Int64()])
	}

	return code.String(), nil
}

// NormalizeCode - trims user input and upper-cases it for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
