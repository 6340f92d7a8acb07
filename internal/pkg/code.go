package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandDigits returns an n-digit numeric code, left-padded with zeros, drawn
// from crypto/rand in one draw.
func RandDigits(n int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	x, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, x), nil
}
