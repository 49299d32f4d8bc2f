package utils

import (
	"crypto/rand"
	"math/big"
)

const docketCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateDocketNumber generates a random case reference of length n,
// skipping easily confused characters (0/O, 1/I).
func GenerateDocketNumber(n int) string {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(docketCharset))))
		if err != nil {
			// Fallback to empty if crypto rand fails (highly unlikely)
			return ""
		}
		b[i] = docketCharset[num.Int64()]
	}
	return string(b)
}
