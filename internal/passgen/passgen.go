// Package passgen generates passwords from a CSPRNG. Generated strings are
// security-sensitive secrets; indices into the character pool are drawn
// uniformly from crypto/rand, never from a non-cryptographic generator.
package passgen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars = "0123456789"
	symbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// ambiguousChars are easily confused glyphs removed from the pool when
	// ExcludeAmbiguous is set.
	ambiguousChars = "0Ool1I"
)

// Options selects the character classes and length of a generated password.
type Options struct {
	Length           int
	UseUpper         bool
	UseLower         bool
	UseNumbers       bool
	UseSymbols       bool
	ExcludeAmbiguous bool
}

// Generate returns a random password drawn from the union of the requested
// character classes. An empty pool (no classes selected, or everything
// excluded as ambiguous) or a non-positive length yields ""; callers must
// treat an empty result as "no valid configuration", not as a secret.
func Generate(opts Options) (string, error) {
	pool := buildPool(opts)
	if len(pool) == 0 || opts.Length <= 0 {
		return "", nil
	}

	poolSize := big.NewInt(int64(len(pool)))
	var sb strings.Builder
	sb.Grow(opts.Length)

	for i := 0; i < opts.Length; i++ {
		// rand.Int rejection-samples, so every index is uniform.
		n, err := rand.Int(rand.Reader, poolSize)
		if err != nil {
			return "", err
		}
		sb.WriteByte(pool[n.Int64()])
	}
	return sb.String(), nil
}

func buildPool(opts Options) string {
	var pool string
	if opts.UseLower {
		pool += lowerChars
	}
	if opts.UseUpper {
		pool += upperChars
	}
	if opts.UseNumbers {
		pool += numberChars
	}
	if opts.UseSymbols {
		pool += symbolChars
	}
	if opts.ExcludeAmbiguous {
		for _, c := range ambiguousChars {
			pool = strings.ReplaceAll(pool, string(c), "")
		}
	}
	return pool
}
