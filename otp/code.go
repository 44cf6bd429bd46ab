package otp

import (
	"math/rand/v2"
	"strconv"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// IntNer is the subset of *rand.Rand used for code generation.
type IntNer interface {
	IntN(n int) int
}

// GenerateCode returns a six-digit code drawn uniformly from 100000..999999.
// A nil rng uses the package-level generator.
func GenerateCode(rng IntNer) string {
	span := codeMax - codeMin + 1
	var n int
	if rng == nil {
		n = rand.IntN(span)
	} else {
		n = rng.IntN(span)
	}
	return strconv.Itoa(codeMin + n)
}
