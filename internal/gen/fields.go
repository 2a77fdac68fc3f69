package gen

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const hexDigits = "0123456789abcdef"
const alphaNum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// pick returns one element of options.
func pick(rng *rand.Rand, options []string) string {
	return options[rng.IntN(len(options))]
}

// pickWeighted returns one product code drawn in proportion to the
// entry weights. Weights must be positive.
func pickWeighted(rng *rand.Rand, options []productWeight) string {
	total := 0
	for _, opt := range options {
		total += opt.Weight
	}
	v := rng.IntN(total)
	for _, opt := range options {
		if v < opt.Weight {
			return opt.Code
		}
		v -= opt.Weight
	}
	return options[len(options)-1].Code
}

// rangeF64 draws from [lo, hi).
func rangeF64(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// chance reports a draw under p.
func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// prefixedID builds IDs like TERM48291047: a prefix and a fixed-width
// number that never has a leading zero.
func prefixedID(rng *rand.Rand, prefix string, digits int) string {
	if digits <= 0 {
		return prefix
	}
	if digits > 18 {
		digits = 18
	}
	min := int64(1)
	for i := 1; i < digits; i++ {
		min *= 10
	}
	if digits == 1 {
		min = 0
	}
	max := min * 10
	if digits == 1 {
		max = 10
	}
	return fmt.Sprintf("%s%0*d", prefix, digits, min+rng.Int64N(max-min))
}

// hexHash returns a 64-character hash-shaped hex string.
func hexHash(rng *rand.Rand) string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = hexDigits[rng.IntN(16)]
	}
	return string(b)
}

// alphaNumeric returns an uppercase alphanumeric string of length n.
func alphaNumeric(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphaNum[rng.IntN(len(alphaNum))]
	}
	return string(b)
}

// ipv4 returns a routable-looking address.
func ipv4(rng *rand.Rand) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+rng.IntN(254), rng.IntN(255), rng.IntN(255), 1+rng.IntN(254))
}

// timeOn places a random time of day on date.
func timeOn(rng *rand.Rand, date time.Time) time.Time {
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d,
		rng.IntN(24), rng.IntN(60), rng.IntN(60), rng.IntN(1_000_000)*1000,
		time.UTC)
}

// expiry returns an MM/YY expiry between 2026 and 2030.
func expiry(rng *rand.Rand) string {
	year := 2026 + rng.IntN(5)
	month := 1 + rng.IntN(12)
	return fmt.Sprintf("%02d/%02d", month, year%100)
}

// cents converts a major-unit amount to integer cents.
func cents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// money formats a major-unit amount with two decimals.
func money(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
