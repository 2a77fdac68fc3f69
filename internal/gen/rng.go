package gen

import (
	"math/rand/v2"
)

// Stream tags keep independent draws independent. The chargeback
// selection must not correlate with any field of the row it refers to,
// so it runs on its own stream derived from the same inputs.
const (
	streamRow        uint64 = 0x7261_6e64_726f_7701 // "randrow"
	streamChargeback uint64 = 0x6368_6172_6765_6201 // "chargeb"
)

// ThreadSeed derives the per-thread seed used for identity sampling.
// Pure arithmetic on the inputs, stable across processes and hosts.
func ThreadSeed(jobIndex, threadIndex int) uint64 {
	return uint64(jobIndex)*1000 + uint64(threadIndex)
}

// RowSeed derives the per-row seed from the full coordinate triple.
// sequenceNumber alone distinguishes rows across jobs and threads, but
// the job and thread indexes are folded in so a misconfigured fleet
// that overlaps ranges still produces distinct rows per producer.
func RowSeed(jobIndex, threadIndex int, sequenceNumber int64) uint64 {
	return ThreadSeed(jobIndex, threadIndex)*0x1_0000_0000 + uint64(sequenceNumber)
}

// rowRand returns the RNG for a row's field draws.
func rowRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, streamRow))
}

// chargebackRand returns the RNG for a row's chargeback selection and,
// when selected, the chargeback row's own fields.
func chargebackRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, streamChargeback))
}
