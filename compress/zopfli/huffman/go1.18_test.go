//go:build go1.18
// +build go1.18

package huffman

import (
	"testing"
)

func FuzzLengthLimitedCodeLengths(f *testing.F) {
	f.Add([]byte("simple text"), uint8(7))
	f.Add([]byte{0, 0, 0, 1, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9, 9, 9}, uint8(3))
	f.Fuzz(func(t *testing.T, source []byte, limit uint8) {
		freqs := make([]uint32, 256)
		for _, b := range source {
			freqs[b]++
		}
		maxBits := 1 + int(limit%15)
		lens, err := LengthLimitedCodeLengths(freqs, maxBits)
		if err != nil {
			if !tooFewBits(maxBits, countUsed(freqs)) {
				t.Fatal(err)
			}
			return
		}
		checkValid(t, freqs, lens, maxBits)
		best, unboundedMax := unboundedCost(freqs)
		cost := weightedCost(freqs, lens)
		if cost < best || (unboundedMax <= uint64(maxBits) && cost != best) {
			t.Fatalf("cost %d, unbounded optimum %d (max length %d)", cost, best, unboundedMax)
		}
	})
}

func countUsed(freqs []uint32) (num int) {
	for _, v := range freqs {
		if v != 0 {
			num++
		}
	}
	return num
}
