// Copyright (c) 2023, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import (
	"fmt"
	"math/bits"
)

// MaxCodeLength is the longest code GenerateCode can assign.
const MaxCodeLength = 15

// GenerateCode generate code in reversed format.
// rcodes[i] holds the canonical code of symbol i with its bits reversed, ready
// for an LSB first deflate bit writer. Symbols of length 0 get code 0.
func GenerateCode(lens []uint32, rcodes []uint16) {
	if len(rcodes) < len(lens) {
		panic(fmt.Sprintf("huffman: %d codes for %d lengths", len(rcodes), len(lens)))
	}
	blCount := [MaxCodeLength + 1]uint32{}
	maxBits := 0
	for _, v := range lens {
		if v > MaxCodeLength {
			panic(fmt.Sprintf("huffman: code length %d exceeds %d", v, MaxCodeLength))
		}
		blCount[v]++
		if v > uint32(maxBits) {
			maxBits = int(v)
		}
	}

	blCount[0] = 0
	nextCodes := [MaxCodeLength + 1]uint32{}
	code := uint32(0)
	for bits := 1; bits <= maxBits; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCodes[bits] = code
	}
	for i, l := range lens {
		rcodes[i] = 0
		if l != 0 {
			code := nextCodes[l]
			rcodes[i] = bits.Reverse16(uint16(code)) >> (16 - l)
			nextCodes[l]++
		}
	}
}

// IsPrefixCode reports whether lens satisfies the Kraft inequality
// sum(2^-len) <= 1 over the used symbols.
func IsPrefixCode(lens []uint32) bool {
	maxBits := uint32(0)
	for _, l := range lens {
		if l > maxBits {
			maxBits = l
		}
	}
	if maxBits >= 64 {
		return false
	}
	total := uint64(0)
	for _, l := range lens {
		if l != 0 {
			total += 1 << (maxBits - l)
		}
	}
	return total <= 1<<maxBits
}
