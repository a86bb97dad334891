// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lz77

import "math/bits"

const (
	minMatchLength = 3
	maxMatchLength = 258

	// MaxWindowSize is the largest distance deflate can address.
	MaxWindowSize = 32 * 1024

	// NumLitLen is the size of the literal/length alphabet including the two
	// symbols deflate reserves.
	NumLitLen = 288
	// NumDist is the size of the distance alphabet.
	NumDist = 30

	endOfBlock = 256

	// MaxCodeLength limits literal/length and distance codes.
	MaxCodeLength = 15
	// MaxCodeLengthCodeLength limits the codes of the code length alphabet.
	MaxCodeLengthCodeLength = 7
)

// lengthSymbol returns the literal/length symbol of a match length and the
// number of extra bits that follow it.
func lengthSymbol(length int) (sym int, extraBits int) {
	switch {
	case length <= 10:
		return 254 + length, 0
	case length == maxMatchLength:
		return 285, 0
	}
	v := length - minMatchLength
	extraBits = bits.Len(uint(v)) - 3
	sym = 261 + 4*extraBits + (v>>extraBits)&3
	return sym, extraBits
}

// getDistSymbol returns the distance symbol and its extra bits count.
func getDistSymbol(dist int) (sym int, extraBits int) {
	if dist <= 2 {
		return dist - 1, 0
	}
	dist--
	msb := bits.Len(uint(dist))
	extraBits = msb - 2
	sym = (dist >> extraBits) + 2*extraBits
	return sym, extraBits
}

// fixedLitLenLength is the code length of sym in the fixed Huffman code.
func fixedLitLenLength(sym int) int {
	switch {
	case sym < 144:
		return 8
	case sym < 256:
		return 9
	case sym < 280:
		return 7
	default:
		return 8
	}
}
