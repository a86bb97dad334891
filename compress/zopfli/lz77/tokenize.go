// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lz77

import (
	"encoding/binary"
	"math/bits"
)

const (
	hashBits = 15
	hashMask = 1<<hashBits - 1
	minMatch = 4
)

func hash4(data uint32) uint32 {
	const prime = 0xB2D06057
	var hash uint64
	hash = uint64(data)
	hash *= prime
	hash >>= 16
	hash *= prime
	hash >>= 16
	return uint32(hash)
}

// Tokenize parses data with a greedy single probe hash matcher.
// windowSize limits the match distance; values outside (0, MaxWindowSize]
// select MaxWindowSize.
func Tokenize(data []byte, windowSize int) *Store {
	if windowSize <= 0 || windowSize > MaxWindowSize {
		windowSize = MaxWindowSize
	}
	s := NewStore(len(data) / 2)
	// position+1 of the last occurrence of each hash, 0 for none
	table := make([]int32, 1<<hashBits)
	end := len(data) - minMatch
	offset := 0
	for offset <= end {
		hash := hash4(binary.LittleEndian.Uint32(data[offset:])) & hashMask
		prev := int(table[hash]) - 1
		table[hash] = int32(offset + 1)
		if prev >= 0 && offset-prev <= windowSize {
			maxLength := len(data) - offset
			if maxLength > maxMatchLength {
				maxLength = maxMatchLength
			}
			matchLength := compare(data, prev, offset, maxLength)
			if matchLength >= minMatch {
				// only update next 3 hash
				for i := 1; i < 4 && offset+i <= end; i++ {
					h := hash4(binary.LittleEndian.Uint32(data[offset+i:])) & hashMask
					table[h] = int32(offset + i + 1)
				}
				s.AppendMatch(matchLength, offset-prev)
				offset += matchLength
				continue
			}
		}
		s.AppendLiteral(data[offset])
		offset++
	}
	for ; offset < len(data); offset++ {
		s.AppendLiteral(data[offset])
	}
	return s
}

// compare returns the length of the common prefix of data[prev:] and
// data[curr:], at most maxLength. prev must be below curr.
func compare(data []byte, prev, curr int, maxLength int) (match int) {
	for match+8 <= maxLength {
		test := binary.LittleEndian.Uint64(data[prev+match:])
		test ^= binary.LittleEndian.Uint64(data[curr+match:])
		if test != 0 {
			return match + bits.TrailingZeros64(test)/8
		}
		match += 8
	}
	for match < maxLength && data[prev+match] == data[curr+match] {
		match++
	}
	return match
}
