// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lz77

import (
	"fmt"

	"github.com/intel/fastzopfli/compress/zopfli/huffman"
)

const (
	numRepeat3_6     = 16
	zeroRepeat3_10   = 17
	zeroRepeat11_138 = 18

	numCodeLengthCodes = 19
	// stored blocks hold at most 65535 bytes behind a 5 byte header
	maxStoredBlockSize = 65535
)

var hclenOrder = []int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// Histogram counts the symbols of a token range.
// The end of block symbol is always counted once.
type Histogram struct {
	LiteralCodes  [NumLitLen]uint32
	DistanceCodes [NumDist]uint32
	// ExtraBits is the total number of length and distance extra bits.
	ExtraBits int
}

// Histogram counts the symbols of the token range [start, end).
func (s *Store) Histogram(start, end int) *Histogram {
	h := &Histogram{}
	for i := start; i < end; i++ {
		dist := int(s.Dists[i])
		if dist == 0 {
			h.LiteralCodes[s.LitLens[i]]++
			continue
		}
		lsym, lextra := lengthSymbol(int(s.LitLens[i]))
		dsym, dextra := getDistSymbol(dist)
		h.LiteralCodes[lsym]++
		h.DistanceCodes[dsym]++
		h.ExtraBits += lextra + dextra
	}
	h.LiteralCodes[endOfBlock] = 1
	return h
}

// EstimateCost returns the number of bits needed to encode the token range
// [start, end) of s as one deflate block, including the block header and the
// code tables. It is the cheapest of a stored, a fixed Huffman and a dynamic
// Huffman block.
func EstimateCost(s *Store, start, end int) float64 {
	if start >= end {
		return 0
	}
	h := s.Histogram(start, end)
	cost := storedCost(s.ByteLen(start, end))
	if fixed := fixedCost(h); fixed < cost {
		cost = fixed
	}
	if dynamic := dynamicCost(h, huffman.NewPackageMerge()); dynamic < cost {
		cost = dynamic
	}
	return float64(cost)
}

func storedCost(size int) int {
	blocks := (size + maxStoredBlockSize - 1) / maxStoredBlockSize
	if blocks == 0 {
		blocks = 1
	}
	// 3 header bits padded to a byte plus LEN and NLEN
	return blocks*40 + size*8
}

func fixedCost(h *Histogram) int {
	bits := 3 + h.ExtraBits
	for sym, n := range h.LiteralCodes {
		bits += int(n) * fixedLitLenLength(sym)
	}
	for _, n := range h.DistanceCodes {
		bits += int(n) * 5
	}
	return bits
}

func dynamicCost(h *Histogram, gen huffman.TreeGenerator) int {
	litLens, distLens := CodeLengths(h, gen)
	bits := 3 + h.ExtraBits + treeSize(litLens[:], distLens[:], gen)
	for sym, n := range h.LiteralCodes {
		bits += int(n) * int(litLens[sym])
	}
	for sym, n := range h.DistanceCodes {
		bits += int(n) * int(distLens[sym])
	}
	return bits
}

// CodeLengths builds the length limited literal/length and distance codes of
// a dynamic block for h.
func CodeLengths(h *Histogram, gen huffman.TreeGenerator) (litLens [NumLitLen]uint32, distLens [NumDist]uint32) {
	mustGenerate(gen, MaxCodeLength, h.LiteralCodes[:], litLens[:])
	mustGenerate(gen, MaxCodeLength, h.DistanceCodes[:], distLens[:])
	return litLens, distLens
}

// The alphabets here never exceed 2^limit symbols, so ErrTooFewBits can
// only mean a broken generator.
func mustGenerate(gen huffman.TreeGenerator, limit int, histogram, codeLens []uint32) {
	if _, err := gen.Generate(limit, histogram, codeLens); err != nil {
		panic(fmt.Sprintf("lz77: %v", err))
	}
}

// treeSize returns the size in bits of the dynamic block header that
// describes litLens and distLens: HLIT, HDIST, HCLEN, the code length code
// lengths and the run length encoded code lengths.
func treeSize(litLens []uint32, distLens []uint32, gen huffman.TreeGenerator) int {
	litNum := 257
	for i := 285; i >= 257; i-- {
		if litLens[i] != 0 {
			litNum = i + 1
			break
		}
	}
	distNum := 0
	for i := NumDist - 1; i >= 0; i-- {
		if distLens[i] != 0 {
			distNum = i + 1
			break
		}
	}
	var oneDistance [1]uint32
	dists := distLens[:distNum]
	if distNum == 0 {
		// deflate always transmits at least one distance code
		oneDistance[0] = 1
		dists = oneDistance[:]
	}

	rle := encodeLengths(litLens[:litNum], dists)

	var clLens [numCodeLengthCodes]uint32
	mustGenerate(gen, MaxCodeLengthCodeLength, rle.histogram[:], clLens[:])

	codeSize := numCodeLengthCodes
	for codeSize > 4 && clLens[hclenOrder[codeSize-1]] == 0 {
		codeSize--
	}

	bits := 5 + 5 + 4 + 3*codeSize + rle.extraBits
	for sym, n := range rle.histogram {
		bits += int(n) * int(clLens[sym])
	}
	return bits
}

// codeLengthEncoder counts the code length alphabet symbols a run length
// encoded sequence of code lengths needs.
type codeLengthEncoder struct {
	histogram [numCodeLengthCodes]uint32
	extraBits int
}

// encodeLengths run length encodes the literal/length and distance code
// lengths as the single sequence a dynamic block header carries, so runs may
// cross from one alphabet into the other.
func encodeLengths(litLens, distLens []uint32) codeLengthEncoder {
	var all [NumLitLen + NumDist]uint32
	n := copy(all[:], litLens)
	n += copy(all[n:], distLens)

	var c codeLengthEncoder
	c.encode(all[:n])
	return c
}

func (c *codeLengthEncoder) encode(lens []uint32) {
	for i := 0; i < len(lens); {
		sym := lens[i]
		run := 1
		for i+run < len(lens) && lens[i+run] == sym {
			run++
		}
		i += run

		if sym == 0 {
			run = c.zeroRepeat(run)
		} else if run >= 4 {
			// the first length is sent as is, code 16 repeats it
			c.histogram[sym]++
			run = c.numRepeat(run - 1)
		}
		c.histogram[sym] += uint32(run)
	}
}

// numRepeat emits code 16 while at least 3 repeats are left and returns the
// number of lengths still to send literally.
func (c *codeLengthEncoder) numRepeat(repeated int) int {
	for repeated >= 3 {
		c.histogram[numRepeat3_6]++
		c.extraBits += 2
		repeated -= min(repeated, 6)
	}
	return repeated
}

// zeroRepeat emits codes 18 and 17 for a run of zeros and returns the number
// of zeros still to send literally.
func (c *codeLengthEncoder) zeroRepeat(repeated int) int {
	for repeated >= 11 {
		c.histogram[zeroRepeat11_138]++
		c.extraBits += 7
		repeated -= min(repeated, 138)
	}
	for repeated >= 3 {
		c.histogram[zeroRepeat3_10]++
		c.extraBits += 3
		repeated -= min(repeated, 10)
	}
	return repeated
}
