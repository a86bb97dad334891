// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package zopfli plans the block structure of a deflate stream: where a
// parsed LZ77 stream is cut into blocks and which length limited Huffman
// codes every block uses. Writing the bits is left to the caller.
package zopfli

import (
	"fmt"

	"github.com/intel/fastzopfli/compress/zopfli/blocksplit"
	"github.com/intel/fastzopfli/compress/zopfli/huffman"
	"github.com/intel/fastzopfli/compress/zopfli/lz77"
)

// Block is one planned deflate block over the tokens [Start, End).
type Block struct {
	Start, End int
	// Cost is the estimated size of the block in bits.
	Cost float64

	LitLenLengths [lz77.NumLitLen]uint32
	DistLengths   [lz77.NumDist]uint32
}

// Plan splits store into at most maxBlocks blocks (0 means no limit) and
// computes the dynamic Huffman code lengths of every block.
// An empty store yields no blocks.
func Plan(store *lz77.Store, maxBlocks int, opts ...blocksplit.Option) ([]Block, error) {
	if store.Len() == 0 {
		return nil, nil
	}
	points := blocksplit.Split(store, maxBlocks, opts...)

	bounds := make([]int, 0, len(points)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, points...)
	bounds = append(bounds, store.Len())

	gen := huffman.NewPackageMerge()
	blocks := make([]Block, len(bounds)-1)
	for i := range blocks {
		b := &blocks[i]
		b.Start, b.End = bounds[i], bounds[i+1]
		b.Cost = store.Cost(b.Start, b.End)

		h := store.Histogram(b.Start, b.End)
		if _, err := gen.Generate(lz77.MaxCodeLength, h.LiteralCodes[:], b.LitLenLengths[:]); err != nil {
			return nil, fmt.Errorf("block %d literal/length code: %w", i, err)
		}
		if _, err := gen.Generate(lz77.MaxCodeLength, h.DistanceCodes[:], b.DistLengths[:]); err != nil {
			return nil, fmt.Errorf("block %d distance code: %w", i, err)
		}
	}
	return blocks, nil
}

// Codes returns the canonical bit reversed codes of the block.
func (b *Block) Codes() (litLen [lz77.NumLitLen]uint16, dist [lz77.NumDist]uint16) {
	huffman.GenerateCode(b.LitLenLengths[:], litLen[:])
	huffman.GenerateCode(b.DistLengths[:], dist[:])
	return litLen, dist
}
