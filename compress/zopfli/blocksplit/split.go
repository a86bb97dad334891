// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package blocksplit partitions a parsed LZ77 stream into deflate blocks that
// are each encoded with their own Huffman codes. Split points are chosen
// greedily: the largest block that may still profit is cut where the summed
// cost of both halves is lowest, until no cut pays for itself.
package blocksplit

import (
	"fmt"
	"slices"
	"strings"
)

// minBlockTokens is the smallest number of tokens worth splitting; the
// overhead of an extra block outweighs any gain below it.
const minBlockTokens = 10

// Oracle estimates the encoded size of token ranges.
type Oracle interface {
	// Len is the number of tokens in the stream.
	Len() int
	// Cost is the estimated size in bits of the tokens [start, end) encoded
	// as one block, code tables included. It must not change while Split runs.
	Cost(start, end int) float64
}

// Locator is implemented by oracles that can map a token index to its offset
// in the uncompressed data. It is only used for reporting.
type Locator interface {
	BytePos(index int) int
}

// Split returns the ascending token indices at which o should be cut into
// blocks. maxBlocks limits the number of blocks, 0 means no limit.
// Streams shorter than 10 tokens are never split.
func Split(o Oracle, maxBlocks int, opts ...Option) []int {
	if maxBlocks < 0 {
		panic(fmt.Sprintf("blocksplit: negative block limit %d", maxBlocks))
	}
	cfg := newOptions(opts)
	size := o.Len()
	if size < minBlockTokens {
		return nil
	}

	var points []int
	done := make([]bool, size)
	numBlocks := 1
	lstart, lend := 0, size
	for {
		if maxBlocks > 0 && numBlocks >= maxBlocks {
			break
		}

		start, end := lstart, lend
		splitCost := func(i int) float64 {
			return o.Cost(start, i) + o.Cost(i, end)
		}
		llpos, splitcost := findMinimum(splitCost, start+1, end, cfg.concurrency)
		origcost := o.Cost(start, end)

		// a cut right after the block start or before the last token of the
		// stream leaves a block too small to carry its own code tables
		degenerate := llpos == start+1 || llpos == end || llpos >= size-1
		accepted := splitcost < origcost && !degenerate
		if accepted {
			points = insertSorted(points, llpos)
			numBlocks++
		} else {
			done[start] = true
		}
		cfg.log.Debugw("split candidate",
			"start", start, "end", end, "pos", llpos,
			"splitCost", splitcost, "origCost", origcost, "accepted", accepted)

		var found bool
		lstart, lend, found = largestSplittableBlock(size, done, points)
		if !found || lend-lstart < minBlockTokens {
			break
		}
	}

	if cfg.verbose {
		report(cfg, o, points)
	}
	return points
}

// insertSorted adds value to the ascending points unless it is present.
func insertSorted(points []int, value int) []int {
	i, found := slices.BinarySearch(points, value)
	if found {
		return points
	}
	return slices.Insert(points, i, value)
}

// largestSplittableBlock finds the widest block that was not yet found
// unsplittable. Taking the widest spreads the blocks evenly when their
// number is limited. Block boundaries are 0, the split points and size-1.
func largestSplittableBlock(size int, done []bool, points []int) (lstart, lend int, found bool) {
	longest := 0
	for i := 0; i <= len(points); i++ {
		start := 0
		if i > 0 {
			start = points[i-1]
		}
		end := size - 1
		if i < len(points) {
			end = points[i]
		}
		if !done[start] && end-start > longest {
			lstart, lend = start, end
			found = true
			longest = end - start
		}
	}
	return lstart, lend, found
}

func report(cfg *options, o Oracle, points []int) {
	positions := points
	if l, ok := o.(Locator); ok {
		positions = make([]int, len(points))
		for i, p := range points {
			positions[i] = l.BytePos(p)
		}
	}
	dec := make([]string, len(positions))
	hex := make([]string, len(positions))
	for i, p := range positions {
		dec[i] = fmt.Sprintf("%d", p)
		hex[i] = fmt.Sprintf("%x", p)
	}
	cfg.log.Infow("block split points",
		"count", len(points),
		"points", strings.Join(dec, " "),
		"hex", strings.Join(hex, " "))
}
