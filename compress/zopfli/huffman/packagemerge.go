// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import (
	"cmp"
	"errors"
	"fmt"
	"math/bits"
	"slices"
)

// ErrTooFewBits is returned when 2^maxBits cannot address every used symbol.
var ErrTooFewBits = errors.New("huffman: max code length too small for the number of used symbols")

var _ TreeGenerator = &PackageMerge{}

type leaf struct {
	weight uint64
	symbol int
}

// node is one package of a boundary package-merge chain.
// count is the number of leaves the chain covers, tail is the arena index of
// the chain before the last merge (always lower than the node's own index) or -1.
type node struct {
	weight uint64
	count  int
	tail   int32
}

// PackageMerge implements the boundary package-merge algorithm from
// "A Fast and Space-Economical Algorithm for Length-Limited Coding"
// (Katajainen, Moffat, Turpin).
// Scratch buffers are kept between calls, so a generator must be reused
// and must not be shared between goroutines.
type PackageMerge struct {
	leaves []leaf
	arena  []node
	lists  [][2]int32
	counts []int
}

// NewPackageMerge creates a new PackageMerge instance
func NewPackageMerge() *PackageMerge {
	return &PackageMerge{}
}

// LengthLimitedCodeLengths returns the optimal code length of every symbol of
// frequencies such that no length exceeds maxBits.
// Unused symbols get length 0. A single used symbol always gets length 1,
// even for maxBits 0, as a code needs at least one bit.
func LengthLimitedCodeLengths(frequencies []uint32, maxBits int) ([]uint32, error) {
	lens := make([]uint32, len(frequencies))
	if _, err := NewPackageMerge().Generate(maxBits, frequencies, lens); err != nil {
		return nil, err
	}
	return lens, nil
}

// Generate writes the length limited code lengths of histogram into codeLens
// and returns the number of used symbols.
// histogram and codeLens may be the same slice.
func (p *PackageMerge) Generate(maxBits int, histogram []uint32, codeLens []uint32) (num int, err error) {
	if maxBits < 0 {
		panic(fmt.Sprintf("huffman: negative max code length %d", maxBits))
	}
	if len(codeLens) < len(histogram) {
		panic(fmt.Sprintf("huffman: %d code lengths for %d symbols", len(codeLens), len(histogram)))
	}

	p.leaves = p.leaves[:0]
	for i, v := range histogram {
		if v != 0 {
			p.leaves = append(p.leaves, leaf{weight: uint64(v), symbol: i})
		}
	}
	num = len(p.leaves)
	if tooFewBits(maxBits, num) {
		return 0, fmt.Errorf("%w: %d symbols, max length %d", ErrTooFewBits, num, maxBits)
	}

	for i := range codeLens[:len(histogram)] {
		codeLens[i] = 0
	}
	switch num {
	case 0:
		return 0, nil
	case 1, 2:
		// a canonical code needs at least one bit even for a single symbol
		for _, l := range p.leaves {
			codeLens[l.symbol] = 1
		}
		return num, nil
	}

	slices.SortStableFunc(p.leaves, func(a, b leaf) int {
		return cmp.Compare(a.weight, b.weight)
	})
	if num-1 < maxBits {
		maxBits = num - 1
	}

	p.extract(p.run(maxBits), codeLens)
	return num, nil
}

func tooFewBits(maxBits, num int) bool {
	if maxBits >= bits.UintSize-1 {
		return false
	}
	return 1<<uint(maxBits) < num
}

func (p *PackageMerge) alloc(weight uint64, count int, tail int32) int32 {
	p.arena = append(p.arena, node{weight: weight, count: count, tail: tail})
	return int32(len(p.arena) - 1)
}

// run builds the chains of every list and returns the final chain of the top list.
func (p *PackageMerge) run(maxBits int) int32 {
	num := len(p.leaves)
	if need := 2 * maxBits * num; cap(p.arena) < need {
		p.arena = make([]node, 0, need)
	} else {
		p.arena = p.arena[:0]
	}

	first := p.alloc(p.leaves[0].weight, 1, -1)
	second := p.alloc(p.leaves[1].weight, 2, -1)
	p.lists = p.lists[:0]
	for i := 0; i < maxBits; i++ {
		p.lists = append(p.lists, [2]int32{first, second})
	}

	// The top list needs 2*num-2 chains, two of them exist already and the
	// last one is produced by finish.
	top := maxBits - 1
	for i := 0; i < 2*num-5; i++ {
		p.advance(top)
	}
	p.finish(top)
	return p.lists[top][1]
}

// advance appends one chain to the list at index.
func (p *PackageMerge) advance(index int) {
	current := p.lists[index][1]
	last := p.arena[current].count
	if index == 0 && last >= len(p.leaves) {
		return
	}

	if index == 0 {
		p.lists[index] = [2]int32{current, p.alloc(p.leaves[last].weight, last+1, -1)}
		return
	}

	prev := p.lists[index-1]
	sum := p.arena[prev[0]].weight + p.arena[prev[1]].weight
	if last < len(p.leaves) && sum > p.leaves[last].weight {
		next := p.alloc(p.leaves[last].weight, last+1, p.arena[current].tail)
		p.lists[index] = [2]int32{current, next}
		return
	}

	p.lists[index] = [2]int32{current, p.alloc(sum, last, prev[1])}
	// both lookahead chains of the previous list are used up
	p.advance(index - 1)
	p.advance(index - 1)
}

// finish is the last advance of the top list. Only the final chain matters
// here, so the lower lists are not refilled.
func (p *PackageMerge) finish(index int) {
	current := p.lists[index][1]
	last := p.arena[current].count
	prev := p.lists[index-1]
	sum := p.arena[prev[0]].weight + p.arena[prev[1]].weight
	if last < len(p.leaves) && sum > p.leaves[last].weight {
		p.lists[index][1] = p.alloc(p.leaves[last].weight, last+1, p.arena[current].tail)
		return
	}
	p.lists[index][1] = p.alloc(sum, last, prev[1])
}

// extract converts the leaf count boundaries of chain into code lengths.
// The head of the chain holds the leaves of length 1, every tail step is one
// bit deeper.
func (p *PackageMerge) extract(chain int32, codeLens []uint32) {
	p.counts = p.counts[:0]
	for i := chain; i >= 0; i = p.arena[i].tail {
		p.counts = append(p.counts, p.arena[i].count)
	}
	p.counts = append(p.counts, 0)

	val := p.counts[0]
	for depth := 1; depth < len(p.counts); depth++ {
		for ; val > p.counts[depth]; val-- {
			codeLens[p.leaves[val-1].symbol] = uint32(depth)
		}
	}
}
