// Copyright (c) 2023, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import (
	"cmp"
	"slices"
)

// moffatCodeLens implements In-Place Calculation of Minimum-Redundancy Codes.
// Check http://hjemmesider.diku.dk/~jyrki/Paper/WADS95.pdf .
// w must be sorted in decreasing order; it is replaced by the code lengths.
// It returns the longest code length.
func moffatCodeLens(w []uint64) uint64 {
	// phase 1
	n := len(w)
	if n == 0 {
		return 0
	}
	if n == 1 {
		w[0] = 1
		return 1
	}
	leaf := n - 1
	root := n - 1
	for next := n - 1; next >= 1; next-- {
		// find first child
		if leaf < 0 || (root > next && w[root] < w[leaf]) {
			// use internal code
			w[next] = w[root]
			w[root] = uint64(next)
			root--
		} else {
			// use leaf node
			w[next] = w[leaf]
			leaf--
		}

		// find second child
		if leaf < 0 || (root > next && w[root] < w[leaf]) {
			// use internal code
			w[next] += w[root]
			w[root] = uint64(next)
			root--
		} else {
			// use leaf node
			w[next] += w[leaf]
			leaf--
		}
	}
	// phase 2
	w[1] = 0
	for next := 2; next <= n-1; next++ {
		w[next] = w[w[next]] + 1
	}
	// phase 3
	avail := 1
	used := 0
	depth := 0
	root = 1
	next := 0
	for avail > 0 {
		// count internal nodes used at depth depth
		for ; root < n && w[root] == uint64(depth); root++ {
			used++
		}
		// assign as leaves any nodes that are not internal
		for ; avail > used; avail-- {
			w[next] = uint64(depth)
			next = next + 1
		}
		avail = 2 * used
		depth++
		used = 0
	}
	return w[len(w)-1]
}

// unboundedCost returns the total weighted length of an unrestricted
// minimum-redundancy code for frequencies and its longest code length.
func unboundedCost(frequencies []uint32) (cost uint64, maxLen uint64) {
	var weights []uint64
	for _, v := range frequencies {
		if v != 0 {
			weights = append(weights, uint64(v))
		}
	}
	slices.SortFunc(weights, func(a, b uint64) int {
		return cmp.Compare(b, a)
	})
	lens := slices.Clone(weights)
	maxLen = moffatCodeLens(lens)
	for i, w := range weights {
		cost += w * lens[i]
	}
	return cost, maxLen
}
