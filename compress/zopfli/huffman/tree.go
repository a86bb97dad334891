// Copyright (c) 2023, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

// TreeGenerator generate code's lengths from the histogram
// A huffman tree generator must be reused
// due to memory allocation overhead.
type TreeGenerator interface {
	// Generate writes the code length of every histogram symbol into codeLens,
	// limited to maxBits, and returns the number of used symbols.
	Generate(maxBits int, histogram []uint32, codeLens []uint32) (num int, err error)
}
