// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package blocksplit

import (
	"fmt"
	"math"
	"sync"
)

const (
	// ranges narrower than this are searched exhaustively
	exhaustiveRange = 1024
	// samples per round of the coarse to fine search
	numSamples = 9
)

// FindMinimum returns the index in [start, end) where f is minimal and the
// value of f there. Ranges of 1024 and more indices are searched by repeated
// sampling, which finds the exact minimum only if f is roughly unimodal.
// Ties go to the lowest index.
func FindMinimum(f func(i int) float64, start, end int) (int, float64) {
	return findMinimum(f, start, end, 1)
}

func findMinimum(f func(i int) float64, start, end int, concurrency int) (int, float64) {
	if end <= start {
		panic(fmt.Sprintf("blocksplit: empty search range [%d, %d)", start, end))
	}
	if end-start < exhaustiveRange {
		return scan(f, start, end)
	}

	var p [numSamples]int
	var vp [numSamples]float64
	pos := start
	lastBest := math.Inf(1)
	for end-start > numSamples {
		step := (end - start) / (numSamples + 1)
		for i := range p {
			p[i] = start + (i+1)*step
		}
		evaluate(f, p[:], vp[:], concurrency)

		besti := 0
		best := vp[0]
		for i := 1; i < numSamples; i++ {
			if vp[i] < best {
				best = vp[i]
				besti = i
			}
		}
		if best >= lastBest {
			// no progress, the landscape is flat or not unimodal
			return pos, lastBest
		}

		if besti > 0 {
			start = p[besti-1]
		}
		if besti < numSamples-1 {
			end = p[besti+1]
		}
		pos = p[besti]
		lastBest = best
	}

	if i, v := scan(f, start, end); v < lastBest {
		return i, v
	}
	return pos, lastBest
}

func scan(f func(i int) float64, start, end int) (int, float64) {
	best := math.Inf(1)
	result := start
	for i := start; i < end; i++ {
		if v := f(i); v < best {
			best = v
			result = i
		}
	}
	return result, best
}

// evaluate fills values[i] with f(points[i]).
func evaluate(f func(i int) float64, points []int, values []float64, concurrency int) {
	if concurrency <= 1 {
		for i, p := range points {
			values[i] = f(p)
		}
		return
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, p := range points {
		wg.Add(1)
		sem <- struct{}{}
		go func(i, p int) {
			defer wg.Done()
			values[i] = f(p)
			<-sem
		}(i, p)
	}
	wg.Wait()
}
