// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package blocksplit

import (
	"bytes"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/intel/fastzopfli/compress/zopfli/lz77"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// regionOracle models a stream made of regions with distinct statistics.
// Every region a block touches costs one more bit per token.
type regionOracle struct {
	size   int
	bounds []int // ascending region starts, the first region starts at 0
	header float64
}

func (r *regionOracle) Len() int { return r.size }

func (r *regionOracle) region(i int) int {
	return sort.SearchInts(r.bounds, i+1)
}

func (r *regionOracle) Cost(start, end int) float64 {
	if start >= end {
		return 0
	}
	regions := r.region(end-1) - r.region(start) + 1
	return r.header + float64((end-start)*regions)
}

// noiseOracle is deterministic but far from unimodal.
type noiseOracle struct{ size int }

func (n *noiseOracle) Len() int { return n.size }

func (n *noiseOracle) Cost(start, end int) float64 {
	if start >= end {
		return 0
	}
	h := uint64(start)*0x9E3779B97F4A7C15 ^ uint64(end)*0xC2B2AE3D27D4EB4F
	h ^= h >> 29
	return 100 + float64(2*(end-start)) + float64(h%997)
}

type locatedOracle struct{ *regionOracle }

func (l locatedOracle) BytePos(index int) int { return 2 * index }

func checkPoints(t *testing.T, points []int, size int, maxBlocks int) {
	t.Helper()
	for i, p := range points {
		require.Greater(t, p, 0)
		require.Less(t, p, size-1)
		if i > 0 {
			require.Greater(t, p, points[i-1], "split points must be strictly ascending")
		}
	}
	if maxBlocks > 0 {
		require.LessOrEqual(t, len(points), maxBlocks-1)
	}
}

func TestSplitSingleBoundary(t *testing.T) {
	o := &regionOracle{size: 600, bounds: []int{300}, header: 50}
	assert.Equal(t, []int{300}, Split(o, 0))
}

func TestSplitFindsRegions(t *testing.T) {
	o := &regionOracle{size: 20000, bounds: []int{5000, 12000}, header: 50}
	points := Split(o, 0)
	checkPoints(t, points, o.size, 0)
	assert.Contains(t, points, 5000)
	assert.Contains(t, points, 12000)
	assert.LessOrEqual(t, len(points), 4)
}

func TestSplitMaxBlocks(t *testing.T) {
	o := &regionOracle{size: 20000, bounds: []int{2000, 5000, 9000, 12000, 17000}, header: 50}
	for _, maxBlocks := range []int{1, 2, 3, 4} {
		points := Split(o, maxBlocks)
		checkPoints(t, points, o.size, maxBlocks)
		assert.Len(t, points, maxBlocks-1, "max blocks %d", maxBlocks)
	}
	checkPoints(t, Split(o, 0), o.size, 0)
}

func TestSplitTinyStream(t *testing.T) {
	for size := 0; size < minBlockTokens; size++ {
		o := &regionOracle{size: size, bounds: []int{size / 2}, header: 0}
		assert.Empty(t, Split(o, 0), "size %d", size)
	}
}

func TestSplitRejectsDegenerateCuts(t *testing.T) {
	// cutting off the first token would pay, but leaves a one token block
	head := &regionOracle{size: 100, bounds: []int{1}, header: 50}
	assert.Empty(t, Split(head, 0))

	// the same at the end of the stream
	tail := &regionOracle{size: 100, bounds: []int{99}, header: 50}
	assert.Empty(t, Split(tail, 0))
}

func TestSplitUnprofitable(t *testing.T) {
	o := &regionOracle{size: 5000, header: 50}
	assert.Empty(t, Split(o, 0))
}

func TestSplitNoise(t *testing.T) {
	for _, size := range []int{10, 11, 500, 3000, 50000} {
		for _, maxBlocks := range []int{0, 1, 2, 7} {
			o := &noiseOracle{size: size}
			checkPoints(t, Split(o, maxBlocks), size, maxBlocks)
		}
	}
}

func TestSplitNegativeMaxBlocksPanics(t *testing.T) {
	assert.Panics(t, func() {
		Split(&regionOracle{size: 100, header: 1}, -1)
	})
}

// wordText returns n bytes of pseudo text drawn from a small vocabulary.
func wordText(seed int64, n int) []byte {
	words := strings.Fields("the light of rays colours refraction prism glass reflected " +
		"experiment white red violet angle incidence sun image thin plates")
	rnd := rand.New(rand.NewSource(seed))
	var sb strings.Builder
	for sb.Len() < n {
		sb.WriteString(words[rnd.Intn(len(words))])
		sb.WriteByte(' ')
	}
	return []byte(sb.String()[:n])
}

func mixedData() []byte {
	random := make([]byte, 24*1024)
	rand.New(rand.NewSource(11)).Read(random)
	var data []byte
	data = append(data, wordText(1, 24*1024)...)
	data = append(data, random...)
	data = append(data, bytes.ToUpper(wordText(2, 24*1024))...)
	return data
}

func TestSplitStore(t *testing.T) {
	store := lz77.Tokenize(mixedData(), 0)
	points := Split(store, 15)
	checkPoints(t, points, store.Len(), 15)
	require.NotEmpty(t, points)

	whole := store.Cost(0, store.Len())
	total := 0.0
	bounds := append(append([]int{0}, points...), store.Len())
	for i := 0; i+1 < len(bounds); i++ {
		total += store.Cost(bounds[i], bounds[i+1])
	}
	assert.Less(t, total, whole)
}

func TestSplitConcurrentMatchesSequential(t *testing.T) {
	store := lz77.Tokenize(mixedData(), 0)
	want := Split(store, 0)
	for _, n := range []int{2, 4, 9} {
		assert.Equal(t, want, Split(store, 0, WithConcurrency(n)), "concurrency %d", n)
	}
}

func TestSplitDeterministic(t *testing.T) {
	o := &noiseOracle{size: 40000}
	assert.Equal(t, Split(o, 0), Split(o, 0))
}

func TestSplitLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	o := &regionOracle{size: 600, bounds: []int{300}, header: 50}
	points := Split(o, 0, WithLogger(zap.New(core).Sugar()), WithVerbose(true))
	require.Equal(t, []int{300}, points)

	candidates := logs.FilterMessage("split candidate").All()
	require.Len(t, candidates, 3)
	assert.Equal(t, true, candidates[0].ContextMap()["accepted"])
	assert.Equal(t, false, candidates[1].ContextMap()["accepted"])

	reports := logs.FilterMessage("block split points").All()
	require.Len(t, reports, 1)
	assert.Equal(t, "300", reports[0].ContextMap()["points"])
	assert.Equal(t, "12c", reports[0].ContextMap()["hex"])
}

func TestSplitLoggingBytePositions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	o := locatedOracle{&regionOracle{size: 600, bounds: []int{300}, header: 50}}
	Split(o, 0, WithLogger(zap.New(core).Sugar()), WithVerbose(true))

	reports := logs.FilterMessage("block split points").All()
	require.Len(t, reports, 1)
	assert.Equal(t, "600", reports[0].ContextMap()["points"])
	assert.Equal(t, "258", reports[0].ContextMap()["hex"])
	assert.Zero(t, logs.FilterMessage("split candidate").Len())
}

func TestSplitQuietByDefault(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	o := &regionOracle{size: 600, bounds: []int{300}, header: 50}
	Split(o, 0, WithLogger(zap.New(core).Sugar()))
	assert.Zero(t, logs.FilterMessage("block split points").Len())
	for _, e := range logs.All() {
		assert.True(t, strings.HasPrefix(e.Message, "split"))
	}
}

func BenchmarkSplit(b *testing.B) {
	store := lz77.Tokenize(mixedData(), 0)
	for i := 0; i < b.N; i++ {
		Split(store, 0)
	}
}
