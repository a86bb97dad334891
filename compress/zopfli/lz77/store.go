// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package lz77 holds parsed deflate token streams and estimates the encoded
// size of a token range. It is the collaborator the block splitter and the
// length limited Huffman code builder are driven by.
package lz77

import "fmt"

// Store is a parsed LZ77 stream.
// Token i is a literal if Dists[i] == 0, LitLens[i] is then the byte value.
// Otherwise it is a match of length LitLens[i] at distance Dists[i].
type Store struct {
	LitLens []uint16
	Dists   []uint16
	Pos     []int // uncompressed offset of every token
	size    int
}

// NewStore creates an empty store with room for capacity tokens.
func NewStore(capacity int) *Store {
	return &Store{
		LitLens: make([]uint16, 0, capacity),
		Dists:   make([]uint16, 0, capacity),
		Pos:     make([]int, 0, capacity),
	}
}

// AppendLiteral appends a single byte.
func (s *Store) AppendLiteral(lit byte) {
	s.append(uint16(lit), 0)
}

// AppendMatch appends a back reference. Lengths outside [3, 258] and
// distances outside [1, 32768] are programming errors.
func (s *Store) AppendMatch(length, dist int) {
	if length < minMatchLength || length > maxMatchLength {
		panic(fmt.Sprintf("lz77: match length %d out of range", length))
	}
	if dist < 1 || dist > MaxWindowSize {
		panic(fmt.Sprintf("lz77: match distance %d out of range", dist))
	}
	if dist > s.size {
		panic(fmt.Sprintf("lz77: match distance %d before start of stream (%d bytes)", dist, s.size))
	}
	s.append(uint16(length), uint16(dist))
}

func (s *Store) append(litLen, dist uint16) {
	s.LitLens = append(s.LitLens, litLen)
	s.Dists = append(s.Dists, dist)
	s.Pos = append(s.Pos, s.size)
	if dist == 0 {
		s.size++
	} else {
		s.size += int(litLen)
	}
}

// Len is the number of tokens.
func (s *Store) Len() int {
	return len(s.LitLens)
}

// Size is the number of uncompressed bytes the tokens expand to.
func (s *Store) Size() int {
	return s.size
}

// BytePos returns the uncompressed offset of token index.
// index == Len() maps to Size().
func (s *Store) BytePos(index int) int {
	if index == len(s.Pos) {
		return s.size
	}
	return s.Pos[index]
}

// ByteLen is the number of uncompressed bytes in the token range [start, end).
func (s *Store) ByteLen(start, end int) int {
	if start >= end {
		return 0
	}
	return s.BytePos(end) - s.Pos[start]
}

// Cost is EstimateCost over the store.
func (s *Store) Cost(start, end int) float64 {
	return EstimateCost(s, start, end)
}

// Bytes expands the tokens back into the data they encode.
func (s *Store) Bytes() []byte {
	out := make([]byte, 0, s.size)
	for i, v := range s.LitLens {
		dist := int(s.Dists[i])
		if dist == 0 {
			out = append(out, byte(v))
			continue
		}
		from := len(out) - dist
		// byte by byte, matches may overlap their own output
		for j := 0; j < int(v); j++ {
			out = append(out, out[from+j])
		}
	}
	return out
}
