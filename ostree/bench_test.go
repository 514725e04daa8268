// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"math/rand"
	"strconv"
	"sync"
	"testing"
)

// numBenchEntries is the number of entries to generate for use in the
// benchmarks.
const numBenchEntries = 50000

var (
	// generatedScores is used to store scores generated for use in the
	// benchmarks so that they only need to be generated once for all
	// benchmarks that use them.
	genScoresLock   sync.Mutex
	generatedScores []uint64
	generatedKeys   []string
)

// genScores generates and returns 'numBenchEntries' scores and keys along
// with memoizing them so that future calls return the cached data.
func genScores() ([]uint64, []string) {
	genScoresLock.Lock()
	defer genScoresLock.Unlock()
	if generatedScores != nil {
		return generatedScores, generatedKeys
	}

	rng := rand.New(rand.NewSource(42))
	scores := make([]uint64, 0, numBenchEntries)
	keys := make([]string, 0, numBenchEntries)
	for i := 0; i < numBenchEntries; i++ {
		scores = append(scores, uint64(rng.Intn(numBenchEntries/4)+1))
		keys = append(keys, strconv.Itoa(i))
	}
	generatedScores, generatedKeys = scores, keys
	return scores, keys
}

// populated returns a tree holding every generated entry.
func populated() *Tree {
	scores, keys := genScores()
	tree := New(NewestFirst)
	for i := range scores {
		if err := tree.Insert(scores[i], keys[i], uint64(i+1)); err != nil {
			panic(err)
		}
	}
	return tree
}

// BenchmarkInsert benchmarks inserting 'numBenchEntries' entries into an
// empty tree.
func BenchmarkInsert(b *testing.B) {
	scores, keys := genScores()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree := New(NewestFirst)
		for j := range scores {
			tree.Insert(scores[j], keys[j], uint64(j+1))
		}
	}
}

// BenchmarkRemoveInsert benchmarks removing an entry and inserting it again
// into a populated tree.
func BenchmarkRemoveInsert(b *testing.B) {
	scores, keys := genScores()
	tree := populated()
	seq := uint64(len(scores))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % len(scores)
		tree.Remove(scores[j], keys[j])
		seq++
		tree.Insert(scores[j], keys[j], seq)
	}
}

// BenchmarkSelect benchmarks selecting entries by index from a populated tree.
func BenchmarkSelect(b *testing.B) {
	tree := populated()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Select(i % numBenchEntries)
	}
}

// BenchmarkIndexOf benchmarks looking up the index of entries in a populated
// tree.
func BenchmarkIndexOf(b *testing.B) {
	scores, keys := genScores()
	tree := populated()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % len(scores)
		tree.IndexOf(scores[j], keys[j])
	}
}
