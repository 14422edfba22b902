// Package neardup reports records whose identity keys differ but look like
// the same work, for manual review. It never merges anything.
package neardup

import (
	"cmp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"

	"ukrlit/internal/records"
)

// DefaultThreshold is the Jaro-Winkler score at or above which two keys are
// reported.
const DefaultThreshold = 0.93

// blockPrefix is the number of folded title characters two records must
// share before they are compared.
const blockPrefix = 3

// Pair is one suspected duplicate.
type Pair struct {
	Left       records.Record
	Right      records.Record
	Similarity float64
}

type entry struct {
	rec records.Record
	key string
}

// Find compares records within blocks of equal folded-title prefix and
// returns pairs scoring at least threshold, best first. Records sharing an
// identity key are exact duplicates and are not reported.
func Find(recs []records.Record, threshold float64) []Pair {
	blocks := map[string][]entry{}
	var order []string
	for _, rec := range recs {
		title := records.Fold(rec.Title)
		if title == "" {
			continue
		}
		block := prefix(title, blockPrefix)
		if _, ok := blocks[block]; !ok {
			order = append(order, block)
		}
		blocks[block] = append(blocks[block], entry{rec: rec, key: rec.Key()})
	}

	var pairs []Pair
	for _, block := range order {
		members := blocks[block]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if a.key == b.key {
					continue
				}
				score := matchr.JaroWinkler(a.key, b.key, false)
				if score >= threshold {
					pairs = append(pairs, Pair{Left: a.rec, Right: b.rec, Similarity: score})
				}
			}
		}
	}
	slices.SortStableFunc(pairs, func(x, y Pair) int {
		return cmp.Compare(y.Similarity, x.Similarity)
	})
	return pairs
}

func prefix(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
