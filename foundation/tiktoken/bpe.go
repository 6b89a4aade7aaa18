package tiktoken

import (
	"math"
	"slices"
)

// bytePairEncode decomposes one contiguous byte piece into its token ranks
// by greedy minimal-rank merging. It is a pure function of the piece and the
// rank table: identical inputs always produce identical output. Because the
// table covers every single byte, it never fails; the worst case output is
// one rank per byte.
func bytePairEncode(piece []byte, ranks map[string]int) []int {
	if len(piece) == 1 {
		return []int{ranks[string(piece)]}
	}

	return bytePairMerge(piece, ranks, func(start, end int) int {
		return ranks[string(piece[start:end])]
	})
}

// bytePairMerge tracks the piece as boundaries into the byte slice. Each
// entry in parts holds the start offset of a span and the rank the span
// would merge into with its right neighbor, or math.MaxInt when the merged
// bytes are not in the table. Every round merges the leftmost pair with
// the globally minimum rank and recomputes only the two ranks adjacent to
// the merge point.
func bytePairMerge[T any](piece []byte, ranks map[string]int, f func(start, end int) T) []T {
	parts := make([][2]int, len(piece)+1)
	for i := range parts {
		parts[i][0], parts[i][1] = i, math.MaxInt
	}

	getRank := func(startIdx, skip int) int {
		if startIdx+skip+2 < len(parts) {
			b := piece[parts[startIdx][0]:parts[startIdx+skip+2][0]]
			if rank, ok := ranks[string(b)]; ok {
				return rank
			}
		}
		return -1
	}

	for i := 0; i < len(parts)-2; i++ {
		if rank := getRank(i, 0); rank >= 0 {
			parts[i][1] = rank
		}
	}

	for len(parts) > 1 {

		// A strict less-than scan from the left makes the leftmost pair
		// win rank ties, keeping the output deterministic.
		minRank, minIdx := math.MaxInt, -1
		for i := 0; i < len(parts)-1; i++ {
			if parts[i][1] < minRank {
				minRank, minIdx = parts[i][1], i
			}
		}

		if minRank == math.MaxInt {
			break
		}

		i := minIdx
		if rank := getRank(i, 1); rank >= 0 {
			parts[i][1] = rank
		} else {
			parts[i][1] = math.MaxInt
		}

		if i > 0 {
			if rank := getRank(i-1, 1); rank >= 0 {
				parts[i-1][1] = rank
			} else {
				parts[i-1][1] = math.MaxInt
			}
		}

		parts = slices.Delete(parts, i+1, i+2)
	}

	out := make([]T, len(parts)-1)
	for i := range out {
		out[i] = f(parts[i][0], parts[i+1][0])
	}

	return out
}
