package tiktoken

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	cacheShards      = 16
	defaultCacheSize = 8192
)

// splitCache memoizes merge engine results per distinct piece. It is purely
// an accelerator: every entry can be recomputed identically from the rank
// table, so misses, evictions, and racing duplicate computations are all
// benign. The cache is sharded so concurrent encodes never contend on a
// single lock. Cached slices are shared read-only; callers append their
// contents into output and never mutate them.
type splitCache struct {
	shards [cacheShards]*lru.Cache[string, []int]
}

func newSplitCache(size int) *splitCache {
	per := size / cacheShards
	if per < 1 {
		per = 1
	}

	var c splitCache
	for i := range c.shards {

		// lru.New only fails for a non-positive size.
		c.shards[i], _ = lru.New[string, []int](per)
	}

	return &c
}

func (c *splitCache) get(piece string) ([]int, bool) {
	return c.shard(piece).Get(piece)
}

func (c *splitCache) add(piece string, tokens []int) {
	c.shard(piece).Add(piece, tokens)
}

// shard picks a shard by FNV-1a over the piece bytes.
func (c *splitCache) shard(piece string) *lru.Cache[string, []int] {
	const offset32 = 2166136261
	const prime32 = 16777619

	h := uint32(offset32)
	for i := 0; i < len(piece); i++ {
		h = (h ^ uint32(piece[i])) * prime32
	}

	return c.shards[h%cacheShards]
}
