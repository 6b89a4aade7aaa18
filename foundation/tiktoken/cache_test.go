package tiktoken

import (
	"fmt"
	"slices"
	"sync"
	"testing"
)

func TestSplitCache(t *testing.T) {
	c := newSplitCache(64)

	if _, ok := c.get("hello"); ok {
		t.Fatal("got a value from an empty cache")
	}

	c.add("hello", []int{259})

	tokens, ok := c.get("hello")
	if !ok || !slices.Equal(tokens, []int{259}) {
		t.Fatalf("get = %v, %v", tokens, ok)
	}

	// Overwriting with the same value is the idempotent case racing
	// goroutines produce.
	c.add("hello", []int{259})
	tokens, ok = c.get("hello")
	if !ok || !slices.Equal(tokens, []int{259}) {
		t.Fatalf("get after re-add = %v, %v", tokens, ok)
	}
}

// Evictions must never change results: the cache is an accelerator, and a
// miss recomputes the identical value. A cache small enough to thrash on
// every piece must still encode exactly like a cold encoding.
func TestSplitCacheEvictionBenign(t *testing.T) {
	enc := newTestEncoding(t)
	enc.cache = newSplitCache(1)

	want := newTestEncoding(t)

	texts := batchTexts()
	for _, text := range texts {
		if got := enc.EncodeOrdinary(text); !slices.Equal(got, want.EncodeOrdinary(text)) {
			t.Fatalf("thrashing cache changed tokens for %q", text)
		}
	}
}

func TestSplitCacheWarmMatchesCold(t *testing.T) {
	enc := newTestEncoding(t)

	cold := enc.EncodeOrdinary("hello world hello world")
	warm := enc.EncodeOrdinary("hello world hello world")
	if !slices.Equal(cold, warm) {
		t.Fatalf("warm encode %v != cold encode %v", warm, cold)
	}
}

func TestSplitCacheConcurrent(t *testing.T) {
	enc := newTestEncoding(t)
	want := enc.EncodeOrdinary("hello world")

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for g := 0; g < 64; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if got := enc.EncodeOrdinary("hello world"); !slices.Equal(got, want) {
					errs <- fmt.Errorf("goroutine %d iter %d: got %v, want %v", g, i, got, want)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		t.Fatal(err)
	}
}
