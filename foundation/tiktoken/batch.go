package tiktoken

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EncodeBatch encodes independent texts across a bounded worker pool. The
// result preserves input order regardless of worker completion order. If any
// item fails its policy check the whole call fails; there is no partial
// success.
func (e *Encoding) EncodeBatch(texts []string, policy SpecialPolicy) ([][]int, error) {
	results := make([][]int, len(texts))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			tokens, err := e.Encode(text, policy)
			if err != nil {
				return fmt.Errorf("encoding item %d: %w", i, err)
			}
			results[i] = tokens
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// EncodeOrdinaryBatch encodes independent texts in parallel with no special
// token recognition, preserving input order.
func (e *Encoding) EncodeOrdinaryBatch(texts []string) [][]int {
	results := make([][]int, len(texts))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			results[i] = e.EncodeOrdinary(text)
			return nil
		})
	}

	// The workers never return an error.
	g.Wait()

	return results
}

// DecodeBatch decodes independent token lists in parallel, preserving input
// order. Any unknown token or strict-mode validity failure fails the whole
// call.
func (e *Encoding) DecodeBatch(tokenLists [][]int, mode DecodeMode) ([]string, error) {
	results := make([]string, len(tokenLists))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, tokens := range tokenLists {
		i, tokens := i, tokens
		g.Go(func() error {
			text, err := e.Decode(tokens, mode)
			if err != nil {
				return fmt.Errorf("decoding item %d: %w", i, err)
			}
			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
