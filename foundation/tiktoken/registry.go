package tiktoken

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ardanlabs/tiktoken/foundation/vocab"
)

const (
	endOfText   = "<|endoftext|>"
	fimPrefix   = "<|fim_prefix|>"
	fimMiddle   = "<|fim_middle|>"
	fimSuffix   = "<|fim_suffix|>"
	endOfPrompt = "<|endofprompt|>"
)

const (
	gpt2Pattern   = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`
	cl100kPattern = `(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`
)

var constructors = map[string]func() (Params, error){
	"gpt2":        gpt2,
	"r50k_base":   r50kBase,
	"p50k_base":   p50kBase,
	"p50k_edit":   p50kEdit,
	"cl100k_base": cl100kBase,
}

// Named encodings are constructed at most once per process and shared. The
// underlying Encoding is immutable, so handing the same instance to every
// caller is safe.
var (
	encMu     sync.Mutex
	encByName = make(map[string]*Encoding)
)

// GetEncoding returns the named encoding, constructing it on first use. The
// first call for a name may fetch vocabulary data over the network (cached
// on disk afterwards, see the vocab package).
func GetEncoding(name string) (*Encoding, error) {
	encMu.Lock()
	defer encMu.Unlock()

	if enc, ok := encByName[name]; ok {
		return enc, nil
	}

	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}

	p, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("loading encoding %q: %w", name, err)
	}

	enc, err := New(p)
	if err != nil {
		return nil, fmt.Errorf("constructing encoding %q: %w", name, err)
	}

	encByName[name] = enc
	return enc, nil
}

// EncodingForModel returns the encoding used by a model, resolving both
// exact model names and known version prefixes such as "gpt-4-0314".
func EncodingForModel(model string) (*Encoding, error) {
	name, err := encodingNameForModel(model)
	if err != nil {
		return nil, err
	}
	return GetEncoding(name)
}

// ListEncodingNames returns the available encoding names in sorted order.
func ListEncodingNames() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func encodingNameForModel(model string) (string, error) {
	if name, ok := modelToEncoding[model]; ok {
		return name, nil
	}

	// Prefix matching avoids a library update for every model version
	// release. It can match non-existent models (e.g. gpt-4-FAKE).
	for prefix, name := range modelPrefixToEncoding {
		if strings.HasPrefix(model, prefix) {
			return name, nil
		}
	}

	return "", fmt.Errorf("no known encoding for model %q: use GetEncoding to pick one explicitly", model)
}

// =============================================================================

func gpt2() (Params, error) {
	ranks, err := vocab.DataGym(
		"https://openaipublic.blob.core.windows.net/gpt-2/encodings/main/vocab.bpe",
		"https://openaipublic.blob.core.windows.net/gpt-2/encodings/main/encoder.json",
	)
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Name:           "gpt2",
		PatStr:         gpt2Pattern,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]int{endOfText: 50256},
		ExplicitNVocab: 50257,
	}

	return p, nil
}

func r50kBase() (Params, error) {
	ranks, err := vocab.Load("https://openaipublic.blob.core.windows.net/encodings/r50k_base.tiktoken")
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Name:           "r50k_base",
		PatStr:         gpt2Pattern,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]int{endOfText: 50256},
		ExplicitNVocab: 50257,
	}

	return p, nil
}

func p50kBase() (Params, error) {
	ranks, err := vocab.Load("https://openaipublic.blob.core.windows.net/encodings/p50k_base.tiktoken")
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Name:           "p50k_base",
		PatStr:         gpt2Pattern,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]int{endOfText: 50256},
		ExplicitNVocab: 50281,
	}

	return p, nil
}

func p50kEdit() (Params, error) {
	ranks, err := vocab.Load("https://openaipublic.blob.core.windows.net/encodings/p50k_base.tiktoken")
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Name:           "p50k_edit",
		PatStr:         gpt2Pattern,
		MergeableRanks: ranks,
		SpecialTokens: map[string]int{
			endOfText: 50256,
			fimPrefix: 50281,
			fimMiddle: 50282,
			fimSuffix: 50283,
		},
	}

	return p, nil
}

func cl100kBase() (Params, error) {
	ranks, err := vocab.Load("https://openaipublic.blob.core.windows.net/encodings/cl100k_base.tiktoken")
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Name:           "cl100k_base",
		PatStr:         cl100kPattern,
		MergeableRanks: ranks,
		SpecialTokens: map[string]int{
			endOfText:   100257,
			fimPrefix:   100258,
			fimMiddle:   100259,
			fimSuffix:   100260,
			endOfPrompt: 100276,
		},
	}

	return p, nil
}
