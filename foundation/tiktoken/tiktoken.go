// Package tiktoken provides support for byte-pair-encoding tokenization
// of text against a fixed, pre-trained vocabulary. Encoding converts text
// into integer token ranks, decoding reverses the mapping exactly.
//
// An Encoding is immutable once constructed (the internal piece cache is
// the only mutable state and is safe for concurrent use), so a single
// instance can be shared by any number of goroutines for its lifetime.
package tiktoken

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Params carries everything needed to construct an Encoding. MergeableRanks
// maps token byte sequences (held in strings) to their ranks, which serve
// both as merge priorities and as the externally visible token ids.
// SpecialTokens maps reserved literals to ranks drawn from a range disjoint
// from the mergeable ranks. ExplicitNVocab, when non-zero, asserts the total
// vocabulary size.
type Params struct {
	Name           string
	PatStr         string
	MergeableRanks map[string]int
	SpecialTokens  map[string]int
	ExplicitNVocab int
}

// Encoding performs reversible text to token conversion for one vocabulary.
type Encoding struct {
	name           string
	encoder        map[string]int
	decoder        map[int]string
	special        map[string]int
	specialDecoder map[int]string
	pattern        *regexp2.Regexp
	specialPattern *regexp2.Regexp
	maxTokenValue  int
	cache          *splitCache
}

// New constructs an Encoding from fully materialized vocabulary data.
// It validates that the mergeable ranks cover every single-byte sequence
// (the merge algorithm's termination guarantee), that ranks are unique,
// and that special token ranks do not collide with mergeable ranks.
func New(p Params) (*Encoding, error) {
	for b := 0; b < 256; b++ {
		if _, ok := p.MergeableRanks[string([]byte{byte(b)})]; !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("mergeable ranks missing single byte 0x%02x", b)}
		}
	}

	encoder := make(map[string]int, len(p.MergeableRanks))
	decoder := make(map[int]string, len(p.MergeableRanks))
	maxTokenValue := 0

	for piece, rank := range p.MergeableRanks {
		if rank < 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("piece %q has negative rank %d", piece, rank)}
		}
		if _, ok := decoder[rank]; ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("rank %d assigned to more than one piece", rank)}
		}
		encoder[piece] = rank
		decoder[rank] = piece
		if rank > maxTokenValue {
			maxTokenValue = rank
		}
	}

	special := make(map[string]int, len(p.SpecialTokens))
	specialDecoder := make(map[int]string, len(p.SpecialTokens))

	for token, rank := range p.SpecialTokens {
		if _, ok := decoder[rank]; ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("special token %q rank %d collides with mergeable ranks", token, rank)}
		}
		if _, ok := specialDecoder[rank]; ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("rank %d assigned to more than one special token", rank)}
		}
		special[token] = rank
		specialDecoder[rank] = token
		if rank > maxTokenValue {
			maxTokenValue = rank
		}
	}

	if p.ExplicitNVocab > 0 {
		if n := len(encoder) + len(special); n != p.ExplicitNVocab {
			return nil, &ConfigError{Reason: fmt.Sprintf("vocabulary has %d tokens, expected %d", n, p.ExplicitNVocab)}
		}
		if maxTokenValue != p.ExplicitNVocab-1 {
			return nil, &ConfigError{Reason: fmt.Sprintf("max token value %d does not match vocabulary size %d", maxTokenValue, p.ExplicitNVocab)}
		}
	}

	pattern, err := regexp2.Compile(p.PatStr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compiling segmentation pattern: %w", err)
	}

	specialPattern, err := compileSpecialPattern(special)
	if err != nil {
		return nil, fmt.Errorf("compiling special token pattern: %w", err)
	}

	enc := Encoding{
		name:           p.Name,
		encoder:        encoder,
		decoder:        decoder,
		special:        special,
		specialDecoder: specialDecoder,
		pattern:        pattern,
		specialPattern: specialPattern,
		maxTokenValue:  maxTokenValue,
		cache:          newSplitCache(defaultCacheSize),
	}

	return &enc, nil
}

// compileSpecialPattern builds one alternation matching every special token
// literal. Longer literals sort first so overlapping occurrences resolve to
// the longest match. Returns nil when the vocabulary has no special tokens.
func compileSpecialPattern(special map[string]int) (*regexp2.Regexp, error) {
	if len(special) == 0 {
		return nil, nil
	}

	literals := make([]string, 0, len(special))
	for token := range special {
		literals = append(literals, token)
	}

	sort.Slice(literals, func(i, j int) bool {
		if len(literals[i]) != len(literals[j]) {
			return len(literals[i]) > len(literals[j])
		}
		return literals[i] < literals[j]
	})

	for i, lit := range literals {
		literals[i] = regexp.QuoteMeta(lit)
	}

	return regexp2.Compile(strings.Join(literals, "|"), regexp2.None)
}

// =============================================================================

// EncodeOrdinary encodes text into tokens with no special token recognition:
// text matching a special token literal is merged as ordinary bytes.
func (e *Encoding) EncodeOrdinary(text string) []int {
	return e.encodeText(text, nil)
}

// Encode encodes text into tokens. Occurrences of special token literals are
// checked against policy: permitted occurrences encode to their reserved rank
// as a single atomic token, forbidden ones fail the call with a
// SpecialTokenError. Use EncodeOrdinary to bypass special token handling
// entirely.
func (e *Encoding) Encode(text string, policy SpecialPolicy) ([]int, error) {
	segments, err := e.split(text, policy)
	if err != nil {
		return nil, err
	}

	var ret []int
	for _, seg := range segments {
		if seg.special {
			ret = append(ret, e.special[seg.text])
			continue
		}
		ret = e.encodeText(seg.text, ret)
	}

	return ret, nil
}

// EncodeSingleToken encodes a piece that corresponds to exactly one token.
// Special token literals are always recognized.
func (e *Encoding) EncodeSingleToken(piece []byte) (int, error) {
	if token, ok := e.encoder[string(piece)]; ok {
		return token, nil
	}
	if token, ok := e.special[string(piece)]; ok {
		return token, nil
	}
	return 0, fmt.Errorf("piece %q is not a single token", piece)
}

// =============================================================================

// DecodeMode controls how Decode treats reconstructed bytes that do not form
// valid UTF-8.
type DecodeMode int

const (
	// DecodeStrict fails the decode when the reconstructed bytes are not
	// valid UTF-8.
	DecodeStrict DecodeMode = iota

	// DecodeLossy replaces invalid byte sequences with the Unicode
	// replacement character and always succeeds.
	DecodeLossy
)

// DecodeBytes decodes tokens into the exact byte sequence they represent.
// Special token ranks decode to their literal text.
func (e *Encoding) DecodeBytes(tokens []int) ([]byte, error) {
	var sb strings.Builder
	for _, token := range tokens {
		piece, ok := e.decoder[token]
		if !ok {
			piece, ok = e.specialDecoder[token]
		}
		if !ok {
			return nil, &DecodeError{Reason: fmt.Sprintf("token %d not found", token)}
		}
		sb.WriteString(piece)
	}
	return []byte(sb.String()), nil
}

// Decode decodes tokens into text. Decoded bytes are not guaranteed to form
// valid UTF-8; mode selects whether that fails the call or is repaired with
// replacement characters.
func (e *Encoding) Decode(tokens []int, mode DecodeMode) (string, error) {
	data, err := e.DecodeBytes(tokens)
	if err != nil {
		return "", err
	}

	switch mode {
	case DecodeStrict:
		if !utf8.Valid(data) {
			return "", &DecodeError{Reason: "decoded bytes are not valid utf-8"}
		}
		return string(data), nil

	case DecodeLossy:
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
	}

	return "", &DecodeError{Reason: fmt.Sprintf("unknown decode mode %d", mode)}
}

// DecodeSingleTokenBytes decodes one token into the bytes it represents.
func (e *Encoding) DecodeSingleTokenBytes(token int) ([]byte, error) {
	if piece, ok := e.decoder[token]; ok {
		return []byte(piece), nil
	}
	if piece, ok := e.specialDecoder[token]; ok {
		return []byte(piece), nil
	}
	return nil, &DecodeError{Reason: fmt.Sprintf("token %d not found", token)}
}

// DecodeTokensBytes decodes each token into its own byte sequence. Useful
// for visualizing how text was segmented.
func (e *Encoding) DecodeTokensBytes(tokens []int) ([][]byte, error) {
	ret := make([][]byte, len(tokens))
	for i, token := range tokens {
		piece, err := e.DecodeSingleTokenBytes(token)
		if err != nil {
			return nil, err
		}
		ret[i] = piece
	}
	return ret, nil
}

// =============================================================================

// Name returns the name of the encoding, e.g. "cl100k_base".
func (e *Encoding) Name() string {
	return e.name
}

// NVocab returns the total vocabulary size including special tokens.
func (e *Encoding) NVocab() int {
	return e.maxTokenValue + 1
}

// EOTToken returns the end-of-text token rank if the vocabulary defines one.
func (e *Encoding) EOTToken() (int, bool) {
	token, ok := e.special[endOfText]
	return token, ok
}

// SpecialTokens returns the special token literals in sorted order.
func (e *Encoding) SpecialTokens() []string {
	ret := make([]string, 0, len(e.special))
	for token := range e.special {
		ret = append(ret, token)
	}
	sort.Strings(ret)
	return ret
}

// TokenByteValues returns the byte sequence of every mergeable token in
// lexicographic order.
func (e *Encoding) TokenByteValues() [][]byte {
	pieces := make([]string, 0, len(e.encoder))
	for piece := range e.encoder {
		pieces = append(pieces, piece)
	}
	sort.Strings(pieces)

	ret := make([][]byte, len(pieces))
	for i, piece := range pieces {
		ret[i] = []byte(piece)
	}
	return ret
}
