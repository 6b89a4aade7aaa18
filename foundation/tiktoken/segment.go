package tiktoken

// SpecialPolicy declares which special token literals an Encode call will
// honor. Reserved literals are control tokens: encoding one from untrusted
// text can smuggle instructions into a token stream, so anything not
// explicitly permitted fails the encode instead of being silently tokenized.
type SpecialPolicy struct {
	all     bool
	allowed map[string]struct{}
}

// AllowAll permits every special token known to the vocabulary.
var AllowAll = SpecialPolicy{all: true}

// AllowNone forbids all special tokens: any occurrence of a known literal
// in the input fails the encode.
var AllowNone = SpecialPolicy{}

// AllowSet permits only the given special token literals. Occurrences of any
// other known literal fail the encode.
func AllowSet(tokens ...string) SpecialPolicy {
	allowed := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		allowed[token] = struct{}{}
	}
	return SpecialPolicy{allowed: allowed}
}

func (p SpecialPolicy) permits(token string) bool {
	if p.all {
		return true
	}
	_, ok := p.allowed[token]
	return ok
}

// =============================================================================

// segment is one run of input text: either an ordinary span destined for the
// merge engine or a permitted special token literal.
type segment struct {
	text    string
	special bool
}

// split partitions text into ordinary spans and special token literals,
// preserving order and coverage. Every occurrence of a known literal is
// checked against policy before any encoding happens; a forbidden one
// fails the whole call.
func (e *Encoding) split(text string, policy SpecialPolicy) ([]segment, error) {
	if e.specialPattern == nil {
		return []segment{{text: text}}, nil
	}

	runes := []rune(text)
	var segments []segment
	last := 0

	m, err := e.specialPattern.FindRunesMatch(runes)
	for err == nil && m != nil {
		token := m.String()
		if !policy.permits(token) {
			return nil, &SpecialTokenError{Token: token}
		}

		if m.Index > last {
			segments = append(segments, segment{text: string(runes[last:m.Index])})
		}
		segments = append(segments, segment{text: token, special: true})
		last = m.Index + m.Length

		m, err = e.specialPattern.FindNextMatch(m)
	}

	if last < len(runes) {
		segments = append(segments, segment{text: string(runes[last:])})
	}

	return segments, nil
}

// encodeText appends the tokens for one ordinary span to ret. The span is
// chunked by the segmentation pattern; each resulting piece is resolved
// independently, so the merge engine never sees across a piece boundary.
func (e *Encoding) encodeText(text string, ret []int) []int {
	m, err := e.pattern.FindStringMatch(text)
	for err == nil && m != nil {
		piece := m.String()
		ret = e.encodePiece(piece, ret)
		m, err = e.pattern.FindNextMatch(m)
	}

	return ret
}

// encodePiece resolves one piece: a whole-piece table hit is appended
// directly, otherwise the piece cache is consulted and only a miss runs
// the merge engine. Cache writes are idempotent, so two goroutines racing
// on the same piece store the same value.
func (e *Encoding) encodePiece(piece string, ret []int) []int {
	if len(piece) == 0 {
		return ret
	}

	if token, ok := e.encoder[piece]; ok {
		return append(ret, token)
	}

	if tokens, ok := e.cache.get(piece); ok {
		return append(ret, tokens...)
	}

	tokens := bytePairEncode([]byte(piece), e.encoder)
	e.cache.add(piece, tokens)

	return append(ret, tokens...)
}
