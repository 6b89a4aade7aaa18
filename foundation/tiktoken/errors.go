package tiktoken

import "fmt"

// ConfigError reports invalid vocabulary data at construction time. It is
// fatal: an Encoding is never produced alongside one.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid encoding config: " + e.Reason
}

// SpecialTokenError reports that input text contains a special token literal
// the caller's policy forbids. The caller can retry with a permissive policy,
// sanitize the text, or use EncodeOrdinary to treat the literal as plain
// bytes.
type SpecialTokenError struct {
	Token string
}

func (e *SpecialTokenError) Error() string {
	return fmt.Sprintf("text contains disallowed special token %q: permit it with AllowSet or AllowAll, or encode with EncodeOrdinary to treat it as ordinary text", e.Token)
}

// DecodeError reports a token that is not in the vocabulary, or reconstructed
// bytes that are not valid UTF-8 under DecodeStrict.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Reason
}
