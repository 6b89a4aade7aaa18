// This program encodes and decodes text using OpenAI's published
// byte-pair-encoding vocabularies. The first use of an encoding downloads
// its vocabulary file and caches it on disk.
//
// # Usage:
//
//	$ tokenize -encoding cl100k_base "hello world"
//	$ tokenize -model gpt-4 -count < document.txt
//	$ tokenize -encoding gpt2 -decode "31373,995"
//
// Special tokens in the input are encoded as ordinary text: this tool is
// meant for untrusted input, so control tokens are never emitted.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ardanlabs/tiktoken/foundation/tiktoken"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tokenize:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		encName = flag.String("encoding", "cl100k_base", "encoding name, e.g. gpt2, r50k_base, p50k_base, p50k_edit, cl100k_base")
		model   = flag.String("model", "", "resolve the encoding from a model name instead")
		decode  = flag.String("decode", "", "comma separated token ids to decode instead of encoding")
		count   = flag.Bool("count", false, "print only the token count")
		list    = flag.Bool("list", false, "list available encodings and exit")
	)
	flag.Parse()

	if *list {
		for _, name := range tiktoken.ListEncodingNames() {
			fmt.Println(name)
		}
		return nil
	}

	enc, err := resolveEncoding(*encName, *model)
	if err != nil {
		return err
	}

	if *decode != "" {
		return decodeTokens(enc, *decode)
	}

	text, err := inputText()
	if err != nil {
		return err
	}

	tokens := enc.EncodeOrdinary(text)

	if *count {
		fmt.Println(len(tokens))
		return nil
	}

	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = strconv.Itoa(token)
	}
	fmt.Println(strings.Join(out, " "))

	return nil
}

func resolveEncoding(encName, model string) (*tiktoken.Encoding, error) {
	if model != "" {
		return tiktoken.EncodingForModel(model)
	}
	return tiktoken.GetEncoding(encName)
}

func inputText() (string, error) {
	if args := flag.Args(); len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return string(data), nil
}

func decodeTokens(enc *tiktoken.Encoding, arg string) error {
	var tokens []int
	for _, field := range strings.Split(arg, ",") {
		token, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("parsing token %q: %w", field, err)
		}
		tokens = append(tokens, token)
	}

	text, err := enc.Decode(tokens, tiktoken.DecodeLossy)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	fmt.Println(text)
	return nil
}
