package vocab

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// DataGym converts the older GPT-2 "data gym" vocabulary format (a merges
// file plus an encoder.json) into a piece to rank mapping. The encoder file
// is used as a sanity check: ranks double as merge priority, so the two
// files must agree exactly.
func DataGym(vocabBPEURL, encoderJSONURL string) (map[string]int, error) {
	byteOrder, byteDecoder := dataGymByteMapping()

	// The 256 single-byte pieces take ranks 0..255 in data gym byte order.
	ranks := make(map[string]int, 50257)
	for i, b := range byteOrder {
		ranks[string([]byte{b})] = i
	}

	merges, err := readCached(vocabBPEURL)
	if err != nil {
		return nil, fmt.Errorf("reading merges file: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(merges))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	first := true
	n := len(ranks)
	for sc.Scan() {
		if first {

			// The merges file opens with a version comment line.
			first = false
			continue
		}

		fields := bytes.Fields(sc.Bytes())
		if len(fields) != 2 {
			continue
		}

		left, err := decodeDataGym(string(fields[0]), byteDecoder)
		if err != nil {
			return nil, fmt.Errorf("decoding merge %q: %w", sc.Text(), err)
		}
		right, err := decodeDataGym(string(fields[1]), byteDecoder)
		if err != nil {
			return nil, fmt.Errorf("decoding merge %q: %w", sc.Text(), err)
		}

		ranks[string(left)+string(right)] = n
		n++
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning merges file: %w", err)
	}

	if err := checkEncoderJSON(encoderJSONURL, byteDecoder, ranks); err != nil {
		return nil, err
	}

	return ranks, nil
}

// checkEncoderJSON verifies the encoder file assigns every piece the same
// rank the merges file produced.
func checkEncoderJSON(url string, byteDecoder map[rune]byte, ranks map[string]int) error {
	data, err := readCached(url)
	if err != nil {
		return fmt.Errorf("reading encoder file: %w", err)
	}

	var encoder map[string]int
	if err := json.Unmarshal(data, &encoder); err != nil {
		return fmt.Errorf("parsing encoder file: %w", err)
	}

	// The encoder file carries the end-of-text special token; the merges
	// file does not.
	delete(encoder, "<|endoftext|>")

	if len(encoder) != len(ranks) {
		return fmt.Errorf("encoder file has %d pieces, merges produced %d", len(encoder), len(ranks))
	}

	for enc, rank := range encoder {
		piece, err := decodeDataGym(enc, byteDecoder)
		if err != nil {
			return fmt.Errorf("decoding encoder piece %q: %w", enc, err)
		}
		if got, ok := ranks[string(piece)]; !ok || got != rank {
			return fmt.Errorf("encoder file disagrees with merges file on piece %q", enc)
		}
	}

	return nil
}

// dataGymByteMapping reproduces GPT-2's printable-character byte encoding:
// non-whitespace printable ISO 8859-1 bytes map to themselves, everything
// else maps to consecutive code points starting at U+0100.
func dataGymByteMapping() ([]byte, map[rune]byte) {
	var order []byte
	for b := 0x21; b <= 0x7e; b++ {
		order = append(order, byte(b))
	}
	for b := 0xa1; b < 0xad; b++ {
		order = append(order, byte(b))
	}
	for b := 0xae; b <= 0xff; b++ {
		order = append(order, byte(b))
	}

	decoder := make(map[rune]byte, 256)
	printable := make(map[byte]bool, len(order))
	for _, b := range order {
		decoder[rune(b)] = b
		printable[b] = true
	}

	n := 0
	for b := 0; b <= 0xff; b++ {
		if !printable[byte(b)] {
			order = append(order, byte(b))
			decoder[rune(256+n)] = byte(b)
			n++
		}
	}

	return order, decoder
}

func decodeDataGym(value string, byteDecoder map[rune]byte) ([]byte, error) {
	out := make([]byte, 0, len(value))
	for _, r := range value {
		b, ok := byteDecoder[r]
		if !ok {
			return nil, fmt.Errorf("no byte for code point %U", r)
		}
		out = append(out, b)
	}
	return out, nil
}
