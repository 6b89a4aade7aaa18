// Package vocab provides support for loading pre-trained byte-pair-encoding
// vocabulary files. Files are fetched over HTTP on first use and cached on
// disk so later loads never touch the network.
package vocab

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
)

// Load fetches a rank file in the tiktoken format (one "base64-piece rank"
// pair per line) and returns the piece to rank mapping.
func Load(url string) (map[string]int, error) {
	data, err := readCached(url)
	if err != nil {
		return nil, fmt.Errorf("reading rank file: %w", err)
	}

	ranks, err := parseRankFile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rank file %s: %w", url, err)
	}

	return ranks, nil
}

func parseRankFile(data []byte) (map[string]int, error) {
	ranks := make(map[string]int)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := bytes.Fields(sc.Bytes())

		switch len(fields) {
		case 0:
			continue
		case 2:
		default:
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", line, len(fields))
		}

		piece, err := base64.StdEncoding.DecodeString(string(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: decoding piece: %w", line, err)
		}

		rank, err := strconv.Atoi(string(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing rank: %w", line, err)
		}

		ranks[string(piece)] = rank
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}

	return ranks, nil
}
