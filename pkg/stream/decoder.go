// Package stream reassembles newline-delimited inference responses.
package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Decode concatenates the "response" text of every chunk in raw and returns
// the context carried by the last terminal chunk. Blank and malformed lines
// are skipped.
func Decode(raw string) (string, []uint64) {
	text, ctx, _ := DecodeReader(strings.NewReader(raw))
	return text, ctx
}

// DecodeReader is Decode over a reader. The error reports only read failures;
// text accumulated before the failure is still returned.
func DecodeReader(r io.Reader) (string, []uint64, error) {
	var text strings.Builder
	context := []uint64{}

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if piece, ctx, ok := decodeLine(line); ok {
			text.WriteString(piece)
			if ctx != nil {
				context = ctx
			}
		}
		if errors.Is(err, io.EOF) {
			return text.String(), context, nil
		}
		if err != nil {
			return text.String(), context, err
		}
	}
}

// decodeLine parses one chunk. ctx is non-nil only for a terminal chunk
// that carries a context array.
func decodeLine(line string) (piece string, ctx []uint64, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, false
	}

	// Fields are decoded one by one so a mistyped field does not
	// discard the rest of the chunk.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return "", nil, false
	}
	_ = json.Unmarshal(fields["response"], &piece)

	var done bool
	if err := json.Unmarshal(fields["done"], &done); err == nil && done {
		ctx = parseContext(fields["context"])
	}
	return piece, ctx, true
}

// parseContext keeps the non-negative integer elements of a JSON array.
// It returns nil when raw is not an array.
func parseContext(raw json.RawMessage) []uint64 {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil
	}
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		var n uint64
		if err := json.Unmarshal(item, &n); err == nil {
			out = append(out, n)
		}
	}
	return out
}
