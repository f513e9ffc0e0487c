package backfill

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Conversation is one exported honeypot conversation, one JSON object per
// line in the dump file.
type Conversation struct {
	Channel  string `json:"channel"`
	Messages []struct {
		Sender    string `json:"sender"`
		Text      string `json:"text"`
		Timestamp string `json:"timestamp"`
	} `json:"messages"`
}

// ParseDump reads a JSONL conversation export. Blank lines are skipped;
// a malformed line aborts the parse with its line number, since a partial
// backfill silently skewing the store is worse than a failed one.
func ParseDump(r io.Reader) ([]Conversation, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var convs []Conversation
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var c Conversation
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", line, err)
		}
		convs = append(convs, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	return convs, nil
}
