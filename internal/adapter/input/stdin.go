package input

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// DefaultSeparator matches the dmenu listing separator.
const DefaultSeparator = " | "

// StdinReader reads selected track ids from standard input.
type StdinReader struct {
	reader    io.Reader
	separator string
}

// NewStdinReader creates a new StdinReader reading from os.Stdin.
func NewStdinReader() *StdinReader {
	return NewStdinReaderWithReader(os.Stdin)
}

// NewStdinReaderWithReader creates a new StdinReader with a custom reader.
func NewStdinReaderWithReader(r io.Reader) *StdinReader {
	return &StdinReader{reader: r, separator: DefaultSeparator}
}

// SetSeparator sets the field separator of dmenu lines.
func (s *StdinReader) SetSeparator(sep string) {
	s.separator = sep
}

// ReadIDs reads track ids. Supports three formats:
//  1. one id per line
//  2. dmenu lines, where the id is the first field
//  3. a JSON array of ids or of objects with an "id" field
//
// Ids are returned in input order without duplicates.
func (s *StdinReader) ReadIDs() ([]string, error) {
	scanner := bufio.NewScanner(s.reader)
	const maxSize = 10 * 1024 * 1024 // 10MB max
	scanner.Buffer(make([]byte, 64*1024), maxSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &SelectionError{
			Source:  "stdin",
			Message: "failed to read stdin",
			Err:     err,
		}
	}

	data := strings.TrimSpace(strings.Join(lines, "\n"))
	if data == "" {
		return nil, nil
	}

	if strings.HasPrefix(data, "[") {
		ids, err := parseJSONArray([]byte(data))
		if err != nil {
			return nil, err
		}
		return dedupe(ids), nil
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if id := s.lineID(line); id != "" {
			ids = append(ids, id)
		}
	}
	return dedupe(ids), nil
}

// lineID extracts the id from a plain or dmenu line.
func (s *StdinReader) lineID(line string) string {
	if s.separator != "" {
		if i := strings.Index(line, s.separator); i >= 0 {
			line = line[:i]
		}
	}
	return strings.TrimSpace(line)
}

// stdinEntry is the subset of a JSON listing entry we need.
type stdinEntry struct {
	ID string `json:"id"`
}

// parseJSONArray parses a JSON array of ids or entries.
func parseJSONArray(data []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		return nonEmpty(ids), nil
	}

	var entries []stdinEntry
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&entries); err != nil {
		return nil, &SelectionError{
			Source:  "stdin",
			Message: "failed to parse JSON selection",
			Err:     err,
		}
	}

	ids = make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return nonEmpty(ids), nil
}

func nonEmpty(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
