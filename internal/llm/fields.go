package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// Fields holds the raw values extracted from a line-oriented KEY: value
// completion. Models respond to the micro-format prompts with one field per
// line; anything outside the known key set is ignored.
type Fields map[string]string

var numberPattern = regexp.MustCompile(`-?[\d.]+`)

// ParseFields scans text line by line and collects the first value seen for
// each of the given keys. Keys match at the start of a line, followed by a
// colon; the remainder of the line is the raw value.
func ParseFields(text string, keys ...string) Fields {
	fields := make(Fields, len(keys))
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, key := range keys {
			prefix := key + ":"
			if !strings.HasPrefix(trimmed, prefix) {
				continue
			}
			if _, seen := fields[key]; seen {
				continue
			}
			fields[key] = strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
		}
	}
	return fields
}

// String returns the raw value for key, or fallback when the key is absent.
func (f Fields) String(key, fallback string) string {
	v, ok := f[key]
	if !ok {
		return fallback
	}
	return v
}

// Bool reports whether the value for key contains the literal "true"
// (case-insensitive). A missing key returns fallback.
func (f Fields) Bool(key string, fallback bool) bool {
	v, ok := f[key]
	if !ok {
		return fallback
	}
	return strings.Contains(strings.ToLower(v), "true")
}

// Float extracts the first numeric run from the value for key. A missing key
// or unparseable value returns fallback.
func (f Fields) Float(key string, fallback float64) float64 {
	v, ok := f[key]
	if !ok {
		return fallback
	}
	m := numberPattern.FindString(v)
	if m == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return fallback
	}
	return n
}

// IntClamped parses the value for key as an integer and clamps it to
// [min, max]. The second return value is false when the key is missing or
// the value does not parse.
func (f Fields) IntClamped(key string, min, max int) (int, bool) {
	v, ok := f[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		m := numberPattern.FindString(v)
		if m == "" {
			return 0, false
		}
		parsed, ferr := strconv.ParseFloat(m, 64)
		if ferr != nil {
			return 0, false
		}
		n = int(parsed)
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n, true
}

// Section extracts the text between the first occurrence of startKey and the
// following endKey, for multi-line values like REASONING blocks. Returns ""
// when startKey is absent; a missing endKey runs to the end of the text.
func Section(text, startKey, endKey string) string {
	start := strings.Index(text, startKey+":")
	if start < 0 {
		return ""
	}
	rest := text[start+len(startKey)+1:]
	if end := strings.Index(rest, endKey+":"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
