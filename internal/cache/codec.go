package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"wt-summariser/internal/study"
)

const upperhex = "0123456789ABCDEF"

// unreserved reports whether c is left as is by escape, the set matches the
// one browsers leave alone when encoding a uri component.
func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

// Encode serializes a record to json and percent encodes it.
func Encode(record study.Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(record)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return escape(strings.TrimSuffix(buf.String(), "\n")), nil
}

// Decode reverses Encode.
func Decode(value string) (study.Record, error) {
	var record study.Record
	raw, err := url.PathUnescape(value)
	if err != nil {
		return record, fmt.Errorf("unescape record: %w", err)
	}
	err = json.Unmarshal([]byte(raw), &record)
	if err != nil {
		return record, fmt.Errorf("unmarshal record: %w", err)
	}
	return record, nil
}
