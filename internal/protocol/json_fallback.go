package protocol

import (
	"encoding/json"
	"errors"
	"strings"
)

// unmarshalEmbedded implements the fallback grammar: a fenced code block
// tagged json, or else the first balanced {...}/[...] span in the raw text.
func unmarshalEmbedded(raw string, v any) error {
	if block, ok := fencedJSONBlock(raw); ok {
		if err := json.Unmarshal([]byte(block), v); err == nil {
			return nil
		}
	}

	span, ok := firstBalancedSpan(raw)
	if !ok {
		return errors.New("no JSON payload found")
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return err
	}
	return nil
}

// fencedJSONBlock extracts the body of the first ```json fenced block.
func fencedJSONBlock(raw string) (string, bool) {
	const fence = "```json"
	start := strings.Index(raw, fence)
	if start < 0 {
		return "", false
	}
	body := raw[start+len(fence):]
	end := strings.Index(body, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

// firstBalancedSpan returns the first balanced JSON object or array span.
// It is a byte-level scanner that honors string and escape state so braces
// inside string values do not unbalance the span. Iterating bytes is safe
// for the ASCII delimiters involved: UTF-8 never embeds ASCII bytes inside
// a multi-byte sequence.
func firstBalancedSpan(s string) (string, bool) {
	var (
		start    = -1
		stack    []byte
		inString bool
		escape   bool
	)

	for i := 0; i < len(s); i++ {
		b := s[i]

		if start < 0 {
			if b == '{' || b == '[' {
				start = i
				stack = append(stack, closerFor(b))
			}
			continue
		}

		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, closerFor(b))
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != b {
				// Mismatched closer: whatever this is, it is not JSON.
				return "", false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

func closerFor(opener byte) byte {
	if opener == '{' {
		return '}'
	}
	return ']'
}
