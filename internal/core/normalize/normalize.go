// Package normalize turns raw backend text into parseable JSON.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// UnparseableResponseError carries the parser error and the untouched backend text.
type UnparseableResponseError struct {
	Err error
	Raw string
}

func (e *UnparseableResponseError) Error() string {
	raw := e.Raw
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("unparseable model response: %v\nData: %s", e.Err, raw)
}

func (e *UnparseableResponseError) Unwrap() error {
	return e.Err
}

// Result is a successfully parsed response.
type Result struct {
	JSON     string // the text that parsed
	Value    any
	Repaired bool
}

var (
	openFence  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\r?\n?")
	closeFence = regexp.MustCompile("\r?\n?```[ \t]*$")
)

// StripFences removes a leading ``` marker (optionally tagged, e.g. ```json)
// and a trailing ``` marker. Text without a leading fence is returned trimmed.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = openFence.ReplaceAllString(s, "")
	s = closeFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Normalize strips fences and parses strictly; on failure it applies a single
// Repair pass and parses again.
func Normalize(raw string) (*Result, error) {
	candidate := StripFences(raw)

	var value any
	err := json.Unmarshal([]byte(candidate), &value)
	if err == nil {
		return &Result{JSON: candidate, Value: value}, nil
	}

	repaired := Repair(candidate)
	if rerr := json.Unmarshal([]byte(repaired), &value); rerr != nil {
		return nil, &UnparseableResponseError{Err: fmt.Errorf("strict parse: %v; after repair: %w", err, rerr), Raw: raw}
	}
	return &Result{JSON: repaired, Value: value, Repaired: true}, nil
}

// Repair makes a best-effort structural fix of almost-JSON: it drops prose
// around the outermost value, rewrites Python-style literals, removes
// trailing commas and closes a truncated document. Valid JSON comes back
// with the same parse result.
func Repair(s string) string {
	s = outermost(s)
	closed, cut := rewrite(s)
	if json.Valid([]byte(closed)) || cut == "" {
		return closed
	}
	// Dropping the incomplete trailing element often succeeds where
	// closing it in place does not.
	return cut
}

// outermost slices s from the first '{' or '[' to where that value closes.
// A value that never closes keeps the whole tail for truncation repair.
func outermost(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

var pyLiterals = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

// rewrite scans s once, outside string literals, and returns the document
// with every open structure closed, plus an alternative truncated at the
// last complete element (empty if there was none).
func rewrite(s string) (closed, cut string) {
	var (
		out      strings.Builder
		stack    []byte
		inString bool
		escaped  bool
		cutLen   = -1
		cutStack []byte
	)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			out.WriteByte(ch)
		case ch == '{' || ch == '[':
			stack = append(stack, ch)
			out.WriteByte(ch)
		case ch == '}' || ch == ']':
			if n := len(stack); n > 0 && matches(stack[n-1], ch) {
				stack = stack[:n-1]
			}
			out.WriteByte(ch)
		case ch == ',':
			if next := nextSignificant(s, i+1); next == '}' || next == ']' || next == 0 {
				continue
			}
			if len(stack) > 0 {
				cutLen = out.Len()
				cutStack = append(cutStack[:0], stack...)
			}
			out.WriteByte(ch)
		case isLetter(ch):
			j := i
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			word := s[i:j]
			if lit, ok := pyLiterals[word]; ok {
				word = lit
			}
			out.WriteString(word)
			i = j - 1
		default:
			out.WriteByte(ch)
		}
	}

	body := out.String()
	if inString {
		body += `"`
	}
	body = strings.TrimRight(body, " \t\r\n")
	body = strings.TrimSuffix(body, ",")
	if strings.HasSuffix(body, ":") {
		body += "null"
	}
	closed = body + closers(stack)

	if cutLen > 0 {
		cut = out.String()[:cutLen] + closers(cutStack)
	}
	return closed, cut
}

func matches(open, close byte) bool {
	return (open == '{' && close == '}') || (open == '[' && close == ']')
}

func closers(stack []byte) string {
	var sb strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			sb.WriteByte('}')
		} else {
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// nextSignificant returns the next non-whitespace byte at or after i, or 0 at end.
func nextSignificant(s string, i int) byte {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return s[i]
		}
	}
	return 0
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
