package redact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoFields is returned when an Engine is constructed without any field names.
var ErrNoFields = errors.New("redact: field set is empty")

// Engine masks the values of sensitive fields inside key=value log messages.
// It is immutable after construction and safe for concurrent use.
type Engine struct {
	re   *regexp.Regexp
	repl string
}

// New compiles an Engine for the given field names. Names are matched
// literally; regex metacharacters are escaped because field names are data,
// not patterns. Duplicates are dropped keeping first-seen order. sep is the
// character separating key=value segments; a value runs until the separator
// or the ';' segment terminator.
func New(fields []string, mask string, sep rune) (*Engine, error) {
	named := dedup(fields)
	if len(named) == 0 {
		return nil, ErrNoFields
	}

	quoted := make([]string, len(named))
	for i, f := range named {
		if err := checkField(f, sep); err != nil {
			return nil, err
		}
		quoted[i] = regexp.QuoteMeta(f)
	}

	// (f1|f2|...)=[^<sep>;]*. The literal '=' anchors the match so a field
	// name followed by anything else stays untouched, and '*' keeps empty
	// values maskable.
	pattern := "(" + strings.Join(quoted, "|") + ")=[^" + regexp.QuoteMeta(string(sep)) + ";]*"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("redact: compile field pattern: %w", err)
	}

	return &Engine{
		re: re,
		// '$' in the mask must stay literal, not expand as a template.
		repl: "${1}=" + strings.ReplaceAll(mask, "$", "$$"),
	}, nil
}

// Redact replaces the value of every matched field with the mask in one
// non-overlapping left-to-right pass. A message without matches is returned
// unchanged; Redact never fails.
func (e *Engine) Redact(message string) string {
	return e.re.ReplaceAllString(message, e.repl)
}

// Apply is the one-shot form for callers that do not retain an Engine. An
// unusable field set leaves the message unchanged: redaction must never take
// down a logging call path.
func Apply(fields []string, mask, message string, sep rune) string {
	e, err := New(fields, mask, sep)
	if err != nil {
		return message
	}
	return e.Redact(message)
}

func dedup(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func checkField(f string, sep rune) error {
	if f == "" {
		return errors.New("redact: empty field name")
	}
	if strings.ContainsRune(f, '=') || strings.ContainsRune(f, sep) || strings.ContainsRune(f, ';') {
		return fmt.Errorf("redact: field name %q contains segment syntax", f)
	}
	return nil
}
