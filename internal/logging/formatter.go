package logging

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coffersTech/logveil/internal/policy"
	"github.com/coffersTech/logveil/internal/redact"
)

// timeLayout covers everything up to the milliseconds, which Format appends
// after a comma ("2006-01-02 15:04:05,123").
const timeLayout = "2006-01-02 15:04:05"

// Formatter turns a log record into the final redacted output line:
//
//	[LOGVEIL] <name> <LEVEL> <timestamp>: <message>
//
// The payload is redacted before the frame is assembled, so name, level
// and timestamp are never candidates for masking. A Formatter is immutable
// and safe for concurrent use.
type Formatter struct {
	engine    *redact.Engine
	json      *redact.JSONRedactor
	separator string
}

// NewFormatter builds a Formatter from the policy. The field slice is copied
// into the engine; invalid policies fail here, at construction.
func NewFormatter(p policy.Policy) (*Formatter, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	eng, err := redact.New(p.Fields, p.Mask, p.Sep())
	if err != nil {
		return nil, err
	}
	return &Formatter{
		engine:    eng,
		json:      redact.NewJSONRedactor(p.Fields, p.Mask),
		separator: p.Separator,
	}, nil
}

// Format produces one output line, newline-terminated. attrTail carries the
// rendered key=value attribute segments and is redacted independently of the
// message, so a JSON payload still parses as JSON and its sensitive keys are
// masked before the tail is appended.
func (f *Formatter) Format(name string, level slog.Level, t time.Time, msg, attrTail string) []byte {
	msg = f.redactPayload(msg)
	if attrTail != "" {
		attrTail = f.engine.Redact(attrTail)
		if msg != "" && !strings.HasSuffix(msg, f.separator) {
			msg += f.separator
		}
		msg += attrTail
	}
	ts := t.Format(timeLayout) + fmt.Sprintf(",%03d", t.Nanosecond()/1e6)

	var b strings.Builder
	b.Grow(len(msg) + len(name) + 40)
	b.WriteString("[LOGVEIL] ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(ts)
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteByte('\n')
	return []byte(b.String())
}

// redactPayload picks the JSON walk for object payloads and the key=value
// engine for everything else, including payloads that merely look like JSON
// but fail to parse.
func (f *Formatter) redactPayload(msg string) string {
	if strings.HasPrefix(strings.TrimSpace(msg), "{") {
		if out, ok := f.json.Redact(msg); ok {
			return out
		}
	}
	return f.engine.Redact(msg)
}
