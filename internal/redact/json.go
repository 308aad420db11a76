package redact

import (
	"github.com/valyala/fastjson"
)

// JSONRedactor masks the values of sensitive keys inside JSON object
// payloads. Keys are matched exactly, at any nesting depth, through objects
// and arrays. Parsers are pooled; a JSONRedactor is safe for concurrent use.
type JSONRedactor struct {
	fields map[string]struct{}
	mask   string
	pool   fastjson.ParserPool
}

// NewJSONRedactor builds a redactor for the given field names. An empty set
// is allowed here; Redact then reserializes payloads untouched. Callers
// validate their policy before reaching this point.
func NewJSONRedactor(fields []string, mask string) *JSONRedactor {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return &JSONRedactor{fields: set, mask: mask}
}

// Redact parses payload as a JSON object and replaces the value of every
// sensitive key with the mask. ok is false when the payload is not a JSON
// object; the caller falls back to plain key=value matching. Untouched
// fields keep their original representation and order.
func (jr *JSONRedactor) Redact(payload string) (string, bool) {
	p := jr.pool.Get()
	defer jr.pool.Put(p)

	v, err := p.Parse(payload)
	if err != nil || v.Type() != fastjson.TypeObject {
		return "", false
	}

	var arena fastjson.Arena
	jr.walk(v, &arena)
	return string(v.MarshalTo(nil)), true
}

func (jr *JSONRedactor) walk(v *fastjson.Value, arena *fastjson.Arena) {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return
		}
		// Keys are collected before mutation; Visit must not observe Set.
		keys := make([]string, 0, obj.Len())
		obj.Visit(func(k []byte, _ *fastjson.Value) {
			keys = append(keys, string(k))
		})
		for _, k := range keys {
			if _, sensitive := jr.fields[k]; sensitive {
				v.Set(k, arena.NewString(jr.mask))
				continue
			}
			if child := v.Get(k); child != nil {
				jr.walk(child, arena)
			}
		}
	case fastjson.TypeArray:
		for _, item := range v.GetArray() {
			jr.walk(item, arena)
		}
	}
}
