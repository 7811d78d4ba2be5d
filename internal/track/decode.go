package track

import (
	"fmt"
	"time"
)

// Kind identifies one of the entity collections the store manages.
type Kind string

const (
	KindWorkspace Kind = "workspace"
	KindProject   Kind = "project"
	KindClient    Kind = "client"
	KindTag       Kind = "tag"
	KindTimeEntry Kind = "time_entry"
	KindProfile   Kind = "profile"
)

// timestampLayouts are tried in order when a payload timestamp does not carry
// an offset. Offset-less values are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// object reads typed fields out of a decoded JSON object, collecting every
// missing-required and wrong-type finding so one malformed entity reports all
// of its problems at once. Unknown keys are ignored: each kind's decode
// function names exactly the fields it takes, everything else in the payload
// is left for the recursive ingestion walk.
type object struct {
	raw      map[string]any
	problems []string
}

func newObject(raw map[string]any) *object {
	return &object{raw: raw}
}

func (o *object) err(kind Kind) error {
	if len(o.problems) == 0 {
		return nil
	}
	return &MalformedEntityError{Kind: kind, Problems: o.problems}
}

func (o *object) problem(key, format string, args ...any) {
	o.problems = append(o.problems, key+": "+fmt.Sprintf(format, args...))
}

// int64Field requires a numeric field. JSON numbers decode as float64;
// ids fit losslessly.
func (o *object) int64Field(key string) int64 {
	v, ok := o.raw[key]
	if !ok || v == nil {
		o.problem(key, "missing required field")
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		o.problem(key, "expected number, got %T", v)
		return 0
	}
	return int64(f)
}

func (o *object) optInt64Field(key string) *int64 {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		o.problem(key, "expected number, got %T", v)
		return nil
	}
	n := int64(f)
	return &n
}

func (o *object) stringField(key string) string {
	v, ok := o.raw[key]
	if !ok || v == nil {
		o.problem(key, "missing required field")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		o.problem(key, "expected string, got %T", v)
		return ""
	}
	return s
}

func (o *object) optStringField(key string) string {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		o.problem(key, "expected string, got %T", v)
		return ""
	}
	return s
}

func (o *object) boolField(key string) bool {
	v, ok := o.raw[key]
	if !ok || v == nil {
		o.problem(key, "missing required field")
		return false
	}
	b, ok := v.(bool)
	if !ok {
		o.problem(key, "expected bool, got %T", v)
		return false
	}
	return b
}

func (o *object) optBoolField(key string) *bool {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		o.problem(key, "expected bool, got %T", v)
		return nil
	}
	return &b
}

func (o *object) timeField(key string) time.Time {
	s := o.stringField(key)
	if s == "" {
		return time.Time{}
	}
	ts, err := parseTimestamp(s)
	if err != nil {
		o.problem(key, "%v", err)
		return time.Time{}
	}
	return ts
}

func (o *object) optTimeField(key string) *time.Time {
	s := o.optStringField(key)
	if s == "" {
		return nil
	}
	ts, err := parseTimestamp(s)
	if err != nil {
		o.problem(key, "%v", err)
		return nil
	}
	return &ts
}

func (o *object) optInt64SliceField(key string) []int64 {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		o.problem(key, "expected array, got %T", v)
		return nil
	}
	out := make([]int64, 0, len(arr))
	for _, el := range arr {
		f, ok := el.(float64)
		if !ok {
			o.problem(key, "expected numeric elements, got %T", el)
			return nil
		}
		out = append(out, int64(f))
	}
	return out
}

func (o *object) optStringSliceField(key string) []string {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		o.problem(key, "expected array, got %T", v)
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		s, ok := el.(string)
		if !ok {
			o.problem(key, "expected string elements, got %T", el)
			return nil
		}
		out = append(out, s)
	}
	return out
}
