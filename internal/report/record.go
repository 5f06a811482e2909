package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one row of a host model, keyed by field name.
type Record map[string]any

// Date layouts accepted for string-typed DateTime values.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Value returns the raw value of the field, or nil.
func (r Record) Value(field string) any {
	if r == nil || field == "" {
		return nil
	}

	return r[field]
}

// Has reports whether the record carries a non-nil value for field.
func (r Record) Has(field string) bool {
	return r.Value(field) != nil
}

// String renders the field as text. Missing and nil values render as "".
func (r Record) String(field string) string {
	return stringify(r.Value(field))
}

// ID renders the field as an identifier string.
func (r Record) ID(field string) string {
	return r.String(field)
}

// Time interprets the field as a point in time.
func (r Record) Time(field string) (time.Time, bool) {
	return toTime(r.Value(field))
}

// Related returns the record embedded under a relation field, or nil.
func (r Record) Related(field string) Record {
	switch v := r.Value(field).(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	default:
		return nil
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case *string:
		if x == nil {
			return ""
		}

		return *x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}

		return *x, !x.IsZero()
	case int64:
		return time.Unix(x, 0).UTC(), true
	case int:
		return time.Unix(int64(x), 0).UTC(), true
	case []byte:
		return parseTime(string(x))
	case string:
		return parseTime(x)
	default:
		return time.Time{}, false
	}
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
