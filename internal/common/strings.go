package common

import "strings"

// UnknownStr is the String() value of unrecognized enum-like values.
const UnknownStr = "unknown"

// NonBlank returns the trimmed values that are not empty, preserving order.
func NonBlank(values ...string) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// JoinNonBlank joins the non-blank values with sep.
func JoinNonBlank(sep string, values ...string) string {
	return strings.Join(NonBlank(values...), sep)
}
