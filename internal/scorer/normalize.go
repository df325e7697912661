package scorer

import (
	"fmt"
	"strconv"
	"strings"
)

// text renders an answer the way the survey front end stores it: falsy values
// (nil, false, zero, "") become "", slices are comma-joined.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 || t != t {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	case int64:
		if t == 0 {
			return ""
		}
		return strconv.FormatInt(t, 10)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = element(e)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

// element renders one entry of a multi-select answer. Inside a list only
// nil is blank; zero and false keep their literal form.
func element(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return text(t)
	}
}

// lower returns the lower-cased text of an answer, "" when absent.
func lower(v any) string {
	return strings.ToLower(text(v))
}

// choice returns a single-choice answer verbatim. Only string answers can
// match an option table; anything else is treated as unanswered.
func choice(v any) string {
	s, _ := v.(string)
	return s
}

// multiSelect normalises a multi-choice answer: absent → empty, a single
// value → one element, slices kept. Non-string elements can never match an
// option and are dropped.
func multiSelect(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// containsAny reports whether the lower-cased text contains any keyword.
func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// textLength counts UTF-16 code units, which is how the length thresholds
// were calibrated.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
