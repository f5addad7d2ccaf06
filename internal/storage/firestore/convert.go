package firestore

import (
	"time"
)

// FieldPath addresses a value inside nested maps, e.g. {"dates", "from"}.
type FieldPath []string

// ParseTimes returns a copy of doc where every string found at one of paths
// is replaced by parse(value). Paths that are absent or not strings are left
// alone.
func ParseTimes(doc map[string]interface{}, paths []FieldPath, parse func(string) (time.Time, error)) (map[string]interface{}, error) {
	out := copyMap(doc)
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		parent := out
		for _, key := range p[:len(p)-1] {
			next, ok := parent[key].(map[string]interface{})
			if !ok {
				parent = nil
				break
			}
			parent = next
		}
		if parent == nil {
			continue
		}

		leaf := p[len(p)-1]
		s, ok := parent[leaf].(string)
		if !ok {
			continue
		}
		t, err := parse(s)
		if err != nil {
			return nil, err
		}
		parent[leaf] = t
	}
	return out, nil
}

// FormatTimes returns a copy of v with every time.Time, at any depth,
// rendered through format.
func FormatTimes(v interface{}, format func(time.Time) string) interface{} {
	switch t := v.(type) {
	case time.Time:
		return format(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = FormatTimes(item, format)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = FormatTimes(item, format)
		}
		return out
	default:
		return v
	}
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case map[string]interface{}:
			out[k] = copyMap(t)
		case []interface{}:
			out[k] = append([]interface{}(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}
