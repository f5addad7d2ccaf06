package domain

import "fmt"

// FieldType is the set of JSON shapes CheckField can extract.
type FieldType interface {
	string | []interface{} | map[string]interface{}
}

// CheckField extracts field from doc as T.
//
// A missing field yields T's empty value when emptyAllowed is set. Otherwise a
// missing or empty value fails with "<name> was not provided". A value of the
// wrong JSON type fails with "<name> is invalid type: <type>". Maps are
// returned as deep copies.
func CheckField[T FieldType](doc Document, field, name string, emptyAllowed bool) (T, error) {
	var zero T

	raw, present := doc[field]
	if !present {
		if emptyAllowed {
			return emptyOf[T](), nil
		}
		return zero, BadRequest(name + " was not provided")
	}

	value, ok := normalize(raw).(T)
	if !ok {
		return zero, BadRequest(fmt.Sprintf("%s is invalid type: %s", name, typeName(raw)))
	}

	if !emptyAllowed && len(value) == 0 {
		return zero, BadRequest(name + " was not provided")
	}

	if m, isMap := any(value).(map[string]interface{}); isMap {
		return any(deepCopyMap(m)).(T), nil
	}
	return value, nil
}

// normalize folds the named and typed variants callers may build by hand
// into the shapes encoding/json produces.
func normalize(raw interface{}) interface{} {
	switch t := raw.(type) {
	case Document:
		return map[string]interface{}(t)
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return raw
	}
}

// emptyOf returns a non-nil empty T so callers can range or serialise it directly.
func emptyOf[T FieldType]() T {
	var zero T
	switch any(zero).(type) {
	case []interface{}:
		return any([]interface{}{}).(T)
	case map[string]interface{}:
		return any(map[string]interface{}{}).(T)
	}
	return zero
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, float32, int, int64, int32:
		return "number"
	case []interface{}, []string:
		return "list"
	case map[string]interface{}, Document:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}
