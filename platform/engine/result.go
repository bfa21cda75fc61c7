package engine

import "fmt"

// Script results arrive as loosely-typed tables. The helpers below convert
// the fields the resolvers need; a missing or mistyped required field is a
// hard evaluation error, and whatever mutated before the error stays
// applied (no rollback).

func resultString(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("script result: field %q missing or not a string", key)
	}
	return v, nil
}

func resultInt(m map[string]interface{}, key string) (int64, error) {
	switch v := m[key].(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("script result: field %q missing or not an integer", key)
	}
}

func resultBool(m map[string]interface{}, key string) (bool, error) {
	v, ok := m[key].(bool)
	if !ok {
		return false, fmt.Errorf("script result: field %q missing or not a boolean", key)
	}
	return v, nil
}

func resultStrings(m map[string]interface{}, key string) ([]string, error) {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("script result: field %q missing or not an array", key)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func optionalInt(m map[string]interface{}, key string) (int64, bool) {
	v, err := resultInt(m, key)
	if err != nil {
		return 0, false
	}
	return v, true
}

func optionalBool(m map[string]interface{}, key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}
