// core/engine/params.go
package engine

import "psyfield-core/abx"

// Params is the loosely typed parameter bag handed to factories. JSON
// decoding yields float64 for every number, so the accessors coerce
// accordingly.
type Params map[string]any

// Float returns params[key] as float64, or def when absent.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, abx.Invalidf(key, "expected number, got %T", p[key])
}

// Int returns params[key] as int, or def when absent. Fractional values
// are rejected rather than truncated.
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		if n != float64(int(n)) {
			return 0, abx.Invalidf(key, "expected integer, got %v", n)
		}
		return int(n), nil
	}
	return 0, abx.Invalidf(key, "expected integer, got %T", v)
}

// String returns params[key] as string, or def when absent.
func (p Params) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", abx.Invalidf(key, "expected string, got %T", v)
	}
	return s, nil
}

// Bool returns params[key] as bool, or def when absent.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, abx.Invalidf(key, "expected bool, got %T", v)
	}
	return b, nil
}
