package action

import (
	"fmt"
	"strconv"
	"strings"
)

// Params is the loosely-shaped parameter bag supplied by callers.
// The oracle produces it from free-form JSON, so the accessors below
// normalize rather than reject: numeric strings are coerced, booleans
// and numbers are stringified on demand, and absent keys yield zero
// values with an ok flag where the distinction matters.
type Params map[string]any

// String returns the named parameter coerced to a string.
// Numbers and booleans are formatted; absent values yield "".
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// StringFirst returns the first non-empty string among the given alias
// keys, e.g. StringFirst("route_id", "route").
func (p Params) StringFirst(keys ...string) string {
	for _, key := range keys {
		if s := p.String(key); s != "" {
			return s
		}
	}
	return ""
}

// Float64 returns the named parameter as a float64, coercing numeric
// strings. The second return is false when the value is absent or not
// coercible.
func (p Params) Float64(key string) (float64, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the named parameter as an int, coercing floats and
// numeric strings.
func (p Params) Int(key string) (int, bool) {
	f, ok := p.Float64(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns the named parameter as a bool, falling back to def when
// absent or not a bool.
func (p Params) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Map returns the named parameter as a nested map. A bare string value
// is wrapped as {"description": value} so callers that pass a plain
// description instead of a structured object still work.
func (p Params) Map(key string) map[string]any {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	switch m := v.(type) {
	case map[string]any:
		return m
	case string:
		if m == "" {
			return nil
		}
		return map[string]any{"description": m}
	default:
		return nil
	}
}

// List returns the named parameter as a slice, or nil when absent or
// not list-shaped.
func (p Params) List(key string) []any {
	v, ok := p[key]
	if !ok {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil
	}
	return l
}

// LatLng resolves a coordinate pair from the common shapes callers
// supply: separate "lat" and "lng" (or "lon") keys, a combined
// "location" string "lat,lng", or a "location" map with lat/lng keys.
func (p Params) LatLng() (lat, lng float64, ok bool) {
	lat, latOK := p.Float64("lat")
	lng, lngOK := p.Float64("lng")
	if !lngOK {
		lng, lngOK = p.Float64("lon")
	}
	if latOK && lngOK {
		return lat, lng, true
	}

	switch loc := p["location"].(type) {
	case string:
		parts := strings.SplitN(loc, ",", 2)
		if len(parts) != 2 {
			return 0, 0, false
		}
		la, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		ln, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return la, ln, true
	case map[string]any:
		sub := Params(loc)
		la, laOK := sub.Float64("lat")
		ln, lnOK := sub.Float64("lng")
		if !lnOK {
			ln, lnOK = sub.Float64("lon")
		}
		if laOK && lnOK {
			return la, ln, true
		}
	}

	return 0, 0, false
}
