// Package valueobject holds small value types shared across modules.
package valueobject

import "encoding/json"

// JSONMap is a provider response (SMS gateway body, SMTP receipt) passed
// through to API clients as a JSON object.
// @swaggertype object
type JSONMap map[string]any

// JSONMapFromRaw decodes a provider body. A JSON object is returned as is;
// any other JSON value, or text that is not JSON at all, is kept under "raw".
func JSONMapFromRaw(raw []byte) JSONMap {
	if len(raw) == 0 {
		return JSONMap{}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return JSONMap{"raw": string(raw)}
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return JSONMap{"raw": v}
}

// GetString returns the value at key when it is a string.
func (j JSONMap) GetString(key string) string {
	s, _ := j[key].(string)
	return s
}
