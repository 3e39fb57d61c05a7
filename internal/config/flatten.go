// internal/config/flatten.go
package config

import (
	"strings"
)

// secretKeys lists the dot-separated keys whose values should be masked.
var secretKeys = map[string]bool{
	"token":          true,
	"telegram.token": true,
}

// IsSecretKey returns true if the given dot-separated key is a secret.
func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// Flatten converts a nested map into a flat map with dot-separated keys,
// e.g. {"polling": {"enabled": true}} becomes {"polling.enabled": true}.
func Flatten(m map[string]any) map[string]any {
	type level struct {
		prefix string
		m      map[string]any
	}
	flat := make(map[string]any)
	pending := []level{{"", m}}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for k, v := range cur.m {
			key := k
			if cur.prefix != "" {
				key = cur.prefix + "." + k
			}
			if child, ok := v.(map[string]any); ok {
				pending = append(pending, level{key, child})
				continue
			}
			flat[key] = v
		}
	}
	return flat
}

// Unflatten is the inverse of Flatten. A leaf value already sitting where a
// nested map is needed gets replaced by the map.
func Unflatten(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		node := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	return root
}

// MaskSecrets returns a copy of the flat map with secret string values
// reduced to "***" plus their last four characters. Empty secrets pass
// through so `config list` still shows which ones are unset.
func MaskSecrets(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		s, isString := v.(string)
		if IsSecretKey(k) && isString && s != "" {
			out[k] = maskValue(s)
			continue
		}
		out[k] = v
	}
	return out
}

func maskValue(s string) string {
	if len(s) <= 4 {
		return "***" + s
	}
	return "***" + s[len(s)-4:]
}
