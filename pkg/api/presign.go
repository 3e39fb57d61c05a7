package api

import (
	"net/url"
	"regexp"
	"strings"
)

// resolvePattern matches the relative resolve-URLs the backend embeds in task
// data for private cloud storage objects.
var resolvePattern = regexp.MustCompile(`^/(?:tasks|projects)/\d+/resolve/`)

// PresignURL rewrites a relative resolve-URL into an absolute URL proxied
// through the project presign endpoint. Absolute http(s) URLs pass through
// unchanged, as does anything that does not match the resolve pattern.
func (p *Proxy) PresignURL(project string, raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if !resolvePattern.MatchString(raw) {
		return raw
	}
	q := url.Values{}
	q.Set("fileuri", p.gateway+raw)
	return p.gateway + "/api/projects/" + url.PathEscape(project) + "/presign/?" + q.Encode()
}
