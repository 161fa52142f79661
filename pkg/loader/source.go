package loader

import (
	"regexp"
	"strings"
)

// schemePattern accepts any number of slashes after the scheme, so that
// loosely written sources such as "https:/example.com/a.jpg" still count as
// absolute.
var schemePattern = regexp.MustCompile(`(?i)^https?:/*`)

// source is a split view of an image src. host is empty for relative paths.
type source struct {
	raw   string
	host  string
	path  string
	query string
	// protocolRelative is set for "//host/path" sources.
	protocolRelative bool
}

func parseSource(raw string) source {
	s := source{raw: raw}

	rest := raw
	loc := schemePattern.FindStringIndex(raw)
	if loc == nil && strings.HasPrefix(raw, "//") {
		loc = []int{0, 2}
		s.protocolRelative = true
	}
	if loc != nil {
		rest = raw[loc[1]:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		s.host = strings.ToLower(rest[:end])
		rest = rest[end:]
	}

	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		s.query = rest[i:]
		rest = rest[:i]
	}
	s.path = rest
	return s
}

func (s source) absolute() bool {
	return s.host != ""
}

// url returns the source as an absolute URL. Protocol-relative sources are
// given the https scheme.
func (s source) url() string {
	if s.protocolRelative {
		return "https:" + s.raw
	}
	return s.raw
}

// onHost reports whether the source is served from domain. Ports are ignored.
func (s source) onHost(domain string) bool {
	domain = normalizeDomain(domain)
	if domain == "" || s.host == "" {
		return false
	}

	host := s.host
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return host == domain
}

func (s source) filename() string {
	return s.path[strings.LastIndex(s.path, "/")+1:]
}

// extension returns the lower-cased file extension without the dot.
func (s source) extension() string {
	name := s.filename()
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// normalizeDomain reduces a configured domain to a bare lower-cased host, so
// "https://cdn.example.com:443/" and "cdn.example.com" compare equal.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = schemePattern.ReplaceAllString(domain, "")
	if i := strings.IndexAny(domain, "/:"); i >= 0 {
		domain = domain[:i]
	}
	return strings.ToLower(domain)
}
