// Package loader rewrites image sources into Uploadcare CDN transformation
// URLs.
//
// Sources already hosted on the Uploadcare CDN (or on a configured custom CDN
// domain) get the transformation segment spliced into their path. Everything
// else is routed through the Uploadcare proxy:
//
//	https://<public key>.ucr.io/-/format/auto/-/resize/500x/.../<source URL>
package loader

import (
	"errors"
	"strings"
)

const (
	// DefaultCDNDomain hosts files uploaded to Uploadcare.
	DefaultCDNDomain = "ucarecdn.com"
	// DefaultProxyDomain is prefixed with the public key to form the proxy host.
	DefaultProxyDomain = "ucr.io"

	// MaxJPEGWidth caps resize for JPEG output.
	MaxJPEGWidth = 5000
	// MaxWidth caps resize for every other format.
	MaxWidth = 3000
)

// ErrMissingCredentials is returned outside development mode when neither a
// public key nor a custom proxy domain is configured.
var ErrMissingCredentials = errors.New("both UPLOADCARE_PUBLIC_KEY and UPLOADCARE_CUSTOM_PROXY_DOMAIN are not set, set either one")

// Mode selects development pass-through or production rewriting.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ParseMode maps an environment name to a Mode. Anything other than
// "development" (or "dev") is treated as production.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return ModeDevelopment
	default:
		return ModeProduction
	}
}

// Options configures a Loader. Either PublicKey or CustomProxyDomain must be
// set outside development mode.
type Options struct {
	PublicKey         string
	CustomProxyDomain string
	CustomCDNDomain   string
	AppBaseURL        string
	// TransformationParameters overrides the default directives, e.g.
	// "format/jpg, quality/smart".
	TransformationParameters string
	Mode                     Mode
}

// Request is a single image reference from a page.
type Request struct {
	Src   string
	Width int
	// Quality is accepted for call-site compatibility. The delivered quality
	// is controlled by the "quality" directive.
	Quality int
}

// Loader is immutable and safe for concurrent use.
type Loader struct {
	opts      Options
	overrides Params
}

// New returns a Loader with the override directives already parsed.
func New(opts Options) *Loader {
	return &Loader{
		opts:      opts,
		overrides: ParseParams(opts.TransformationParameters),
	}
}

// URL is a shorthand for New(opts).URL(req).
func URL(opts Options, req Request) (string, error) {
	return New(opts).URL(req)
}

// URL returns the CDN URL for req, or req.Src when the source is served as
// is.
func (l *Loader) URL(req Request) (string, error) {
	if l.opts.Mode == ModeDevelopment {
		return req.Src, nil
	}

	if strings.TrimSpace(l.opts.PublicKey) == "" && strings.TrimSpace(l.opts.CustomProxyDomain) == "" {
		return "", ErrMissingCredentials
	}

	src := parseSource(req.Src)

	// Uploadcare cannot negotiate formats for these, so they are served as is,
	// including when they already live on the CDN.
	if passThrough(src.extension()) {
		return req.Src, nil
	}

	segment := l.Params(req.Width, src.extension()).Segment()

	if src.onHost(DefaultCDNDomain) {
		return spliceBeforeFilename(src, segment), nil
	}

	if l.opts.CustomCDNDomain != "" && src.onHost(l.opts.CustomCDNDomain) {
		return "https://" + src.host + segment + strings.TrimPrefix(src.path, "/"), nil
	}

	target := src.url()
	if !src.absolute() {
		base := strings.TrimSpace(l.opts.AppBaseURL)
		if base == "" {
			return req.Src, nil
		}
		target = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(req.Src, "/")
	}

	return l.proxyEndpoint() + segment + target, nil
}

// Params resolves the directives for an image of the given width and source
// extension: defaults, the clamped width and the configured overrides.
func (l *Loader) Params(width int, extension string) Params {
	format, ok := l.overrides.Get("format")
	if !ok {
		format = "auto"
	}
	return DefaultParams(clampWidth(width, format, extension)).Merge(l.overrides)
}

func (l *Loader) proxyEndpoint() string {
	if domain := strings.TrimSpace(l.opts.CustomProxyDomain); domain != "" {
		if !schemePattern.MatchString(domain) {
			domain = "https://" + domain
		}
		return strings.TrimRight(domain, "/")
	}
	return "https://" + strings.TrimSpace(l.opts.PublicKey) + "." + DefaultProxyDomain
}

func clampWidth(width int, format, extension string) int {
	if width <= 0 {
		return 0
	}

	limit := MaxWidth
	if isJPEG(format, extension) {
		limit = MaxJPEGWidth
	}
	return min(width, limit)
}

func isJPEG(format, extension string) bool {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return true
	case "auto":
		return extension == "jpeg" || extension == "jpg"
	}
	return false
}

func passThrough(extension string) bool {
	return extension == "svg" || extension == "gif"
}

// spliceBeforeFilename turns https://ucarecdn.com/<uuid>/<name> into
// https://ucarecdn.com/<uuid><segment><name>. A bare https://ucarecdn.com/<uuid>
// gets the segment appended after the uuid.
func spliceBeforeFilename(src source, segment string) string {
	base := strings.TrimSuffix(src.url(), src.query)
	if !strings.Contains(strings.TrimPrefix(src.path, "/"), "/") {
		return base + segment + src.query
	}

	cut := strings.LastIndex(base, "/")
	return base[:cut] + segment + base[cut+1:] + src.query
}
