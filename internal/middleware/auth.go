package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var loosePrefix = regexp.MustCompile(`(?i)^(https?:)/*`)

// Auth restricts the "url" query parameter to allowed source domains.
// Relative sources belong to the application itself and are always allowed.
func Auth(allowedDomains []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			imageURL := r.URL.Query().Get("url")
			if imageURL == "" {
				http.Error(w, "Missing URL parameter", http.StatusBadRequest)
				return
			}

			var absolute string
			switch {
			case strings.HasPrefix(imageURL, "//"):
				absolute = "https:" + imageURL
			case loosePrefix.MatchString(imageURL):
				// Normalise "https:/host" so url.Parse sees the host.
				absolute = loosePrefix.ReplaceAllString(imageURL, "$1//")
			default:
				next.ServeHTTP(w, r)
				return
			}

			parsedURL, err := url.Parse(absolute)
			if err != nil || parsedURL.Host == "" {
				http.Error(w, "Invalid URL", http.StatusBadRequest)
				return
			}

			if !domainAllowed(parsedURL.Hostname(), allowedDomains) {
				http.Error(w, "Domain not allowed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func domainAllowed(host string, allowedDomains []string) bool {
	host = strings.ToLower(host)
	for _, domain := range allowedDomains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "*" {
			return true
		}
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
