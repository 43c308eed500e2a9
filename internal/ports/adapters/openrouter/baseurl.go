package openrouter

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://openrouter.ai"

var ErrBaseURL = errors.New("invalid OPENROUTER_BASE_URL")

var defaultAllowedHosts = map[string]struct{}{
	"openrouter.ai":     {},
	"api.openrouter.ai": {},
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// ValidateBaseURL accepts only absolute https URLs on an allowed host, with
// no userinfo, query or fragment. An empty allow-list means the public
// OpenRouter hosts.
func ValidateBaseURL(baseURL string, allowedHosts []string) error {
	baseURL = normalizeBaseURL(baseURL)

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBaseURL, err)
	}
	switch {
	case !u.IsAbs() || u.Hostname() == "":
		return fmt.Errorf("%w %q: absolute URL with host is required", ErrBaseURL, baseURL)
	case u.User != nil:
		return fmt.Errorf("%w %q: userinfo is not allowed", ErrBaseURL, baseURL)
	case u.RawQuery != "" || u.Fragment != "":
		return fmt.Errorf("%w %q: query and fragment are not allowed", ErrBaseURL, baseURL)
	case !strings.EqualFold(u.Scheme, "https"):
		return fmt.Errorf("%w %q: https is required", ErrBaseURL, baseURL)
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := normalizeAllowedHosts(allowedHosts)[host]; !ok {
		return fmt.Errorf("%w %q: host %q is not in OPENROUTER_ALLOWED_HOSTS", ErrBaseURL, baseURL, host)
	}
	return nil
}

// SplitHosts parses a comma separated OPENROUTER_ALLOWED_HOSTS value.
func SplitHosts(csv string) []string {
	var out []string
	for _, h := range strings.Split(csv, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func normalizeAllowedHosts(allowedHosts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		v := strings.ToLower(strings.TrimSpace(h))
		v = strings.TrimPrefix(v, "http://")
		v = strings.TrimPrefix(v, "https://")
		v = strings.Trim(v, "/")
		if i := strings.Index(v, ":"); i >= 0 {
			v = v[:i]
		}
		if v != "" {
			out[v] = struct{}{}
		}
	}
	if len(out) == 0 {
		return defaultAllowedHosts
	}
	return out
}
