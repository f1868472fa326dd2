package article

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// trackingParams are dropped from the query string before an id is derived.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"dclid":   true,
	"msclkid": true,
	"mc_cid":  true,
	"mc_eid":  true,
	"_ga":     true,
	"ref":     true,
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// ResolveID derives the stable article id for a canonical URL: a UUIDv5 in the URL
// namespace of the normalised URL.
func ResolveID(canonicalURL string) (string, error) {
	normalized, err := Normalize(canonicalURL)
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(normalized)).String(), nil
}

// Normalize lowercases scheme and host, drops the fragment, tracking parameters and
// default port, and strips a trailing slash from the path. The escaped form of the
// path is kept, so /a%2Fb and /a/b stay distinct.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidReference, rawURL, err)
	}
	if !u.IsAbs() || u.Opaque != "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidReference, rawURL)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q has unsupported scheme %q", ErrInvalidReference, rawURL, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidReference, rawURL)
	}
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	query, err := filterQuery(u.RawQuery)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidReference, rawURL, err)
	}

	var b strings.Builder
	b.WriteString(scheme + "://")
	if u.User != nil {
		b.WriteString(u.User.String() + "@")
	}
	b.WriteString(host)
	b.WriteString(strings.TrimRight(u.EscapedPath(), "/"))
	if query != "" {
		b.WriteString("?" + query)
	}
	return b.String(), nil
}

// filterQuery drops tracking parameters from a raw query string. Kept pairs stay
// byte-for-byte as written and are ordered by key, so separators such as ';' and
// escapes such as %2F survive. A malformed escape is an error.
func filterQuery(rawQuery string) (string, error) {
	type pair struct {
		key, raw string
	}
	var kept []pair
	for _, raw := range strings.Split(rawQuery, "&") {
		if raw == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(raw, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return "", err
		}
		if _, err := url.QueryUnescape(rawValue); err != nil {
			return "", err
		}
		lower := strings.ToLower(key)
		if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
			continue
		}
		kept = append(kept, pair{key: key, raw: raw})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].key < kept[j].key })

	parts := make([]string, len(kept))
	for i, p := range kept {
		parts[i] = p.raw
	}
	return strings.Join(parts, "&"), nil
}
