package enrichment

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"url-event-pipeline/internal/models"
)

// analyzeURL decomposes the event URL. It does not apply to events without
// a URL. Components are reported as written in the URL, without decoding.
func analyzeURL(ev models.Event) (models.Event, error) {
	raw := ev.String(models.FieldURL)
	if raw == "" {
		return nil, nil
	}

	u, err := splitURL(raw)
	if err != nil {
		return nil, err
	}
	host, port := u.hostPort()

	info := models.Event{
		"url_scheme":       u.scheme,
		"url_domain":       u.netloc,
		"url_path":         u.path,
		"url_query":        u.query,
		"url_fragment":     u.fragment,
		"is_secure":        u.scheme == "https",
		"path_depth":       pathDepth(u.path),
		"has_query_params": u.query != "",
		"subdomain":        subdomain(host),
		"domain_extension": domainExtension(host),
		"page_category":    categorizePageType(u.path),
	}

	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 0 || n > 65535 {
			return nil, fmt.Errorf("invalid port %q", port)
		}
		info["url_port"] = n
	}

	if u.query != "" {
		params := queryKeys(u.query)
		info["query_param_count"] = len(params)
		info["has_tracking_params"] = hasAnyKey(params, trackingParams)
	}

	return info, nil
}

// urlParts holds the raw components of a URL
type urlParts struct {
	scheme   string
	netloc   string
	path     string
	query    string
	fragment string
}

// splitURL splits raw into scheme, authority, path, query and fragment
// without unescaping any component. Only unbalanced IPv6 brackets in the
// authority are rejected.
func splitURL(raw string) (urlParts, error) {
	var u urlParts
	rest := raw

	if i := strings.Index(rest, ":"); i > 0 && isScheme(rest[:i]) {
		u.scheme = strings.ToLower(rest[:i])
		rest = rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		u.netloc, rest = rest[:end], rest[end:]
		if strings.Contains(u.netloc, "[") != strings.Contains(u.netloc, "]") {
			return urlParts{}, fmt.Errorf("invalid IPv6 host %q", u.netloc)
		}
	}

	if i := strings.Index(rest, "#"); i >= 0 {
		u.fragment, rest = rest[i+1:], rest[:i]
	}
	if i := strings.Index(rest, "?"); i >= 0 {
		u.query, rest = rest[i+1:], rest[:i]
	}
	u.path = rest
	return u, nil
}

func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// hostPort returns the lower-cased host name and the port text of the
// authority. User info is ignored.
func (u urlParts) hostPort() (host, port string) {
	hostport := u.netloc
	if i := strings.LastIndex(hostport, "@"); i >= 0 {
		hostport = hostport[i+1:]
	}

	if strings.HasPrefix(hostport, "[") {
		if end := strings.Index(hostport, "]"); end >= 0 {
			host, hostport = hostport[1:end], hostport[end+1:]
			port, _ = strings.CutPrefix(hostport, ":")
			return strings.ToLower(host), port
		}
	}

	host, port, _ = strings.Cut(hostport, ":")
	return strings.ToLower(host), port
}

func pathDepth(path string) int {
	depth := 0
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			depth++
		}
	}
	return depth
}

func subdomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		return parts[0]
	}
	return ""
}

func domainExtension(host string) string {
	parts := strings.Split(host, ".")
	return parts[len(parts)-1]
}

// queryKeys returns the query parameter names that carry at least one
// non-blank value. Malformed pairs are skipped.
func queryKeys(rawQuery string) map[string]bool {
	keys := make(map[string]bool)
	values, _ := url.ParseQuery(rawQuery)
	for k, vs := range values {
		for _, v := range vs {
			if v != "" {
				keys[k] = true
				break
			}
		}
	}
	return keys
}

func hasAnyKey(set map[string]bool, keys []string) bool {
	for _, k := range keys {
		if set[k] {
			return true
		}
	}
	return false
}

// hostOf returns the authority of a URL, or "" when it has none or cannot
// be split.
func hostOf(raw string) string {
	u, err := splitURL(raw)
	if err != nil {
		return ""
	}
	return u.netloc
}
