package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// URLMode selects which strings are recognized as URLs.
type URLMode int

const (
	URLNone URLMode = iota
	URLHTTP
	URLLoose
)

func (m URLMode) String() string {
	switch m {
	case URLHTTP:
		return "http"
	case URLLoose:
		return "loose"
	default:
		return "none"
	}
}

// ParseURLMode parses "none", "http" or "loose".
func ParseURLMode(s string) (URLMode, error) {
	switch strings.ToLower(s) {
	case "none":
		return URLNone, nil
	case "http":
		return URLHTTP, nil
	case "loose", "all":
		return URLLoose, nil
	default:
		return URLNone, fmt.Errorf("invalid url mode %q (valid: none, http, loose)", s)
	}
}

var (
	httpURLPattern  = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
	looseURLPattern = regexp.MustCompile(`^[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
)

// isURL reports whether s is a URL under mode. Loose matches without a
// scheme must end their host in a known public suffix, so "notes.txt" is
// not a URL but "example.com" is.
func isURL(s string, mode URLMode) bool {
	switch mode {
	case URLHTTP:
		return httpURLPattern.MatchString(s)
	case URLLoose:
		if httpURLPattern.MatchString(s) {
			return true
		}
		return looseURLPattern.MatchString(s) && hasPublicSuffix(hostOf(s))
	default:
		return false
	}
}

func hostOf(s string) string {
	host := s
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndexByte(host, '@'); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return strings.ToLower(host)
}

func hasPublicSuffix(host string) bool {
	if host == "" {
		return false
	}
	_, err := publicsuffix.DomainFromListWithOptions(publicsuffix.DefaultList, host,
		&publicsuffix.FindOptions{IgnorePrivate: true})
	return err == nil
}

// openTarget returns the URL to open for s, adding https:// when the
// scheme is missing.
func openTarget(s string) string {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "https://" + s
}
