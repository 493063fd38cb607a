package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudgrab/cloudgrab"
)

const canonicalHost = "soundcloud.com"

var mobileHosts = map[string]bool{
	"m.soundcloud.com": true,
}

var shortLinkHosts = map[string]bool{
	"on.soundcloud.com":     true,
	"soundcloud.app.goo.gl": true,
}

var allowedHosts = map[string]bool{
	"soundcloud.com":     true,
	"www.soundcloud.com": true,
	"m.soundcloud.com":   true,
}

// Query parameters that survive normalization; everything else is junk the
// downloader doesn't need.
var allowedQueryParams = map[string]bool{
	"si": true,
	"in": true,
}

// Path segments that mark a collection URL, checked before the generic
// two-segment track pattern.
var collectionMarkers = map[string]cloudgrab.SourceKind{
	"sets":   cloudgrab.KindPlaylist,
	"albums": cloudgrab.KindAlbum,
}

// A Validated is the outcome of successfully classifying a URL.
type Validated struct {
	// URL is the normalized form; short links pass through unchanged.
	URL string
	// Kind is the classification; check Kind.Downloadable().
	Kind cloudgrab.SourceKind
}

// URLError reports why a URL was refused, with the kind it classified as.
type URLError struct {
	Kind   cloudgrab.SourceKind
	Reason string
}

func (e *URLError) Error() string {
	return e.Reason
}

// ValidateURL classifies a URL and, for downloadable kinds, returns its
// normalized form. Classification order matters: short-link hosts are
// recognized before path inspection, collection markers before the generic
// two-segment track pattern, and a single path segment is a profile, not a
// track.
func ValidateURL(s string) (Validated, error) {
	s = strings.TrimSpace(s)
	parsed, err := url.Parse(s)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Validated{Kind: cloudgrab.KindInvalid}, &URLError{cloudgrab.KindInvalid, "not a valid URL"}
	}
	host := strings.ToLower(parsed.Hostname())

	if shortLinkHosts[host] {
		// Redirect resolution is the downloader's job; pass through untouched.
		return Validated{URL: s, Kind: cloudgrab.KindShortened}, nil
	}
	if !allowedHosts[host] {
		return Validated{Kind: cloudgrab.KindInvalid}, &URLError{cloudgrab.KindInvalid, fmt.Sprintf("%s is not a %s URL", host, canonicalHost)}
	}

	normalized := normalize(parsed)
	segments := pathSegments(parsed)

	switch {
	case len(segments) == 0:
		return Validated{URL: normalized, Kind: cloudgrab.KindUnknown},
			&URLError{cloudgrab.KindUnknown, "URL has nothing to download"}
	case segments[0] == "discover" || segments[0] == "stations":
		return Validated{URL: normalized, Kind: cloudgrab.KindDiscover},
			&URLError{cloudgrab.KindDiscover, "discover pages can't be downloaded, pick a track or playlist"}
	case segments[0] == "search":
		return Validated{URL: normalized, Kind: cloudgrab.KindSearch},
			&URLError{cloudgrab.KindSearch, "search results can't be downloaded, pick a track or playlist"}
	}

	if len(segments) >= 3 {
		if kind, ok := collectionMarkers[segments[1]]; ok {
			return Validated{URL: normalized, Kind: kind}, nil
		}
	}

	switch len(segments) {
	case 1:
		return Validated{URL: normalized, Kind: cloudgrab.KindUserProfile},
			&URLError{cloudgrab.KindUserProfile, "this is a user profile, not a track"}
	case 2:
		return Validated{URL: normalized, Kind: cloudgrab.KindTrack}, nil
	default:
		return Validated{URL: normalized, Kind: cloudgrab.KindUnknown},
			&URLError{cloudgrab.KindUnknown, "unrecognised URL layout"}
	}
}

// NormalizeURL rewrites mobile hostnames to the canonical host and strips all
// query parameters outside the allow-list. Short links pass through unchanged.
func NormalizeURL(s string) string {
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil || parsed.Host == "" {
		return s
	}
	if shortLinkHosts[strings.ToLower(parsed.Hostname())] {
		return s
	}
	return normalize(parsed)
}

func normalize(parsed *url.URL) string {
	u := *parsed
	u.Scheme = "https"
	if mobileHosts[strings.ToLower(u.Hostname())] {
		u.Host = canonicalHost
	}
	u.Fragment = ""
	query := u.Query()
	for param := range query {
		if !allowedQueryParams[param] {
			query.Del(param)
		}
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func pathSegments(parsed *url.URL) []string {
	trimmed := strings.Trim(parsed.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
