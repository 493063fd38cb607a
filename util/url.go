package util

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrNoSlug = errors.New("cannot extract valid slug")
)

// SlugFromURL returns the last path segment of a URL, the part SoundCloud
// uses as the track or set slug.
func SlugFromURL(url *url.URL) (string, error) {
	if url == nil {
		return "", ErrNoSlug
	}
	path := strings.Trim(url.Path, "/")
	if path == "" {
		return "", ErrNoSlug
	}
	pathElements := strings.Split(path, "/")
	slug := pathElements[len(pathElements)-1]
	if slug == "" {
		return "", ErrNoSlug
	}
	// Don't allow "slugs" that are just ".", "..", etc.
	if strings.ReplaceAll(slug, ".", "") == "" {
		return "", ErrNoSlug
	}
	return slug, nil
}

func SlugFromURLString(s string) (string, error) {
	if parsedURL, err := url.Parse(s); err != nil {
		return "", err
	} else {
		return SlugFromURL(parsedURL)
	}
}

// TitleFromSlug turns a hyphenated URL slug into something readable.
func TitleFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
