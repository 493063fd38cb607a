package validate

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/cloudgrab/cloudgrab"
)

func TestValidateURLClassification(t *testing.T) {
	assert := assert_.New(t)

	cases := []struct {
		name         string
		url          string
		kind         cloudgrab.SourceKind
		downloadable bool
	}{
		{"track", "https://soundcloud.com/artist/some-track", cloudgrab.KindTrack, true},
		{"track www", "https://www.soundcloud.com/artist/some-track", cloudgrab.KindTrack, true},
		{"playlist", "https://soundcloud.com/artist/sets/some-playlist", cloudgrab.KindPlaylist, true},
		{"album marker", "https://soundcloud.com/artist/albums/some-album", cloudgrab.KindAlbum, true},
		{"short link", "https://on.soundcloud.com/AbCdEf", cloudgrab.KindShortened, true},
		{"short link goo.gl", "https://soundcloud.app.goo.gl/XyZ", cloudgrab.KindShortened, true},
		{"profile", "https://soundcloud.com/artist", cloudgrab.KindUserProfile, false},
		{"discover", "https://soundcloud.com/discover", cloudgrab.KindDiscover, false},
		{"search", "https://soundcloud.com/search?q=test", cloudgrab.KindSearch, false},
		{"deep path", "https://soundcloud.com/a/b/c/d", cloudgrab.KindUnknown, false},
		{"empty path", "https://soundcloud.com/", cloudgrab.KindUnknown, false},
		{"wrong host", "https://example.com/artist/track", cloudgrab.KindInvalid, false},
		{"not a url", "definitely not a url", cloudgrab.KindInvalid, false},
		{"ftp scheme", "ftp://soundcloud.com/artist/track", cloudgrab.KindInvalid, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := ValidateURL(c.url)
			assert.Equal(c.kind, v.Kind, c.url)
			assert.Equal(c.downloadable, v.Kind.Downloadable(), c.url)
			if c.downloadable {
				assert.Nil(err)
			} else {
				assert.Error(err)
			}
		})
	}
}

func TestValidateURLShortLinkBeforePathInspection(t *testing.T) {
	assert := assert_.New(t)
	// A single path segment on a short-link host is still a short link, not a profile.
	v, err := ValidateURL("https://on.soundcloud.com/abc")
	assert.Nil(err)
	assert.Equal(cloudgrab.KindShortened, v.Kind)
	// And the URL is passed through unchanged for the downloader to resolve.
	assert.Equal("https://on.soundcloud.com/abc", v.URL)
}

func TestNormalizeURL(t *testing.T) {
	assert := assert_.New(t)

	// Mobile hostnames are rewritten to the canonical host.
	assert.Equal(
		"https://soundcloud.com/artist/some-track",
		NormalizeURL("https://m.soundcloud.com/artist/some-track"),
	)
	// Junk query parameters are stripped, allow-listed ones survive.
	assert.Equal(
		"https://soundcloud.com/artist/some-track?si=abc123",
		NormalizeURL("https://soundcloud.com/artist/some-track?si=abc123&utm_source=clipboard&utm_medium=text"),
	)
	// Short links pass through untouched, query and all.
	assert.Equal(
		"https://on.soundcloud.com/abc?x=1",
		NormalizeURL("https://on.soundcloud.com/abc?x=1"),
	)
}

func TestValidateURLNormalizes(t *testing.T) {
	assert := assert_.New(t)
	v, err := ValidateURL("http://m.soundcloud.com/artist/sets/mix?utm_source=mobi")
	assert.Nil(err)
	assert.Equal(cloudgrab.KindPlaylist, v.Kind)
	assert.Equal("https://soundcloud.com/artist/sets/mix", v.URL)
}
