package soundcloud

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/cloudgrab/cloudgrab"
)

func TestMatch(t *testing.T) {
	assert := assert_.New(t)

	src, err := Match("https://m.soundcloud.com/artist/cool-track?utm_source=mobi")
	assert.Nil(err)
	assert.Equal(cloudgrab.KindTrack, src.Kind())
	assert.Equal("https://soundcloud.com/artist/cool-track", src.URL())
	assert.Equal("cool track", src.DisplayName())
}

func TestMatchRefusesNonDownloadable(t *testing.T) {
	assert := assert_.New(t)

	for _, s := range []string{
		"https://soundcloud.com/just-a-profile",
		"https://soundcloud.com/discover",
		"https://example.com/artist/track",
	} {
		src, err := Match(s)
		assert.Nil(src, s)
		assert.Error(err, s)
	}
}

func TestRegistryIntegration(t *testing.T) {
	assert := assert_.New(t)

	var registry cloudgrab.ProviderRegistry
	registry.MustAdd(New())

	match, err := registry.Match("https://soundcloud.com/artist/sets/mixtape")
	assert.Nil(err)
	assert.Equal("soundcloud", match.ProviderName)
	assert.Equal(cloudgrab.KindPlaylist, match.Source.Kind())

	_, err = registry.Match("https://soundcloud.com/artist-profile")
	assert.Error(err)
}
