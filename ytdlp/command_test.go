package ytdlp

import (
	"fmt"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/validate"
)

type fakeSource struct {
	url  string
	kind cloudgrab.SourceKind
}

func (s fakeSource) URL() string                 { return s.url }
func (s fakeSource) Kind() cloudgrab.SourceKind  { return s.kind }
func (s fakeSource) DisplayName() string         { return "fake" }

func TestCommandTrack(t *testing.T) {
	assert := assert_.New(t)
	src := fakeSource{url: "https://soundcloud.com/artist/cool-track", kind: cloudgrab.KindTrack}

	args := Command(src, "/home/user/Music", QualityHigh)

	// The URL goes last.
	assert.Equal(src.url, args[len(args)-1])
	// One file per item: title-templated output path, no sidecars.
	assert.Contains(args, "/home/user/Music/%(title)s.%(ext)s")
	for _, flag := range []string{
		"--newline", "--ignore-errors", "--extract-audio",
		"--embed-metadata", "--embed-thumbnail", "--no-write-thumbnail",
		"--no-write-description", "--no-write-info-json", "--no-write-comments",
		"--no-write-subs", "--no-write-auto-subs", "--no-flat-playlist",
	} {
		assert.Contains(args, flag)
	}
	// A single track becomes its own logical album.
	assert.Contains(args, "%(title)s:%(meta_album)s")
	assert.NotContains(args, "%(playlist_title)s:%(meta_album)s")
}

func TestCommandCollection(t *testing.T) {
	assert := assert_.New(t)
	src := fakeSource{url: "https://soundcloud.com/artist/sets/mixtape", kind: cloudgrab.KindPlaylist}

	args := Command(src, "/home/user/Music", QualityBest)
	// Collection downloads are shelved under the collection's title.
	assert.Contains(args, "%(playlist_title)s:%(meta_album)s")
	assert.NotContains(args, "%(title)s:%(meta_album)s")
}

func TestCommandQualityPresets(t *testing.T) {
	assert := assert_.New(t)
	src := fakeSource{url: "https://soundcloud.com/artist/track", kind: cloudgrab.KindTrack}

	for _, c := range []struct {
		quality Quality
		encoder string
	}{
		{QualityLow, "128K"},
		{QualityStandard, "192K"},
		{QualityHigh, "256K"},
		{QualityBest, "0"},
	} {
		args := Command(src, "/tmp", c.quality)
		assert.Contains(args, c.encoder, c.quality)
	}
}

func TestCommandSurvivesArgValidation(t *testing.T) {
	assert := assert_.New(t)
	src := fakeSource{url: "https://soundcloud.com/artist/track?si=abc", kind: cloudgrab.KindTrack}

	args := Command(src, "/home/user/Downloads", QualityStandard)
	sanitized, err := validate.CommandArgs(args)
	assert.Nil(err)
	assert.Equal(args, sanitized)
}

func TestParseQuality(t *testing.T) {
	assert := assert_.New(t)

	q, err := ParseQuality("high")
	assert.Nil(err)
	assert.Equal(QualityHigh, q)

	_, err = ParseQuality("extreme")
	assert.Error(err)
	assert.Contains(fmt.Sprint(err), "extreme")

	assert.Equal([]string{"best", "high", "low", "standard"}, QualityNames())
}
