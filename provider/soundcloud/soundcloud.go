// Package soundcloud provides URL matching for soundcloud.com, including its
// mobile and short-link hostname variants.
package soundcloud

import (
	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/util"
	"github.com/cloudgrab/cloudgrab/validate"
)

type source struct {
	url  string
	kind cloudgrab.SourceKind
}

func (s *source) URL() string {
	return s.url
}

func (s *source) Kind() cloudgrab.SourceKind {
	return s.kind
}

func (s *source) DisplayName() string {
	slug, err := util.SlugFromURLString(s.url)
	if err != nil {
		return s.url
	}
	return util.TitleFromSlug(slug)
}

func (s *source) String() string {
	return s.url
}

// Match classifies a URL, returning a Source for downloadable SoundCloud
// URLs and a refusal explaining the classification for everything else.
func Match(s string) (cloudgrab.Source, error) {
	v, err := validate.ValidateURL(s)
	if err != nil {
		return nil, err
	}
	return &source{url: v.URL, kind: v.Kind}, nil
}

// New returns the soundcloud Provider for registration.
func New() cloudgrab.Provider {
	return cloudgrab.Provider{Name: "soundcloud", Match: Match}
}

func init() {
	cloudgrab.DefaultProviderRegistry.MustAdd(New())
}
