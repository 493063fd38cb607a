package cloudgrab

import (
	"errors"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

type staticSource struct {
	url  string
	kind SourceKind
}

func (s staticSource) URL() string         { return s.url }
func (s staticSource) Kind() SourceKind    { return s.kind }
func (s staticSource) DisplayName() string { return s.url }

func matchPrefix(prefix string) MatchFunc {
	return func(s string) (Source, error) {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return staticSource{url: s, kind: KindTrack}, nil
		}
		return nil, errors.New("no match")
	}
}

func TestProviderRegistryAdd(t *testing.T) {
	assert := assert_.New(t)
	registry := ProviderRegistry{}

	assert.Nil(registry.Create("a", matchPrefix("a://")))
	assert.ErrorIs(registry.Create("a", matchPrefix("a://")), ErrDuplicateProvider)
	assert.ErrorIs(registry.Add(Provider{Name: "", Match: matchPrefix("x://")}), ErrInvalidProvider)
	assert.ErrorIs(registry.Add(Provider{Name: "b"}), ErrInvalidProvider)
	assert.Equal([]string{"a"}, registry.List())
}

func TestProviderRegistryMatchPriority(t *testing.T) {
	assert := assert_.New(t)
	registry := ProviderRegistry{}
	registry.MustAdd(Provider{Name: "fallback", Match: matchPrefix(""), Priority: PriorityLowest})
	registry.MustAdd(Provider{Name: "specific", Match: matchPrefix("s://"), Priority: PriorityHighest})

	match, err := registry.Match("s://thing")
	assert.Nil(err)
	assert.Equal("specific", match.ProviderName)

	match, err = registry.Match("other://thing")
	assert.Nil(err)
	assert.Equal("fallback", match.ProviderName)
}

func TestProviderRegistryMatchAggregatesRefusals(t *testing.T) {
	assert := assert_.New(t)
	registry := ProviderRegistry{}
	registry.MustAdd(Provider{Name: "a", Match: matchPrefix("a://")})
	registry.MustAdd(Provider{Name: "b", Match: matchPrefix("b://")})

	_, err := registry.Match("c://thing")
	assert.Error(err)
	// Each provider's refusal is visible in the aggregate error.
	assert.Contains(err.Error(), "[a]")
	assert.Contains(err.Error(), "[b]")
}

func TestProviderRegistryMatchWith(t *testing.T) {
	assert := assert_.New(t)
	registry := ProviderRegistry{}
	registry.MustAdd(Provider{Name: "a", Match: matchPrefix("a://")})

	match, err := registry.MatchWith("a", "a://thing")
	assert.Nil(err)
	assert.Equal("a", match.ProviderName)

	_, err = registry.MatchWith("missing", "a://thing")
	assert.ErrorIs(err, ErrUnknownProvider)

	_, err = registry.MatchWith("a", "b://thing")
	assert.ErrorIs(err, ErrNoMatch)
}

func TestSourceKind(t *testing.T) {
	assert := assert_.New(t)

	for _, kind := range []SourceKind{KindTrack, KindPlaylist, KindAlbum, KindShortened} {
		assert.True(kind.Downloadable(), kind)
	}
	for _, kind := range []SourceKind{KindUserProfile, KindDiscover, KindSearch, KindUnknown, KindInvalid} {
		assert.False(kind.Downloadable(), kind)
	}
	assert.True(KindPlaylist.IsCollection())
	assert.True(KindAlbum.IsCollection())
	assert.False(KindTrack.IsCollection())
}
