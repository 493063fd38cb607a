package cloudgrab

// SourceKind classifies what a URL points at on the source site.
type SourceKind string

const (
	KindTrack       SourceKind = "track"
	KindPlaylist    SourceKind = "playlist"
	KindAlbum       SourceKind = "album"
	KindUserProfile SourceKind = "user-profile"
	KindDiscover    SourceKind = "discover"
	KindSearch      SourceKind = "search"
	KindShortened   SourceKind = "shortened"
	KindUnknown     SourceKind = "unknown"
	KindInvalid     SourceKind = "invalid"
)

// Downloadable returns true for kinds the downloader can turn into audio
// files. Shortened links qualify because the downloader resolves redirects
// itself.
func (k SourceKind) Downloadable() bool {
	switch k {
	case KindTrack, KindPlaylist, KindAlbum, KindShortened:
		return true
	default:
		return false
	}
}

// IsCollection returns true for kinds that group multiple items, which get
// continue-on-error download semantics.
func (k SourceKind) IsCollection() bool {
	return k == KindPlaylist || k == KindAlbum
}

// A Source is a validated, normalized downloadable URL produced by a
// Provider's successful match.
type Source interface {
	// URL returns the canonical URL for this source, with mobile hostnames
	// rewritten and junk query parameters stripped.
	URL() string
	// Kind reports what the URL points at.
	Kind() SourceKind
	// DisplayName is a short human-readable label derived from the URL.
	DisplayName() string
}
