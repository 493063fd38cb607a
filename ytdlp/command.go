package ytdlp

import (
	"path/filepath"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/validate"
)

// AudioFormat is the container every download is extracted to.
const AudioFormat = "mp3"

// OutputTemplate names each produced file after its item title. One media
// file per item is the whole output contract; everything else is suppressed.
const OutputTemplate = "%(title)s.%(ext)s"

// Command produces the full yt-dlp argument vector for a validated source.
// The caller is expected to run the result through validate.CommandArgs
// immediately before spawning.
func Command(source cloudgrab.Source, outputDir string, quality Quality) []string {
	args := []string{
		// Full metadata extraction, not a flat listing.
		"--no-flat-playlist",
		// Line-buffered, timestamp-free progress output.
		"--newline",
		// A failing item must not abort the rest of a collection.
		"--ignore-errors",

		// Audio extraction at the preset's quality.
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", AudioFormat,
		"--audio-quality", quality.encoderQuality(),

		// Embed tags and cover art in the media file itself; never write the
		// thumbnail as a sidecar image.
		"--embed-metadata",
		"--embed-thumbnail",
		"--no-write-thumbnail",

		// Suppress every other sidecar artifact the tool could produce.
		"--no-write-description",
		"--no-write-info-json",
		"--no-write-annotations",
		"--no-write-comments",
		"--no-write-subs",
		"--no-write-auto-subs",

		"--output", validate.SanitizeForShell(filepath.Join(outputDir, OutputTemplate)),
	}

	// Each track becomes its own logical album so library apps shelve it
	// individually; collections are shelved under the collection's title.
	if source.Kind().IsCollection() {
		args = append(args, "--parse-metadata", "%(playlist_title)s:%(meta_album)s")
	} else {
		args = append(args, "--parse-metadata", "%(title)s:%(meta_album)s")
	}

	args = append(args, validate.SanitizeForShell(source.URL()))
	return args
}
