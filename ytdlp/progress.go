package ytdlp

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/cloudgrab/cloudgrab/generic"
)

// TrackInfo is item metadata opportunistically extracted from the tool's
// output.
type TrackInfo struct {
	Title      string `json:"title"`
	Uploader   string `json:"uploader"`
	Duration   string `json:"duration_string"`
	TrackCount int    `json:"playlist_count"`
}

// Update is the decoded result of one output line: a sparse partial update
// carrying only the fields that line's format can populate. The caller merges
// it into the operation's canonical state.
type Update struct {
	Percentage   generic.Option[float64]
	TotalSize    generic.Option[string]
	Speed        generic.Option[string]
	ETA          generic.Option[string]
	CurrentTrack generic.Option[int]
	TotalTracks  generic.Option[int]
	CurrentTitle generic.Option[string]
	Track        generic.Option[TrackInfo]
	// File is a finished output path to record, deduplicated by the caller.
	File generic.Option[string]
}

// IsEmpty reports whether the line populated nothing; unmatched text is not
// an error condition.
func (u *Update) IsEmpty() bool {
	return u.Percentage.IsNone() &&
		u.TotalSize.IsNone() &&
		u.Speed.IsNone() &&
		u.ETA.IsNone() &&
		u.CurrentTrack.IsNone() &&
		u.TotalTracks.IsNone() &&
		u.CurrentTitle.IsNone() &&
		u.Track.IsNone() &&
		u.File.IsNone()
}

// A lineMatcher recognizes one output line shape; matchers are tried in
// priority order and the first hit wins.
type lineMatcher struct {
	name  string
	match func(line string, u *Update) bool
}

var (
	progressRe = regexp.MustCompile(`\[download\]\s+(\d{1,3}(?:\.\d{1,2})?)% of ~?\s*(\S+) at\s+(\S+/s)(?:\s+ETA\s+(\d{1,2}:\d{2}))?`)
	completeRe = regexp.MustCompile(`\[download\]\s+100% of ~?\s*(\S+)`)
	itemRe     = regexp.MustCompile(`(?i)\[download\] Downloading item (\d+) of (\d+)`)
	webpageRe  = regexp.MustCompile(`^\[[^\]]+\]\s+([^:]+): Downloading webpage`)
	destRe     = regexp.MustCompile(`\[(?:download|ExtractAudio)\] Destination:\s+(.+)$`)
	alreadyRe  = regexp.MustCompile(`\[download\]\s+(.+?) has already been downloaded`)
)

var lineMatchers = []lineMatcher{
	{"progress", matchProgress},
	{"collection-position", matchCollectionPosition},
	{"webpage-fetch", matchWebpageFetch},
	{"json-metadata", matchJSONMetadata},
	{"output-file", matchOutputFile},
}

// ParseLine decodes one complete line of tool output. Lines matching no known
// shape produce an empty update.
func ParseLine(line string) Update {
	var u Update
	for _, m := range lineMatchers {
		if m.match(line, &u) {
			break
		}
	}
	return u
}

func matchProgress(line string, u *Update) bool {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	percentage, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return false
	}
	u.Percentage = generic.Some(percentage)
	u.TotalSize = generic.Some(m[2])
	u.Speed = generic.Some(m[3])
	if m[4] != "" {
		u.ETA = generic.Some(m[4])
	}
	return true
}

func matchCollectionPosition(line string, u *Update) bool {
	m := itemRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	current, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return false
	}
	u.CurrentTrack = generic.Some(current)
	u.TotalTracks = generic.Some(total)
	return true
}

func matchWebpageFetch(line string, u *Update) bool {
	m := webpageRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	u.CurrentTitle = generic.Some(strings.TrimSpace(m[1]))
	return true
}

// matchJSONMetadata is best-effort by design: the JSON object only appears in
// verbose logging, and a parse failure is swallowed rather than surfaced.
func matchJSONMetadata(line string, u *Update) bool {
	start := strings.Index(line, "{")
	end := strings.LastIndex(line, "}")
	if start < 0 || end <= start {
		return false
	}
	fragment := line[start : end+1]
	if !strings.Contains(fragment, `"title"`) || !strings.Contains(fragment, `"uploader"`) {
		return false
	}
	var info TrackInfo
	if err := json.Unmarshal([]byte(fragment), &info); err != nil {
		return false
	}
	if info.Title == "" || info.Uploader == "" {
		return false
	}
	u.Track = generic.Some(info)
	return true
}

func matchOutputFile(line string, u *Update) bool {
	if m := destRe.FindStringSubmatch(line); m != nil {
		u.File = generic.Some(strings.TrimSpace(m[1]))
		return true
	}
	if m := alreadyRe.FindStringSubmatch(line); m != nil {
		u.File = generic.Some(strings.TrimSpace(m[1]))
		return true
	}
	if m := completeRe.FindStringSubmatch(line); m != nil {
		u.Percentage = generic.Some(100.0)
		u.TotalSize = generic.Some(m[1])
		return true
	}
	return false
}
