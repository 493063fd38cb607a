package ytdlp

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecutableName is the downloader binary resolved via $PATH when none of the
// well-known install locations exist.
const ExecutableName = "yt-dlp"

// Well-known install locations, checked in order before falling back to $PATH.
var wellKnownPaths = []string{
	"/opt/homebrew/bin/yt-dlp",
	"/usr/local/bin/yt-dlp",
	"/usr/bin/yt-dlp",
}

// Locate finds the downloader executable. An explicit non-empty override
// short-circuits the search.
func Locate(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("downloader override %q: %w", override, err)
		}
		return override, nil
	}
	for _, p := range wellKnownPaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	path, err := exec.LookPath(ExecutableName)
	if err != nil {
		return "", fmt.Errorf("%s not found in well-known locations or $PATH: %w", ExecutableName, err)
	}
	return path, nil
}
