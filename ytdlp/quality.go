package ytdlp

import (
	"fmt"
	"sort"
)

// Quality names an audio quality preset.
type Quality string

const (
	QualityLow      Quality = "low"
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
	QualityBest     Quality = "best"
)

// Each preset maps to an encoder quality argument: an approximate bitrate
// ceiling, or "0" for best-effort VBR.
var qualityPresets = map[Quality]string{
	QualityLow:      "128K",
	QualityStandard: "192K",
	QualityHigh:     "256K",
	QualityBest:     "0",
}

// ParseQuality resolves a preset name, rejecting anything outside the fixed
// enumeration.
func ParseQuality(name string) (Quality, error) {
	q := Quality(name)
	if _, ok := qualityPresets[q]; !ok {
		return "", fmt.Errorf("unknown quality preset %q (valid: %v)", name, QualityNames())
	}
	return q, nil
}

// QualityNames lists the valid preset names.
func QualityNames() []string {
	names := make([]string, 0, len(qualityPresets))
	for q := range qualityPresets {
		names = append(names, string(q))
	}
	sort.Strings(names)
	return names
}

func (q Quality) encoderQuality() string {
	return qualityPresets[q]
}
