package domain

import (
	"fmt"
	"strings"
	"time"
)

// Segment is a time-bounded chunk of transcript text.
type Segment struct {
	Start time.Duration `json:"start"`
	Text  string        `json:"text"`
}

// Transcript is the provider response in either flat or segmented form.
// A non-empty Segments slice takes precedence over Text.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
}

// Segmented reports whether the transcript carries per-segment timings.
func (t Transcript) Segmented() bool {
	return len(t.Segments) > 0
}

// Normalize renders the transcript as display text. Segmented transcripts
// become one line per segment prefixed with the segment start as [HH:MM:SS],
// floored to whole seconds. Flat transcripts pass through unchanged.
func (t Transcript) Normalize() string {
	if !t.Segmented() {
		return t.Text
	}

	lines := make([]string, 0, len(t.Segments))
	for _, segment := range t.Segments {
		lines = append(lines, fmt.Sprintf("%s %s", formatOffset(segment.Start), segment.Text))
	}
	return strings.Join(lines, "\n")
}

func formatOffset(offset time.Duration) string {
	if offset < 0 {
		offset = 0
	}
	total := int64(offset / time.Second)
	return fmt.Sprintf("[%02d:%02d:%02d]", total/3600, (total/60)%60, total%60)
}
