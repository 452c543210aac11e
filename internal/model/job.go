package model

import "strings"

// UntitledVideo is shown when the service has not reported a title yet
const UntitledVideo = "Untitled Video"

// StatusSnapshot is one polled read of a job. The service reports an empty
// title and a zero duration until the download finishes.
type StatusSnapshot struct {
	Status     Status  `json:"status"`
	Progress   int     `json:"progress"`
	Message    string  `json:"message"`
	VideoTitle string  `json:"video_title,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Clips      []Clip  `json:"clips,omitempty"`
}

// HasTitle reports whether the service has provided a video title
func (s StatusSnapshot) HasTitle() bool {
	return strings.TrimSpace(s.VideoTitle) != ""
}

// HasDuration reports whether the service has provided a video duration
func (s StatusSnapshot) HasDuration() bool {
	return s.Duration > 0
}

// Title returns the video title or the untitled fallback
func (s StatusSnapshot) Title() string {
	if s.HasTitle() {
		return s.VideoTitle
	}
	return UntitledVideo
}

// ClampedProgress keeps Progress within 0..100
func (s StatusSnapshot) ClampedProgress() int {
	switch {
	case s.Progress < 0:
		return 0
	case s.Progress > 100:
		return 100
	default:
		return s.Progress
	}
}

// ClipSegment is one source range compiled into a short
type ClipSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Clip is a produced short, listed in presentation order
type Clip struct {
	Title        string        `json:"title"`
	Hook         string        `json:"hook,omitempty"`
	Start        float64       `json:"start"`
	End          float64       `json:"end"`
	Duration     float64       `json:"duration"`
	Filename     string        `json:"filename"`
	Segments     []ClipSegment `json:"segments,omitempty"`
	SegmentCount int           `json:"segment_count,omitempty"`
}

// HasHook reports whether the clip carries a display quote
func (c Clip) HasHook() bool {
	return strings.TrimSpace(c.Hook) != ""
}

// NumSegments prefers the explicit count and falls back to the segment list
func (c Clip) NumSegments() int {
	if c.SegmentCount > 0 {
		return c.SegmentCount
	}
	return len(c.Segments)
}

// TranscriptSegment is one caption line in playback order
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end,omitempty"`
	Text  string  `json:"text"`
}

// Transcript is the body returned by the transcript endpoint
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
	Total    int                 `json:"total"`
}
