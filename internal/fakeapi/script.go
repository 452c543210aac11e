package fakeapi

import "github.com/cuivienor/clipdeck/internal/model"

// DefaultScript mirrors the progress values the real service reports
func DefaultScript() Script {
	title := "How Rockets Work"
	duration := 754.0
	clips := []model.Clip{
		{
			Title:        "The one equation you need",
			Hook:         "Everything comes down to this.",
			Start:        62,
			End:          118,
			Duration:     56,
			Filename:     "short_1.mp4",
			Segments:     []model.ClipSegment{{Start: 62, End: 118}},
			SegmentCount: 1,
		},
		{
			Title:        "Why staging matters",
			Start:        301,
			End:          389,
			Duration:     61,
			Filename:     "short_2.mp4",
			Segments:     []model.ClipSegment{{Start: 301, End: 330}, {Start: 357, End: 389}},
			SegmentCount: 2,
		},
	}

	return Script{
		Phase1: []model.StatusSnapshot{
			{Status: model.StatusDownloading, Progress: 10, Message: "Downloading video and captions..."},
			{Status: model.StatusParsing, Progress: 30, Message: "Parsing captions...", VideoTitle: title, Duration: duration},
			{Status: model.StatusReview, Progress: 40, Message: "Download complete! Review the video and transcript.", VideoTitle: title, Duration: duration},
		},
		Phase2: []model.StatusSnapshot{
			{Status: model.StatusAnalyzing, Progress: 55, Message: "AI is analyzing the content...", VideoTitle: title, Duration: duration},
			{Status: model.StatusValidating, Progress: 75, Message: "Validating timestamps...", VideoTitle: title, Duration: duration},
			{Status: model.StatusCutting, Progress: 88, Message: "Cutting 2 clips...", VideoTitle: title, Duration: duration},
			{Status: model.StatusDone, Progress: 100, Message: "Successfully created 2 shorts!", VideoTitle: title, Duration: duration, Clips: clips},
		},
		Transcript: []model.TranscriptSegment{
			{Start: 0, End: 6.5, Text: "Today we're looking at how rockets actually get to orbit."},
			{Start: 62, End: 71.2, Text: "Everything comes down to this one equation."},
			{Start: 301, End: 310, Text: "So why do we throw away parts of the rocket?"},
		},
	}
}
