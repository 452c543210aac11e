package model

// Status is the remote job state reported by the status endpoint
type Status string

const (
	StatusDownloading Status = "downloading"
	StatusParsing     Status = "parsing"
	StatusReview      Status = "review"
	StatusAnalyzing   Status = "analyzing"
	StatusValidating  Status = "validating"
	StatusCutting     Status = "cutting"
	StatusDone        Status = "done"
	StatusError       Status = "error"
)

// Steps is the canonical order used for progress visualization.
// Terminal statuses are not part of it.
var Steps = []Status{
	StatusDownloading,
	StatusParsing,
	StatusReview,
	StatusAnalyzing,
	StatusValidating,
	StatusCutting,
}

// StepIndex returns the position of s in Steps, or -1
func (s Status) StepIndex() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// IsTerminal returns true for done and error
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// IsCheckpoint returns true for the review pause between the two phases
func (s Status) IsCheckpoint() bool {
	return s == StatusReview
}

// DisplayName is the label shown in the step indicator
func (s Status) DisplayName() string {
	switch s {
	case StatusDownloading:
		return "Download"
	case StatusParsing:
		return "Transcript"
	case StatusReview:
		return "Review"
	case StatusAnalyzing:
		return "AI Analysis"
	case StatusValidating:
		return "Validate"
	case StatusCutting:
		return "Cut"
	case StatusDone:
		return "Done"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// StepState is the three-way classification of a step relative to the current status
type StepState string

const (
	StepPending   StepState = "pending"
	StepActive    StepState = "active"
	StepCompleted StepState = "completed"
)

// Step pairs a step with its classification
type Step struct {
	Status Status
	State  StepState
}
