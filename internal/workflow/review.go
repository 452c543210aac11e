package workflow

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/format"
	"github.com/cuivienor/clipdeck/internal/logging"
	"github.com/cuivienor/clipdeck/internal/model"
)

const (
	reviewSubtitle        = "Review the video and transcript, then continue"
	transcriptFailMessage = "Could not load transcript."
	transcriptNoneMessage = "No transcript segments found."
)

// TranscriptState tracks the asynchronous transcript load
type TranscriptState int

const (
	TranscriptIdle TranscriptState = iota
	TranscriptLoading
	TranscriptLoaded
	TranscriptEmpty
	TranscriptFailed
)

type transcriptMsg struct {
	jobID      string
	transcript model.Transcript
	err        error
}

type playerMsg struct {
	jobID string
	start float64
	err   error
}

// SegmentLine is a transcript segment prepared for display
type SegmentLine struct {
	Start float64
	End   float64
	Time  string // "M:SS" of Start
	Range string // "M:SS - M:SS", empty when the end is unknown
	Text  string
}

// ReviewLoader prepares the checkpoint view: preview media, header text and
// the transcript, which loads in the background and never fails the job.
type ReviewLoader struct {
	svc     Service
	player  Player
	timeout time.Duration
	log     *logrus.Logger

	jobID      string
	previewURL string
	title      string
	subtitle   string
	state      TranscriptState
	segments   []SegmentLine
	notice     string
}

// NewReviewLoader creates an empty loader. player may be nil, in which case
// seeking only reports that no player is available.
func NewReviewLoader(svc Service, player Player, timeout time.Duration, log *logrus.Logger) *ReviewLoader {
	if log == nil {
		log = logging.Discard()
	}
	return &ReviewLoader{svc: svc, player: player, timeout: timeout, log: log}
}

// Enter populates the view for jobID from the checkpoint snapshot and
// returns the command that fetches the transcript
func (r *ReviewLoader) Enter(jobID string, snap model.StatusSnapshot) tea.Cmd {
	r.Clear()
	r.jobID = jobID
	r.previewURL = r.svc.PreviewURL(jobID)
	r.title = format.Inert(snap.Title())
	r.subtitle = reviewSubtitle
	if snap.HasDuration() {
		r.subtitle += " · " + format.Time(snap.Duration)
	}
	r.state = TranscriptLoading

	svc := r.svc
	ctx, cancel := requestContext(r.timeout)
	return func() tea.Msg {
		defer cancel()
		t, err := svc.Transcript(ctx, jobID)
		return transcriptMsg{jobID: jobID, transcript: t, err: err}
	}
}

// Clear empties the view
func (r *ReviewLoader) Clear() {
	r.jobID = ""
	r.previewURL = ""
	r.title = ""
	r.subtitle = ""
	r.state = TranscriptIdle
	r.segments = nil
	r.notice = ""
}

func (r *ReviewLoader) applyTranscript(msg transcriptMsg) {
	if msg.jobID != r.jobID || r.state != TranscriptLoading {
		return
	}

	if msg.err != nil {
		r.log.WithField("job_id", msg.jobID).WithError(msg.err).Error("transcript load failed")
		r.state = TranscriptFailed
		return
	}

	if len(msg.transcript.Segments) == 0 {
		r.state = TranscriptEmpty
		return
	}

	r.segments = make([]SegmentLine, 0, len(msg.transcript.Segments))
	for _, seg := range msg.transcript.Segments {
		line := SegmentLine{
			Start: seg.Start,
			End:   seg.End,
			Time:  format.Time(seg.Start),
			Text:  format.Inert(seg.Text),
		}
		if seg.End > seg.Start {
			line.Range = format.Range(seg.Start, seg.End)
		}
		r.segments = append(r.segments, line)
	}
	r.state = TranscriptLoaded
}

// Seek returns the command that opens the preview at segment i
func (r *ReviewLoader) Seek(i int) tea.Cmd {
	if i < 0 || i >= len(r.segments) || r.previewURL == "" {
		return nil
	}

	jobID, url, start, player := r.jobID, r.previewURL, r.segments[i].Start, r.player
	r.notice = "Opening preview at " + r.segments[i].Time + "..."
	return func() tea.Msg {
		if player == nil {
			return playerMsg{jobID: jobID, start: start, err: errNoPlayer}
		}
		return playerMsg{jobID: jobID, start: start, err: player.Play(url, start)}
	}
}

func (r *ReviewLoader) applyPlayer(msg playerMsg) {
	if msg.jobID != r.jobID {
		return
	}
	if msg.err != nil {
		r.log.WithField("job_id", msg.jobID).WithError(msg.err).Warn("preview player failed")
		r.notice = "Could not open preview player."
		return
	}
	r.notice = "Playing from " + format.Time(msg.start)
}

// JobID returns the job the view was populated for
func (r *ReviewLoader) JobID() string { return r.jobID }

// PreviewURL returns the media reference for the preview player
func (r *ReviewLoader) PreviewURL() string { return r.previewURL }

// Title returns the video title, or the untitled fallback
func (r *ReviewLoader) Title() string { return r.title }

// Subtitle returns the header line, including the duration when known
func (r *ReviewLoader) Subtitle() string { return r.subtitle }

// State returns the transcript load state
func (r *ReviewLoader) State() TranscriptState { return r.state }

// Segments returns the loaded transcript lines
func (r *ReviewLoader) Segments() []SegmentLine { return r.segments }

// Notice returns the latest player feedback
func (r *ReviewLoader) Notice() string { return r.notice }

// TranscriptMessage returns the placeholder shown instead of segments, or ""
// once segments are loaded
func (r *ReviewLoader) TranscriptMessage() string {
	switch r.state {
	case TranscriptLoading:
		return "Loading transcript..."
	case TranscriptEmpty:
		return transcriptNoneMessage
	case TranscriptFailed:
		return transcriptFailMessage
	default:
		return ""
	}
}
