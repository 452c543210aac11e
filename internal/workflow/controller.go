package workflow

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/format"
	"github.com/cuivienor/clipdeck/internal/logging"
	"github.com/cuivienor/clipdeck/internal/model"
)

// Phase is the position of the owned job in the two-phase workflow
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePhase1Polling
	PhaseCheckpoint
	PhasePhase2Polling
	PhaseDone
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePhase1Polling:
		return "phase1-polling"
	case PhaseCheckpoint:
		return "checkpoint"
	case PhasePhase2Polling:
		return "phase2-polling"
	case PhaseDone:
		return "done"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	startingMessage = "Starting..."
	resumingMessage = "Starting AI analysis..."
)

// Progress is the content of the progress view
type Progress struct {
	Status  model.Status
	Percent int
	Badge   string
	Message string
	Title   string // empty until the service reports one
	Steps   []model.Step
}

func newProgress(message string) Progress {
	return Progress{
		Badge:   "0%",
		Message: message,
		Steps:   Classify(""),
	}
}

type continueResultMsg struct {
	jobID string
	err   error
}

// Options configures a Controller
type Options struct {
	PollInterval   time.Duration
	RequestTimeout time.Duration
	// DownloadDir maps a job to the directory its clips are saved in
	DownloadDir func(jobID string) string
	Player      Player
	Logger      *logrus.Logger
}

// Controller is the workflow state machine:
//
//	Idle -> Phase1Polling -> Checkpoint -> Phase2Polling -> Done
//
// with Error reachable from every polling state and from the one-shot
// requests. Snapshot statuses decide transitions regardless of phase: review
// enters the checkpoint, done shows results, error shows the error view.
type Controller struct {
	svc     Service
	views   ViewSelector
	session *Session
	review  *ReviewLoader
	results *ResultRenderer
	timeout time.Duration
	log     *logrus.Logger

	phase      Phase
	progress   Progress
	errMsg     string
	submitting bool
	proceeding bool
}

// NewController creates an idle controller and shows the hero view
func NewController(svc Service, views ViewSelector, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	poller := NewPoller(svc, opts.PollInterval, opts.RequestTimeout, log)
	c := &Controller{
		svc:      svc,
		views:    views,
		session:  NewSession(svc, poller, opts.RequestTimeout, log),
		review:   NewReviewLoader(svc, opts.Player, opts.RequestTimeout, log),
		results:  NewResultRenderer(svc, opts.DownloadDir, log),
		timeout:  opts.RequestTimeout,
		log:      log,
		progress: newProgress(""),
	}
	c.views.Show(model.ViewHero)
	return c
}

// Submit starts a job for raw. A *api.ValidationError is returned for empty
// input; the view does not change and no request is made. A second submit
// while one is pending is ignored.
func (c *Controller) Submit(raw string) (tea.Cmd, error) {
	if c.submitting {
		return nil, nil
	}
	cmd, err := c.session.Submit(raw)
	if err != nil {
		return nil, err
	}
	c.submitting = true
	return cmd, nil
}

// Proceed asks the service to start phase 2. Only valid at the checkpoint,
// and only once until the request completes.
func (c *Controller) Proceed() tea.Cmd {
	if c.phase != PhaseCheckpoint || c.proceeding {
		return nil
	}
	c.proceeding = true

	jobID, svc := c.session.JobID(), c.svc
	c.log.WithField("job_id", jobID).Info("continuing to analysis")

	ctx, cancel := requestContext(c.timeout)
	return func() tea.Msg {
		defer cancel()
		return continueResultMsg{jobID: jobID, err: svc.Continue(ctx, jobID)}
	}
}

// Cancel abandons the job at the checkpoint
func (c *Controller) Cancel() {
	c.Reset()
}

// NewVideo leaves the results and starts over
func (c *Controller) NewVideo() {
	c.Reset()
}

// Retry leaves the error view and starts over
func (c *Controller) Retry() {
	c.Reset()
}

// Reset stops polling, forgets the job, clears every view and shows the hero
// view. It is safe to call repeatedly.
func (c *Controller) Reset() {
	c.session.Reset()
	c.phase = PhaseIdle
	c.progress = newProgress("")
	c.errMsg = ""
	c.submitting = false
	c.proceeding = false
	c.review.Clear()
	c.results.Clear()
	c.views.Show(model.ViewHero)
}

// Update routes asynchronous results back into the state machine
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if cmd, ok := c.session.Poller().Update(msg); ok {
		return cmd
	}

	switch msg := msg.(type) {
	case submitResultMsg:
		return c.handleSubmit(msg)

	case continueResultMsg:
		return c.handleContinue(msg)

	case transcriptMsg:
		if c.session.Owns(msg.jobID) {
			c.review.applyTranscript(msg)
		}

	case playerMsg:
		if c.session.Owns(msg.jobID) {
			c.review.applyPlayer(msg)
		}

	case downloadMsg:
		if c.session.Owns(msg.jobID) {
			c.results.applyDownload(msg)
		}
	}
	return nil
}

func (c *Controller) handleSubmit(msg submitResultMsg) tea.Cmd {
	if !c.session.current(msg) {
		c.log.WithField("job_id", msg.jobID).Debug("dropping stale submit result")
		return nil
	}
	c.submitting = false

	if msg.err != nil {
		c.log.WithField("url", msg.url).WithError(msg.err).Error("job creation failed")
		c.fail(api.UserMessage(msg.err))
		return nil
	}

	c.session.Adopt(msg.jobID)
	c.review.Clear()
	c.results.Clear()
	c.errMsg = ""
	c.progress = newProgress(startingMessage)
	c.phase = PhasePhase1Polling
	c.views.Show(model.ViewProgress)
	return c.session.StartPolling(c.pollHandlers())
}

func (c *Controller) handleContinue(msg continueResultMsg) tea.Cmd {
	if !c.session.Owns(msg.jobID) || c.phase != PhaseCheckpoint {
		c.log.WithField("job_id", msg.jobID).Debug("dropping stale continue result")
		return nil
	}
	c.proceeding = false

	if msg.err != nil {
		c.log.WithField("job_id", msg.jobID).WithError(msg.err).Error("continue failed")
		c.fail(api.UserMessage(msg.err))
		return nil
	}

	c.progress.Message = resumingMessage
	c.phase = PhasePhase2Polling
	c.views.Show(model.ViewProgress)
	return c.session.StartPolling(c.pollHandlers())
}

func (c *Controller) pollHandlers() PollHandlers {
	return PollHandlers{
		OnSnapshot:     c.onSnapshot,
		OnServiceError: c.onPollError,
	}
}

func (c *Controller) onSnapshot(snap model.StatusSnapshot) tea.Cmd {
	c.applySnapshot(snap)
	jobID := c.session.JobID()
	if snap.Status.IsCheckpoint() || snap.Status.IsTerminal() {
		c.session.StopPolling()
	}

	switch snap.Status {
	case model.StatusReview:
		c.phase = PhaseCheckpoint
		c.log.WithField("job_id", jobID).Info("waiting for review")
		c.views.Show(model.ViewReview)
		return c.review.Enter(jobID, snap)

	case model.StatusDone:
		c.phase = PhaseDone
		c.results.Render(jobID, snap)
		c.log.WithFields(logrus.Fields{"job_id": jobID, "clips": len(snap.Clips)}).Info("job finished")
		c.views.Show(model.ViewResults)

	case model.StatusError:
		c.log.WithFields(logrus.Fields{
			"job_id":  jobID,
			"message": snap.Message,
		}).Error("job failed")
		message := snap.Message
		if message == "" {
			message = api.GenericServiceMessage
		}
		c.fail(message)
	}
	return nil
}

func (c *Controller) onPollError(err error) tea.Cmd {
	c.log.WithField("job_id", c.session.JobID()).WithError(err).Error("status polling failed")
	c.fail(api.UserMessage(err))
	return nil
}

func (c *Controller) applySnapshot(snap model.StatusSnapshot) {
	pct := snap.ClampedProgress()
	c.progress.Status = snap.Status
	c.progress.Percent = pct
	c.progress.Badge = fmt.Sprintf("%d%%", pct)
	c.progress.Message = format.Inert(snap.Message)
	if snap.HasTitle() {
		c.progress.Title = format.Inert(snap.VideoTitle)
	}
	c.progress.Steps = Classify(snap.Status)

	c.log.WithFields(logrus.Fields{
		"job_id":   c.session.JobID(),
		"status":   string(snap.Status),
		"progress": pct,
	}).Debug("status update")
}

// fail shows message in the error view. The job stays owned until reset.
func (c *Controller) fail(message string) {
	c.session.StopPolling()
	c.phase = PhaseError
	c.errMsg = format.Inert(message)
	c.submitting = false
	c.proceeding = false
	c.views.Show(model.ViewError)
}

// Phase returns the current workflow phase
func (c *Controller) Phase() Phase { return c.phase }

// Progress returns the progress view content
func (c *Controller) Progress() Progress { return c.progress }

// ErrorMessage returns the message of the error view
func (c *Controller) ErrorMessage() string { return c.errMsg }

// Review returns the checkpoint view state
func (c *Controller) Review() *ReviewLoader { return c.review }

// Results returns the results view state
func (c *Controller) Results() *ResultRenderer { return c.results }

// JobID returns the owned job id, or ""
func (c *Controller) JobID() string { return c.session.JobID() }

// Submitting reports whether a submit is pending
func (c *Controller) Submitting() bool { return c.submitting }

// Proceeding reports whether a continue request is pending
func (c *Controller) Proceeding() bool { return c.proceeding }

// Polling reports whether the status poller is running
func (c *Controller) Polling() bool { return c.session.Poller().Active() }
