package workflow

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/logging"
)

type submitResultMsg struct {
	epoch uint64
	url   string
	jobID string
	err   error
}

// Session owns the single job this client is driving and the poller bound
// to it. Adopting a new job or resetting bumps the epoch, which invalidates
// any submit still in flight.
type Session struct {
	svc     Service
	poller  *Poller
	timeout time.Duration
	log     *logrus.Logger

	jobID string
	epoch uint64
}

// NewSession creates an idle session
func NewSession(svc Service, poller *Poller, timeout time.Duration, log *logrus.Logger) *Session {
	if log == nil {
		log = logging.Discard()
	}
	return &Session{svc: svc, poller: poller, timeout: timeout, log: log}
}

// ValidateURL trims raw and rejects an empty result
func ValidateURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", &api.ValidationError{Field: "url", Message: "Please enter a YouTube URL."}
	}
	return url, nil
}

// Submit validates raw and returns the command that creates the job.
// Validation failures are returned directly and nothing is sent.
func (s *Session) Submit(raw string) (tea.Cmd, error) {
	url, err := ValidateURL(raw)
	if err != nil {
		return nil, err
	}

	s.log.WithField("url", url).Info("submitting video")

	epoch, svc := s.epoch, s.svc
	ctx, cancel := requestContext(s.timeout)
	return func() tea.Msg {
		defer cancel()
		jobID, err := svc.CreateJob(ctx, url)
		return submitResultMsg{epoch: epoch, url: url, jobID: jobID, err: err}
	}, nil
}

// Adopt makes jobID the owned job, discarding the previous one
func (s *Session) Adopt(jobID string) {
	s.poller.Stop()
	if s.jobID != "" && s.jobID != jobID {
		s.log.WithField("job_id", s.jobID).Info("discarding previous job")
	}
	s.jobID = jobID
	s.epoch++
	s.log.WithField("job_id", jobID).Info("job adopted")
}

// Reset stops polling and forgets the owned job. Calling it again is a no-op
// apart from invalidating pending submits.
func (s *Session) Reset() {
	s.poller.Stop()
	if s.jobID != "" {
		s.log.WithField("job_id", s.jobID).Info("session reset")
	}
	s.jobID = ""
	s.epoch++
}

// StartPolling begins polling the owned job
func (s *Session) StartPolling(h PollHandlers) tea.Cmd {
	if s.jobID == "" {
		return nil
	}
	return s.poller.Start(s.jobID, h)
}

// StopPolling halts the poller without forgetting the job
func (s *Session) StopPolling() {
	s.poller.Stop()
}

// current reports whether a submit result belongs to this session state
func (s *Session) current(msg submitResultMsg) bool {
	return msg.epoch == s.epoch
}

// Owns reports whether jobID is the owned job
func (s *Session) Owns(jobID string) bool {
	return jobID != "" && jobID == s.jobID
}

// JobID returns the owned job id, or "" when idle
func (s *Session) JobID() string {
	return s.jobID
}

// HasJob reports whether a job is owned
func (s *Session) HasJob() bool {
	return s.jobID != ""
}

// Poller exposes the session's poller
func (s *Session) Poller() *Poller {
	return s.poller
}
