package workflow

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/logging"
	"github.com/cuivienor/clipdeck/internal/model"
)

// DefaultPollInterval is the cadence between status fetches
const DefaultPollInterval = 1500 * time.Millisecond

type pollTickMsg struct {
	gen uint64
}

type pollResultMsg struct {
	gen   uint64
	jobID string
	snap  model.StatusSnapshot
	err   error
}

// PollHandlers receive the outcome of each fetch. Every field is optional.
type PollHandlers struct {
	// OnSnapshot is called for every successful fetch
	OnSnapshot func(model.StatusSnapshot) tea.Cmd
	// OnTransportError is called when a fetch could not reach the service;
	// polling continues on the next tick
	OnTransportError func(error)
	// OnServiceError is called once, after the poller has stopped itself
	OnServiceError func(error) tea.Cmd
}

// Poller fetches one job's status on a fixed interval. At most one fetch is
// in flight: the next tick is only scheduled once the previous result has
// been handled. Ticks and results from before the last Start or Stop are
// ignored.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	timeout  time.Duration
	log      *logrus.Logger

	gen      uint64
	active   bool
	jobID    string
	handlers PollHandlers
	attempt  int
	cancel   context.CancelFunc
}

// NewPoller creates a stopped poller. A zero interval uses DefaultPollInterval;
// a zero timeout leaves fetches bounded only by the client.
func NewPoller(fetcher StatusFetcher, interval, timeout time.Duration, log *logrus.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Start stops any running poll and begins polling jobID. The first fetch
// happens one interval from now.
func (p *Poller) Start(jobID string, h PollHandlers) tea.Cmd {
	p.Stop()
	p.gen++
	p.active = true
	p.jobID = jobID
	p.handlers = h
	p.attempt = 0

	p.log.WithField("job_id", jobID).Debug("polling started")
	return p.schedule()
}

// Stop halts polling. Safe to call when already stopped.
func (p *Poller) Stop() {
	if !p.active {
		return
	}
	p.log.WithField("job_id", p.jobID).Debug("polling stopped")

	p.gen++
	p.active = false
	p.jobID = ""
	p.handlers = PollHandlers{}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Active reports whether the poller is running
func (p *Poller) Active() bool {
	return p.active
}

// JobID returns the job being polled, or "" when stopped
func (p *Poller) JobID() string {
	return p.jobID
}

// Update handles poller messages. The bool reports whether msg belonged to
// the poller, stale ones included.
func (p *Poller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case pollTickMsg:
		if !p.current(msg.gen) || p.cancel != nil {
			return nil, true
		}
		return p.fetch(), true

	case pollResultMsg:
		if !p.current(msg.gen) || msg.jobID != p.jobID {
			return nil, true
		}
		if p.cancel != nil {
			p.cancel()
			p.cancel = nil
		}
		return p.handle(msg), true
	}
	return nil, false
}

func (p *Poller) current(gen uint64) bool {
	return p.active && gen == p.gen
}

func (p *Poller) schedule() tea.Cmd {
	gen := p.gen
	return tea.Tick(p.interval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func (p *Poller) fetch() tea.Cmd {
	ctx, cancel := requestContext(p.timeout)
	p.cancel = cancel
	p.attempt++

	gen, jobID, fetcher := p.gen, p.jobID, p.fetcher
	return func() tea.Msg {
		snap, err := fetcher.Status(ctx, jobID)
		return pollResultMsg{gen: gen, jobID: jobID, snap: snap, err: err}
	}
}

func (p *Poller) handle(msg pollResultMsg) tea.Cmd {
	h := p.handlers

	if msg.err != nil {
		if api.IsTransport(msg.err) {
			p.log.WithFields(logrus.Fields{
				"job_id":  msg.jobID,
				"attempt": p.attempt,
			}).WithError(msg.err).Warn("status fetch failed, retrying")
			if h.OnTransportError != nil {
				h.OnTransportError(msg.err)
			}
			return p.schedule()
		}

		p.Stop()
		if h.OnServiceError != nil {
			return h.OnServiceError(msg.err)
		}
		return nil
	}

	gen := p.gen
	var cmd tea.Cmd
	if h.OnSnapshot != nil {
		cmd = h.OnSnapshot(msg.snap)
	}
	// The handler may have stopped or restarted the poller
	if p.current(gen) {
		return tea.Batch(cmd, p.schedule())
	}
	return cmd
}
