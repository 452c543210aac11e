package workflow

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/model"
)

type statusReply struct {
	snap model.StatusSnapshot
	err  error
}

func snapshot(status model.Status, progress int) statusReply {
	return statusReply{snap: model.StatusSnapshot{Status: status, Progress: progress}}
}

func transportFailure() statusReply {
	return statusReply{err: &api.TransportError{Op: "fetch status", Err: errors.New("connection refused")}}
}

func serviceFailure(message string) error {
	return &api.ServiceError{Op: "test", StatusCode: 400, Message: message}
}

// stubService replays scripted replies. Status replies are consumed in
// order and the last one repeats.
type stubService struct {
	mu sync.Mutex

	jobIDs    []string
	createErr error
	created   []string

	statuses    []statusReply
	statusCalls int
	statusJobs  []string

	continueErr   error
	continueCalls int

	transcript    model.Transcript
	transcriptErr error

	files map[string]string
}

func (s *stubService) CreateJob(_ context.Context, videoURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, videoURL)
	if s.createErr != nil {
		return "", s.createErr
	}
	id := "abc"
	if len(s.jobIDs) > 0 {
		id = s.jobIDs[0]
		s.jobIDs = s.jobIDs[1:]
	}
	return id, nil
}

func (s *stubService) Status(_ context.Context, jobID string) (model.StatusSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCalls++
	s.statusJobs = append(s.statusJobs, jobID)
	if len(s.statuses) == 0 {
		return model.StatusSnapshot{}, &api.TransportError{Op: "fetch status", Err: errors.New("no script")}
	}
	reply := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return reply.snap, reply.err
}

func (s *stubService) Continue(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.continueCalls++
	return s.continueErr
}

func (s *stubService) Transcript(_ context.Context, _ string) (model.Transcript, error) {
	return s.transcript, s.transcriptErr
}

func (s *stubService) Download(_ context.Context, jobID, filename string, w io.Writer) (int64, error) {
	content, ok := s.files[filename]
	if !ok {
		return 0, &api.ServiceError{Op: "download clip", StatusCode: 404, Message: "File not found."}
	}
	n, err := io.WriteString(w, content)
	return int64(n), err
}

func (s *stubService) PreviewURL(jobID string) string {
	return "http://svc" + api.PreviewPath(jobID)
}

func (s *stubService) DownloadURL(jobID, filename string) string {
	return "http://svc" + api.DownloadPath(jobID, filename)
}

func (s *stubService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls
}

type viewRecorder struct {
	current model.View
	shown   []model.View
}

func (v *viewRecorder) Show(view model.View) {
	v.current = view
	v.shown = append(v.shown, view)
}

func (v *viewRecorder) count(view model.View) int {
	n := 0
	for _, s := range v.shown {
		if s == view {
			n++
		}
	}
	return n
}

type fakePlayer struct {
	url   string
	start float64
	err   error
	calls int
}

func (p *fakePlayer) Play(mediaURL string, start float64) error {
	p.calls++
	p.url = mediaURL
	p.start = start
	return p.err
}

// loop stands in for the bubbletea runtime: it runs queued commands one at a
// time and feeds their messages to an update function
type loop struct {
	update func(tea.Msg) tea.Cmd
	queue  []tea.Cmd
}

func newLoop(update func(tea.Msg) tea.Cmd, cmds ...tea.Cmd) *loop {
	l := &loop{update: update}
	for _, cmd := range cmds {
		l.push(cmd)
	}
	return l
}

func (l *loop) push(cmd tea.Cmd) {
	if cmd != nil {
		l.queue = append(l.queue, cmd)
	}
}

// step runs the next queued command. It returns false when the queue is empty.
func (l *loop) step() bool {
	if len(l.queue) == 0 {
		return false
	}
	cmd := l.queue[0]
	l.queue = l.queue[1:]

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			l.push(c)
		}
		return true
	}
	if msg != nil {
		l.push(l.update(msg))
	}
	return true
}

// run steps until the queue drains or limit is reached
func (l *loop) run(limit int) {
	for i := 0; i < limit && l.step(); i++ {
	}
}

// until steps until cond holds, the queue drains or limit is reached
func (l *loop) until(limit int, cond func() bool) bool {
	for i := 0; i < limit; i++ {
		if cond() {
			return true
		}
		if !l.step() {
			break
		}
	}
	return cond()
}

func newTestController(t *testing.T, svc Service) (*Controller, *viewRecorder, *fakePlayer) {
	t.Helper()
	views := &viewRecorder{}
	player := &fakePlayer{}
	dir := t.TempDir()
	c := NewController(svc, views, Options{
		PollInterval: time.Millisecond,
		DownloadDir:  func(jobID string) string { return filepath.Join(dir, jobID) },
		Player:       player,
	})
	return c, views, player
}

// submit runs a submit through to the first poll tick
func submit(t *testing.T, c *Controller, url string) *loop {
	t.Helper()
	cmd, err := c.Submit(url)
	if err != nil {
		t.Fatalf("Submit(%q) error = %v", url, err)
	}
	return newLoop(c.Update, cmd)
}
