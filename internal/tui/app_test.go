package tui

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/config"
	"github.com/cuivienor/clipdeck/internal/fakeapi"
	"github.com/cuivienor/clipdeck/internal/model"
)

type nopPlayer struct {
	starts []float64
}

func (p *nopPlayer) Play(_ string, start float64) error {
	p.starts = append(p.starts, start)
	return nil
}

// runner feeds commands back into the app the way the bubbletea runtime does
type runner struct {
	t     *testing.T
	app   *App
	queue []tea.Cmd
}

func newRunner(t *testing.T, srv *fakeapi.Server) (*runner, *nopPlayer) {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		APIURL:       ts.URL,
		PollInterval: time.Millisecond,
		DownloadBase: t.TempDir(),
	}
	player := &nopPlayer{}
	app := NewApp(cfg, api.NewClient(ts.URL, 5*time.Second), nil, WithPlayer(player))
	return &runner{t: t, app: app}, player
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func (r *runner) press(key string) {
	_, cmd := r.app.Update(keyMsg(key))
	if cmd != nil {
		r.queue = append(r.queue, cmd)
	}
}

func (r *runner) until(cond func() bool) {
	r.t.Helper()
	for i := 0; i < 200 && !cond(); i++ {
		if len(r.queue) == 0 {
			break
		}
		cmd := r.queue[0]
		r.queue = r.queue[1:]

		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			r.queue = append(r.queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		if _, next := r.app.Update(msg); next != nil {
			r.queue = append(r.queue, next)
		}
	}
	if !cond() {
		r.t.Fatalf("condition not reached, view = %s", r.app.CurrentView())
	}
}

func (r *runner) viewIs(v model.View) func() bool {
	return func() bool { return r.app.CurrentView() == v }
}

func TestApp_StartsOnHero(t *testing.T) {
	r, _ := newRunner(t, fakeapi.New())

	if got := r.app.CurrentView(); got != model.ViewHero {
		t.Errorf("CurrentView() = %s, want hero", got)
	}
	if !strings.Contains(r.app.View(), "Generate shorts") {
		t.Errorf("hero view missing submit hint:\n%s", r.app.View())
	}
}

func TestApp_EmptySubmit(t *testing.T) {
	r, _ := newRunner(t, fakeapi.New())

	r.app.input.SetValue("   ")
	r.press("enter")

	if len(r.queue) != 0 {
		t.Errorf("empty submit queued %d commands, want 0", len(r.queue))
	}
	if got := r.app.CurrentView(); got != model.ViewHero {
		t.Errorf("CurrentView() = %s, want hero", got)
	}
	if !r.app.input.Focused() {
		t.Error("input should keep focus after a validation error")
	}
	if !strings.Contains(r.app.View(), "Please enter a YouTube URL.") {
		t.Errorf("hero view missing validation message:\n%s", r.app.View())
	}
}

func TestApp_FullRun(t *testing.T) {
	srv := fakeapi.New(fakeapi.WithIDs("abc"))
	r, player := newRunner(t, srv)

	r.app.input.SetValue("https://youtu.be/rocket")
	r.press("enter")
	r.until(r.viewIs(model.ViewProgress))
	if !strings.Contains(r.app.View(), "Download") {
		t.Errorf("progress view missing steps:\n%s", r.app.View())
	}

	r.until(func() bool {
		return r.app.CurrentView() == model.ViewReview && len(r.app.ctrl.Review().Segments()) > 0
	})
	view := r.app.View()
	for _, want := range []string{"How Rockets Work", "12:34", "/api/preview/abc", "orbit"} {
		if !strings.Contains(view, want) {
			t.Errorf("review view missing %q:\n%s", want, view)
		}
	}

	r.press("down")
	r.press("enter")
	r.until(func() bool { return len(player.starts) == 1 })
	if player.starts[0] != 62 {
		t.Errorf("player started at %v, want 62", player.starts[0])
	}

	r.press("c")
	r.until(r.viewIs(model.ViewResults))
	view = r.app.View()
	for _, want := range []string{"The one equation you need", "Everything comes down to this.", "2 segments", "/api/download/abc/short_2.mp4"} {
		if !strings.Contains(view, want) {
			t.Errorf("results view missing %q:\n%s", want, view)
		}
	}
	if got := srv.ContinueCalls("abc"); got != 1 {
		t.Errorf("ContinueCalls() = %d, want 1", got)
	}

	r.press("n")
	if got := r.app.CurrentView(); got != model.ViewHero {
		t.Errorf("after new video CurrentView() = %s, want hero", got)
	}
}

func TestApp_ResultsShowInertFilename(t *testing.T) {
	script := fakeapi.DefaultScript()
	done := &script.Phase2[len(script.Phase2)-1]
	clips := append([]model.Clip(nil), done.Clips...)
	clips[0].Filename = "a\x1b]0;pwned\a.mp4"
	done.Clips = clips

	r, _ := newRunner(t, fakeapi.New(fakeapi.WithIDs("abc"), fakeapi.WithScript(script)))
	r.app.input.SetValue("https://youtu.be/rocket")
	r.press("enter")
	r.until(r.viewIs(model.ViewReview))
	r.press("c")
	r.until(r.viewIs(model.ViewResults))

	r.press("d")
	view := r.app.View()
	if !strings.Contains(view, "downloading a.mp4") {
		t.Errorf("results view missing inert filename:\n%s", view)
	}
	if strings.Contains(view, "\x1b]0;") || strings.Contains(view, "\a") {
		t.Errorf("results view carries a raw escape sequence: %q", view)
	}
}

func TestApp_CancelAtReview(t *testing.T) {
	srv := fakeapi.New(fakeapi.WithIDs("abc"))
	r, _ := newRunner(t, srv)

	r.app.input.SetValue("https://youtu.be/rocket")
	r.press("enter")
	r.until(r.viewIs(model.ViewReview))

	r.press("esc")
	if got := r.app.CurrentView(); got != model.ViewHero {
		t.Errorf("CurrentView() = %s, want hero", got)
	}
	if r.app.ctrl.JobID() != "" {
		t.Errorf("JobID() = %q, want empty", r.app.ctrl.JobID())
	}
}

func TestApp_ErrorAndRetry(t *testing.T) {
	srv := fakeapi.New()
	srv.FailProcess(&fakeapi.Failure{Code: 400, Message: "Please provide a valid YouTube URL."})
	r, _ := newRunner(t, srv)

	r.app.input.SetValue("not a video")
	r.press("enter")
	r.until(r.viewIs(model.ViewError))

	if !strings.Contains(r.app.View(), "Please provide a valid YouTube URL.") {
		t.Errorf("error view missing message:\n%s", r.app.View())
	}

	r.press("r")
	if got := r.app.CurrentView(); got != model.ViewHero {
		t.Errorf("after retry CurrentView() = %s, want hero", got)
	}
	if r.app.ctrl.ErrorMessage() != "" {
		t.Errorf("ErrorMessage() = %q after retry, want empty", r.app.ctrl.ErrorMessage())
	}
}
