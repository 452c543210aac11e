package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/config"
	"github.com/cuivienor/clipdeck/internal/logging"
	"github.com/cuivienor/clipdeck/internal/model"
	"github.com/cuivienor/clipdeck/internal/workflow"
)

const defaultBarWidth = 40

// App is the main application model. It is also the workflow's view
// selector: the controller decides which view is visible, App draws it.
type App struct {
	config *config.Config
	ctrl   *workflow.Controller
	log    *logrus.Logger

	// Navigation state
	currentView model.View
	cursor      int

	input    textinput.Model
	inputErr string
	spinner  spinner.Model
	prefill  string
	player   workflow.Player

	// Window size
	width  int
	height int
}

// Option configures an App
type Option func(*App)

// WithURL pre-fills the hero input and submits it on start
func WithURL(url string) Option {
	return func(a *App) { a.prefill = url }
}

// WithPlayer overrides the preview player built from config
func WithPlayer(p workflow.Player) Option {
	return func(a *App) { a.player = p }
}

// NewApp creates a new application instance talking to svc
func NewApp(cfg *config.Config, svc workflow.Service, log *logrus.Logger, opts ...Option) *App {
	if log == nil {
		log = logging.Discard()
	}

	input := textinput.New()
	input.Placeholder = "https://www.youtube.com/watch?v=..."
	input.CharLimit = 2048
	input.Width = 60
	input.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = badgeStyle

	a := &App{
		config:  cfg,
		log:     log,
		input:   input,
		spinner: sp,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.player == nil {
		a.player = workflow.NewExecPlayer(cfg.PlayerCommand())
	}

	a.ctrl = workflow.NewController(svc, a, workflow.Options{
		PollInterval:   cfg.Interval(),
		RequestTimeout: cfg.Timeout(),
		DownloadDir:    cfg.DownloadDir,
		Player:         a.player,
		Logger:         log,
	})
	return a
}

// Show implements workflow.ViewSelector
func (a *App) Show(v model.View) {
	if v != a.currentView {
		a.log.WithFields(logrus.Fields{"from": a.currentView, "to": v}).Debug("view changed")
	}
	a.currentView = v
	a.cursor = 0
	if v == model.ViewHero {
		a.input.Focus()
	} else {
		a.input.Blur()
	}
}

// CurrentView returns the visible view
func (a *App) CurrentView() model.View {
	return a.currentView
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.spinner.Tick}
	if a.prefill != "" {
		a.input.SetValue(a.prefill)
		cmds = append(cmds, a.submit())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	cmd := a.ctrl.Update(msg)
	var inputCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	return a, tea.Batch(cmd, inputCmd)
}

// handleKeyPress handles keyboard input
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case model.ViewHero:
		return a.handleHeroKey(msg)
	case model.ViewProgress:
		if msg.String() == "q" {
			return a, tea.Quit
		}
	case model.ViewReview:
		return a.handleReviewKey(msg)
	case model.ViewResults:
		return a.handleResultsKey(msg)
	case model.ViewError:
		switch msg.String() {
		case "r", "enter":
			a.ctrl.Retry()
		case "q":
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a *App) handleHeroKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return a, a.submit()
	case "esc":
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submit() tea.Cmd {
	cmd, err := a.ctrl.Submit(a.input.Value())
	if err != nil {
		a.inputErr = api.UserMessage(err)
		a.input.Focus()
		return nil
	}
	a.inputErr = ""
	return cmd
}

func (a *App) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	review := a.ctrl.Review()
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(review.Segments())-1 {
			a.cursor++
		}
	case "enter", " ":
		return a, review.Seek(a.cursor)
	case "c":
		return a, a.ctrl.Proceed()
	case "esc", "x":
		a.ctrl.Cancel()
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := a.ctrl.Results()
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(results.Cards())-1 {
			a.cursor++
		}
	case "enter", "d":
		return a, results.Download(a.cursor)
	case "n":
		a.ctrl.NewVideo()
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	switch a.currentView {
	case model.ViewProgress:
		return a.renderProgress()
	case model.ViewReview:
		return a.renderReview()
	case model.ViewResults:
		return a.renderResults()
	case model.ViewError:
		return a.renderError()
	default:
		return a.renderHero()
	}
}

func (a *App) barWidth() int {
	if a.width > 0 && a.width-20 < defaultBarWidth {
		if a.width-20 < 10 {
			return 10
		}
		return a.width - 20
	}
	return defaultBarWidth
}
