package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/format"
	"github.com/cuivienor/clipdeck/internal/logging"
	"github.com/cuivienor/clipdeck/internal/model"
)

// ClipCard is one produced short prepared for display. Every text field but
// Filename is inert. Hook is empty when the clip has none.
type ClipCard struct {
	Title    string
	Hook     string
	Duration string // "10s"
	Range    string // "M:SS - M:SS" over the source video
	Segments string // "N segments", empty for single-segment clips
	Name     string // inert filename for display
	// Filename is the raw service name, used only for addressing
	Filename string
	// Href addresses the artifact by job and filename; URL is its absolute form
	Href string
	URL  string
}

type downloadMsg struct {
	jobID    string
	filename string
	path     string
	bytes    int64
	err      error
}

// ResultRenderer turns a finished job into clip cards and downloads them
type ResultRenderer struct {
	svc     Service
	destDir func(jobID string) string
	log     *logrus.Logger

	jobID       string
	title       string
	summary     string
	cards       []ClipCard
	downloading map[string]bool
	saved       map[string]string
	notice      string
}

// NewResultRenderer creates an empty renderer. destDir maps a job to the
// directory its clips are saved in.
func NewResultRenderer(svc Service, destDir func(jobID string) string, log *logrus.Logger) *ResultRenderer {
	if log == nil {
		log = logging.Discard()
	}
	r := &ResultRenderer{svc: svc, destDir: destDir, log: log}
	r.Clear()
	return r
}

// Render replaces the cards with the clips of snap, in order
func (r *ResultRenderer) Render(jobID string, snap model.StatusSnapshot) {
	r.Clear()
	r.jobID = jobID
	r.title = format.Inert(snap.Title())
	r.summary = format.Inert(snap.Message)

	r.cards = make([]ClipCard, 0, len(snap.Clips))
	for _, clip := range snap.Clips {
		card := ClipCard{
			Title:    format.Inert(clip.Title),
			Duration: format.ClipDuration(clip.Duration),
			Range:    format.Range(clip.Start, clip.End),
			Name:     format.Inert(clip.Filename),
			Filename: clip.Filename,
			Href:     api.DownloadPath(jobID, clip.Filename),
			URL:      r.svc.DownloadURL(jobID, clip.Filename),
		}
		if clip.HasHook() {
			card.Hook = format.Inert(clip.Hook)
		}
		if n := clip.NumSegments(); n > 1 {
			card.Segments = fmt.Sprintf("%d segments", n)
		}
		r.cards = append(r.cards, card)
	}
}

// Clear removes every card
func (r *ResultRenderer) Clear() {
	r.jobID = ""
	r.title = ""
	r.summary = ""
	r.cards = nil
	r.downloading = map[string]bool{}
	r.saved = map[string]string{}
	r.notice = ""
}

// Download returns the command that saves card i to the job's download
// directory. A card already downloading is ignored.
func (r *ResultRenderer) Download(i int) tea.Cmd {
	if i < 0 || i >= len(r.cards) || r.destDir == nil {
		return nil
	}
	card := r.cards[i]
	if card.Filename == "" || r.downloading[card.Filename] {
		return nil
	}
	name, ok := localName(card.Filename)
	if !ok {
		r.notice = "Cannot save " + card.Name + ": invalid file name"
		return nil
	}
	r.downloading[card.Filename] = true
	r.notice = "Downloading " + card.Name + "..."

	jobID, svc := r.jobID, r.svc
	dir := r.destDir(jobID)
	ctx, cancel := requestContext(0)
	return func() tea.Msg {
		defer cancel()
		path := filepath.Join(dir, name)
		n, err := saveClip(func(f *os.File) (int64, error) {
			return svc.Download(ctx, jobID, card.Filename, f)
		}, dir, path)
		return downloadMsg{jobID: jobID, filename: card.Filename, path: path, bytes: n, err: err}
	}
}

func (r *ResultRenderer) applyDownload(msg downloadMsg) {
	if msg.jobID != r.jobID {
		return
	}
	delete(r.downloading, msg.filename)

	fields := logrus.Fields{"job_id": msg.jobID, "filename": msg.filename}
	if msg.err != nil {
		r.log.WithFields(fields).WithError(msg.err).Error("download failed")
		r.notice = "Download of " + format.Inert(msg.filename) + " failed: " + api.UserMessage(msg.err)
		return
	}
	r.log.WithFields(fields).WithField("bytes", msg.bytes).Info("clip saved")
	path := format.Inert(msg.path)
	r.saved[msg.filename] = path
	r.notice = "Saved " + path
}

// localName reduces a service filename to a plain, printable name inside the
// download directory. Names that reduce to nothing are rejected.
func localName(filename string) (string, bool) {
	name := format.Inert(filepath.Base(filepath.Clean("/" + filename)))
	switch strings.TrimSpace(name) {
	case "", ".", "..", "/":
		return "", false
	}
	return name, true
}

// saveClip writes through a temp file so a failed transfer leaves nothing behind
func saveClip(write func(*os.File) (int64, error), dir, path string) (int64, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create download directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".clipdeck-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := write(tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write file: %w", cerr)
	}
	if err != nil {
		return n, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("failed to save file: %w", err)
	}
	return n, nil
}

// JobID returns the job the cards belong to
func (r *ResultRenderer) JobID() string { return r.jobID }

// Title returns the video title, or the untitled fallback
func (r *ResultRenderer) Title() string { return r.title }

// Summary returns the final status message
func (r *ResultRenderer) Summary() string { return r.summary }

// Cards returns the clip cards in presentation order
func (r *ResultRenderer) Cards() []ClipCard { return r.cards }

// Downloading reports whether filename is being saved
func (r *ResultRenderer) Downloading(filename string) bool { return r.downloading[filename] }

// SavedPath returns the inert path filename was saved to, or ""
func (r *ResultRenderer) SavedPath(filename string) string { return r.saved[filename] }

// Notice returns the latest download feedback
func (r *ResultRenderer) Notice() string { return r.notice }
