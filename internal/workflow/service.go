// Package workflow drives one shorts job from submission to results: it owns
// the job identity, polls the service, and decides which view is visible.
//
// Everything here runs on the bubbletea event loop. Network calls are issued
// as tea.Cmds and their outcomes come back as messages through Update, so
// state is only ever touched from one goroutine.
package workflow

import (
	"context"
	"io"
	"time"

	"github.com/cuivienor/clipdeck/internal/model"
)

// StatusFetcher reads the current snapshot of a job
type StatusFetcher interface {
	Status(ctx context.Context, jobID string) (model.StatusSnapshot, error)
}

// Service is the subset of the processing service the workflow consumes
type Service interface {
	StatusFetcher
	CreateJob(ctx context.Context, videoURL string) (string, error)
	Continue(ctx context.Context, jobID string) error
	Transcript(ctx context.Context, jobID string) (model.Transcript, error)
	Download(ctx context.Context, jobID, filename string, w io.Writer) (int64, error)
	PreviewURL(jobID string) string
	DownloadURL(jobID, filename string) string
}

// ViewSelector makes exactly one view visible
type ViewSelector interface {
	Show(v model.View)
}

// requestContext bounds a one-shot request; a zero timeout leaves it to the client
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}
