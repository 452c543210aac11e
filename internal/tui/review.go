package tui

import (
	"fmt"
	"strings"

	"github.com/cuivienor/clipdeck/internal/format"
)

const transcriptWindow = 12

// renderReview renders the checkpoint between download and analysis
func (a *App) renderReview() string {
	r := a.ctrl.Review()
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.Title()))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(r.Subtitle()))
	b.WriteString("\n")
	b.WriteString(mutedItemStyle.Render("Preview: " + r.PreviewURL()))
	b.WriteString("\n")

	b.WriteString(sectionHeaderStyle.Render("Transcript"))
	b.WriteString("\n")

	if msg := r.TranscriptMessage(); msg != "" {
		b.WriteString(mutedItemStyle.Render("  " + msg))
		b.WriteString("\n")
	}

	segments := r.Segments()
	start, end := visibleRange(a.cursor, len(segments), transcriptWindow)
	for i := start; i < end; i++ {
		seg := segments[i]
		prefix := "  "
		if i == a.cursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%5s  %s", prefix, seg.Time, format.Truncate(seg.Text, 70))
		if i == a.cursor {
			b.WriteString(selectedItemStyle.Render(line))
		} else {
			b.WriteString(normalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(segments) > transcriptWindow {
		b.WriteString(mutedItemStyle.Render(fmt.Sprintf("  %d of %d segments", a.cursor+1, len(segments))))
		b.WriteString("\n")
	}

	if notice := r.Notice(); notice != "" {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(notice))
		b.WriteString("\n")
	}
	if a.ctrl.Proceeding() {
		b.WriteString("\n")
		b.WriteString(a.spinner.View() + " Starting analysis...")
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("[↑/↓] Navigate  [Enter] Play from here  [c] Continue  [Esc] Cancel  [q] Quit"))
	return b.String()
}

// visibleRange returns the window of n rows to draw so the cursor stays visible
func visibleRange(cursor, total, n int) (int, int) {
	if total <= n {
		return 0, total
	}
	start := cursor - n/2
	if start < 0 {
		start = 0
	}
	if start+n > total {
		start = total - n
	}
	return start, start + n
}
