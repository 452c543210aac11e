package tui

import (
	"fmt"
	"strings"

	"github.com/cuivienor/clipdeck/internal/format"
	"github.com/cuivienor/clipdeck/internal/model"
)

// renderProgress renders the polling screen
func (a *App) renderProgress() string {
	p := a.ctrl.Progress()
	var b strings.Builder

	title := "Processing video"
	if p.Title != "" {
		title = format.Truncate(p.Title, 60)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %s  %s\n\n",
		a.spinner.View(),
		RenderBar(p.Percent, a.barWidth()),
		badgeStyle.Render(p.Badge),
	))

	for _, step := range p.Steps {
		line := fmt.Sprintf("  %s %s", StepIcon(step.State), step.Status.DisplayName())
		switch step.State {
		case model.StepActive:
			b.WriteString(selectedItemStyle.Render(line))
		case model.StepCompleted:
			b.WriteString(normalItemStyle.Render(line))
		default:
			b.WriteString(mutedItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if p.Message != "" {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(p.Message))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("[q] Quit"))
	return b.String()
}
