package tui

import (
	"fmt"
	"strings"
)

// renderResults renders the finished clip cards
func (a *App) renderResults() string {
	res := a.ctrl.Results()
	var b strings.Builder

	b.WriteString(titleStyle.Render(res.Title()))
	b.WriteString("\n")
	if res.Summary() != "" {
		b.WriteString(subtitleStyle.Render(res.Summary()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cards := res.Cards()
	if len(cards) == 0 {
		b.WriteString(mutedItemStyle.Render("No clips were produced."))
		b.WriteString("\n")
	}

	for i, card := range cards {
		var body strings.Builder
		body.WriteString(fmt.Sprintf("%s  %s", normalItemStyle.Bold(true).Render(card.Title), badgeStyle.Render(card.Duration)))
		if card.Hook != "" {
			body.WriteString("\n")
			body.WriteString(hookStyle.Render("“" + card.Hook + "”"))
		}

		meta := card.Range
		if card.Segments != "" {
			meta += " · " + card.Segments
		}
		body.WriteString("\n")
		body.WriteString(mutedItemStyle.Render(meta))

		body.WriteString("\n")
		switch {
		case res.Downloading(card.Filename):
			body.WriteString(a.spinner.View() + " downloading " + card.Name)
		case res.SavedPath(card.Filename) != "":
			body.WriteString(stepCompleted.String() + " " + res.SavedPath(card.Filename))
		default:
			body.WriteString(mutedItemStyle.Render("↓ " + card.URL))
		}

		style := boxStyle
		if i == a.cursor {
			style = selectedBoxStyle
		}
		b.WriteString(style.Render(body.String()))
		b.WriteString("\n")
	}

	if notice := res.Notice(); notice != "" {
		b.WriteString(subtitleStyle.Render(notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("[↑/↓] Navigate  [d] Download  [n] New video  [q] Quit"))
	return b.String()
}
