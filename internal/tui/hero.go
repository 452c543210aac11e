package tui

import "strings"

// renderHero renders the URL entry screen
func (a *App) renderHero() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("clipdeck"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Turn a YouTube video into vertical shorts"))
	b.WriteString("\n\n")

	b.WriteString(a.input.View())
	b.WriteString("\n")

	if a.ctrl.Submitting() {
		b.WriteString("\n")
		b.WriteString(a.spinner.View() + " Starting job...")
		b.WriteString("\n")
	}
	if a.inputErr != "" {
		b.WriteString("\n")
		b.WriteString(errorTextStyle.Render(a.inputErr))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("[Enter] Generate shorts  [Esc] Quit"))
	return b.String()
}
