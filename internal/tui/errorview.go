package tui

import "strings"

// renderError renders the single failure message and the retry prompt
func (a *App) renderError() string {
	var b strings.Builder

	b.WriteString(titleStyle.Foreground(colorError).Render("Something went wrong"))
	b.WriteString("\n")
	b.WriteString(errorTextStyle.Render(a.ctrl.ErrorMessage()))
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("[r] Try again  [q] Quit"))
	return b.String()
}
