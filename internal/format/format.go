// Package format holds the display helpers shared by the views.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Time formats seconds as M:SS. Fractions are truncated and negative
// input is treated as zero.
func Time(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Range formats a start/end pair as "M:SS - M:SS"
func Range(start, end float64) string {
	return Time(start) + " - " + Time(end)
}

// ClipDuration formats a clip length as whole seconds, e.g. "10s"
func ClipDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	return fmt.Sprintf("%ds", int(math.Round(seconds)))
}

// Inert makes remote-provided text safe to place in the terminal. Escape
// sequences (CSI, OSC, DCS, APC) and other control characters are dropped so
// the text can never restyle, retitle or link anything; line breaks and tabs
// collapse to one space.
func Inert(s string) string {
	s = ansi.Strip(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		case r < 32 || r == 127 || (r >= 0x80 && r < 0xa0):
			// drop
		default:
			b.WriteRune(r)
			lastSpace = r == ' '
		}
	}
	return b.String()
}

// Truncate shortens s to maxLen runes with a trailing ellipsis
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
