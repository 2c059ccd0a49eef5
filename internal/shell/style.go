package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func mutedStyle(t *Theme) lipgloss.Style  { return lipgloss.NewStyle().Foreground(t.FgDim) }
func accentStyle(t *Theme) lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Accent) }
func fgStyle(t *Theme) lipgloss.Style     { return lipgloss.NewStyle().Foreground(t.Fg) }

// truncate shortens a plain string to maxLen runes, appending an ellipsis
// when it had to cut.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

func centerText(s string, totalW int) string {
	w := lipgloss.Width(s)
	if w >= totalW {
		return s
	}
	pad := (totalW - w) / 2
	return strings.Repeat(" ", pad) + s
}

// cursorRow highlights a row as the current selection using Reverse,
// matching the teacher's cursorRow helper.
func cursorRow(row string, w int) string {
	return lipgloss.NewStyle().Reverse(true).Render(padTo(row, w))
}

func padTo(s string, w int) string {
	cur := lipgloss.Width(s)
	if cur >= w {
		return ansi.Truncate(s, w, "")
	}
	return s + strings.Repeat(" ", w-cur)
}

// helpBinding describes a key-label pair for the footer help bar.
type helpBinding struct{ Key, Label string }

func renderHelpBar(bindings []helpBinding, w int, t *Theme) string {
	dim := mutedStyle(t)
	bright := fgStyle(t)

	var parts []string
	for _, b := range bindings {
		parts = append(parts, bright.Render(b.Key)+" "+dim.Render(b.Label))
	}
	return centerText(strings.Join(parts, "  "), w)
}

// overlay composites fg centered on top of bg. Both strings are
// newline-separated terminal renderings. Used to draw the confirmation
// prompt on top of the active view.
func overlay(bg, fg string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	fgH := len(fgLines)
	fgW := 0
	for _, l := range fgLines {
		if w := lipgloss.Width(l); w > fgW {
			fgW = w
		}
	}

	x := (width - fgW) / 2
	y := (height - fgH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLine := bgLines[row]
		fgLineW := lipgloss.Width(fgLine)

		left := ansi.Truncate(bgLine, x, "")
		if leftW := lipgloss.Width(left); leftW < x {
			left += strings.Repeat(" ", x-leftW)
		}
		right := ansi.TruncateLeft(bgLine, x+fgLineW, "")
		bgLines[row] = left + fgLine + right
	}

	if len(bgLines) > height {
		bgLines = bgLines[:height]
	}
	return strings.Join(bgLines, "\n")
}

// renderBox draws a bordered, titled box used by the confirmation prompt.
func renderBox(title, content string, width, height int, t *Theme) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	innerW := width - 2
	borderStyle := lipgloss.NewStyle().Foreground(t.Border)
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var top string
	if title != "" {
		titleStr := " " + title + " "
		titleLen := lipgloss.Width(titleStr)
		if titleLen > innerW-2 {
			titleStr = truncate(titleStr, innerW-2)
			titleLen = lipgloss.Width(titleStr)
		}
		styled := titleStyle.Render(titleStr)
		trailing := innerW - 1 - titleLen
		if trailing < 0 {
			trailing = 0
		}
		top = borderStyle.Render("╭─") + styled + borderStyle.Render(strings.Repeat("─", trailing)+"╮")
	} else {
		top = borderStyle.Render("╭" + strings.Repeat("─", innerW) + "╮")
	}

	lines := strings.Split(content, "\n")
	innerH := height - 2
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	var body []string
	body = append(body, top)
	for _, l := range lines {
		body = append(body, borderStyle.Render("│")+padTo(" "+l, innerW)+borderStyle.Render("│"))
	}
	body = append(body, borderStyle.Render("╰"+strings.Repeat("─", innerW)+"╯"))
	return strings.Join(body, "\n")
}

// resizeMeBox renders the floor-violation message shown when the
// terminal is smaller than the 80x24 minimum.
func resizeMeBox(width, height int) string {
	msg := "terminal too small — resize to at least 80x24"
	lines := strings.Split(msg, "\n")
	for i, l := range lines {
		lines[i] = centerText(l, width)
	}
	content := strings.Join(lines, "\n")
	for len(strings.Split(content, "\n")) < height {
		content += "\n"
	}
	return content
}
