package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Styles, Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Background(colorMantle).
			Bold(true)

	crumbStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorMantle)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	dangerModalStyle = modalStyle.BorderForeground(colorError)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	labelStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle  = lipgloss.NewStyle().Foreground(colorValue)
	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)
	infoStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	focusStyle  = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
)

func gridStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSurface2).
		BorderBottom(true).
		Foreground(colorSubtext0).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorCrust).
		Background(colorAccent).
		Bold(false)
	return s
}

func renderHeader(appName, crumb string, width int) string {
	content := headerAppStyle.Render(appName)
	if crumb != "" {
		content += crumbStyle.Render("  < " + crumb)
	}
	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(content)
}

func (a *App) renderSection(title, content string) string {
	width := a.sectionWidth()
	inner := width - 4
	header := padRight(titleStyle.Render(title), inner)
	separator := lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", max(inner, 1)))
	section := listBoxStyle.Width(width).Render(header + "\n" + separator + "\n" + content)
	if a.width == 0 {
		return section
	}
	return lipgloss.Place(a.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

func (a *App) sectionWidth() int {
	if a.width == 0 {
		return 100
	}
	return max(a.width-4, 20)
}

func (a *App) renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	a.help.Styles.ShortKey = helpKeyStyle.Background(bg)
	a.help.Styles.ShortDesc = helpDescStyle.Background(bg)
	a.help.Styles.ShortSeparator = lipgloss.NewStyle().Background(bg)
	content := a.help.ShortHelpView(bindings)
	if a.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(a.width).Render(content)
}

func (a *App) renderStatus(text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if a.width == 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(a.width).Render(flat)
}

func (a *App) placeWithFooter(body, statusLine, footer string) string {
	if a.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := max(a.height-2, 1)
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(a.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines keep stale cells from the previous frame out.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, a.width)
	}
	return strings.Join(lines, "\n") + "\n" + statusLine + "\n" + footer
}

// composeModal centers popup over the rendered page.
func (a *App) composeModal(base, statusLine, footer, popup string, style lipgloss.Style) string {
	baseView := a.placeWithFooter(base, statusLine, footer)
	modal := style.Render(popup)
	if a.height == 0 || a.width == 0 {
		return baseView + "\n\n" + modal
	}
	lines := splitLines(modal)
	targetHeight := max(a.height-2, 1)
	x := max((a.width-maxLineWidth(lines))/2, 0)
	y := max((targetHeight-len(lines))/2, 0)
	return overlayAt(baseView, modal, x, y, a.width, targetHeight)
}
