package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tnav/internal/theme"
)

// PageViewport wraps bubbles/viewport with scroll bookkeeping and on-page
// search. The scroll offset is readable and settable so the app can stash
// it in the session entry's state and put it back on pop.
type PageViewport struct {
	viewport   viewport.Model
	ready      bool
	content    string
	searchTerm string
	totalLines int
	contentSet bool
}

// NewPageViewport creates a new viewport (dimensions set on first WindowSizeMsg).
func NewPageViewport() PageViewport {
	return PageViewport{}
}

// SetSize updates the viewport dimensions.
func (pv *PageViewport) SetSize(width, height int) {
	if !pv.ready {
		pv.viewport = viewport.New(width, height)
		pv.viewport.MouseWheelEnabled = true
		pv.viewport.MouseWheelDelta = 3
		pv.ready = true
	} else {
		pv.viewport.Width = width
		pv.viewport.Height = height
	}
}

// SetContent replaces the viewport content and scrolls to the top.
func (pv *PageViewport) SetContent(content string) {
	pv.SetContentAt(content, 0)
}

// SetContentAt replaces the viewport content and restores a scroll
// position, clamped to the new content's height.
func (pv *PageViewport) SetContentAt(content string, offset int) {
	if !pv.ready {
		return
	}
	pv.viewport.SetContent(content)
	pv.content = content
	pv.totalLines = strings.Count(content, "\n") + 1
	pv.contentSet = true
	if offset <= 0 {
		pv.viewport.GotoTop()
	} else {
		pv.viewport.SetYOffset(offset)
	}
}

// ScrollOffset returns the index of the top line currently shown.
func (pv *PageViewport) ScrollOffset() int {
	if !pv.ready {
		return 0
	}
	return pv.viewport.YOffset
}

// Find jumps to the next line containing term, searching down from the
// current position and wrapping around. Returns false when the term is
// nowhere on the page.
func (pv *PageViewport) Find(term string) bool {
	if !pv.ready || term == "" {
		return false
	}
	pv.searchTerm = term
	return pv.findFrom(pv.viewport.YOffset + 1)
}

// FindNext repeats the last Find from the current position.
func (pv *PageViewport) FindNext() bool {
	if !pv.ready || pv.searchTerm == "" {
		return false
	}
	return pv.findFrom(pv.viewport.YOffset + 1)
}

func (pv *PageViewport) findFrom(start int) bool {
	needle := strings.ToLower(pv.searchTerm)
	lines := strings.Split(pv.content, "\n")
	if len(lines) == 0 {
		return false
	}
	for i := 0; i < len(lines); i++ {
		idx := (start + i) % len(lines)
		if idx < 0 {
			idx += len(lines)
		}
		if strings.Contains(strings.ToLower(lines[idx]), needle) {
			pv.viewport.SetYOffset(idx)
			return true
		}
	}
	return false
}

// Update forwards messages to the viewport.
func (pv *PageViewport) Update(msg tea.Msg) (*PageViewport, tea.Cmd) {
	if !pv.ready {
		return pv, nil
	}
	var cmd tea.Cmd
	pv.viewport, cmd = pv.viewport.Update(msg)
	return pv, cmd
}

// View renders the viewport.
func (pv *PageViewport) View() string {
	if !pv.ready {
		return "\n  Initializing..."
	}
	if !pv.contentSet {
		return pv.renderWelcome()
	}
	return pv.viewport.View()
}

// Welcome returns the welcome screen content. Shown automatically before
// any content is set; callers can also set it explicitly for new-tab pages.
func (pv *PageViewport) Welcome() string {
	return pv.renderWelcome()
}

// ScrollPercent returns the scroll percentage.
func (pv *PageViewport) ScrollPercent() float64 {
	if !pv.ready {
		return 0
	}
	return pv.viewport.ScrollPercent()
}

// ScrollInfo returns a string like "42%" or "TOP" or "BOT".
func (pv *PageViewport) ScrollInfo() string {
	pct := pv.ScrollPercent()
	switch {
	case pct <= 0:
		return "TOP"
	case pct >= 1:
		return "BOT"
	default:
		return fmt.Sprintf("%d%%", int(pct*100))
	}
}

// HalfPageDown scrolls down half a page.
func (pv *PageViewport) HalfPageDown() {
	if pv.ready {
		pv.viewport.HalfViewDown()
	}
}

// HalfPageUp scrolls up half a page.
func (pv *PageViewport) HalfPageUp() {
	if pv.ready {
		pv.viewport.HalfViewUp()
	}
}

// LineDown scrolls down one line.
func (pv *PageViewport) LineDown(n int) {
	if pv.ready {
		pv.viewport.LineDown(n)
	}
}

// LineUp scrolls up one line.
func (pv *PageViewport) LineUp(n int) {
	if pv.ready {
		pv.viewport.LineUp(n)
	}
}

// GotoTop scrolls to the top.
func (pv *PageViewport) GotoTop() {
	if pv.ready {
		pv.viewport.GotoTop()
	}
}

// GotoBottom scrolls to the bottom.
func (pv *PageViewport) GotoBottom() {
	if pv.ready {
		pv.viewport.GotoBottom()
	}
}

// Ready reports whether the viewport has been initialized.
func (pv *PageViewport) Ready() bool {
	return pv.ready
}

// Width returns the viewport width.
func (pv *PageViewport) Width() int {
	if !pv.ready {
		return 0
	}
	return pv.viewport.Width
}

// Height returns the viewport height.
func (pv *PageViewport) Height() int {
	if !pv.ready {
		return 0
	}
	return pv.viewport.Height
}

func (pv *PageViewport) renderWelcome() string {
	t := theme.Current

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	accentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Secondary)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Text)

	logo := `
  🧭 _
    | |_ _ __   __ _ __   __
    | __| '_ \ / _` + "`" + ` |\ \ / /
    | |_| | | | (_| | \ V /
     \__|_| |_|\__,_|  \_/
`

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("  A terminal web browser that remembers where you've been"))
	sb.WriteString("\n\n")
	sb.WriteString(accentStyle.Render("  ⌨ Quick Start"))
	sb.WriteString("\n\n")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"  o", "Open URL / search"},
		{"  f", "Follow link by number"},
		{"  H / L", "Go back / forward"},
		{"  j / k", "Scroll down / up"},
		{"  gg / G", "Top / bottom of page"},
		{"  Ctrl+d/u", "Half page down / up"},
		{"  p", "Pin page (confirm before leaving)"},
		{"  B", "Bookmark page"},
		{"  gt / gT", "Next / previous tab"},
		{"  Ctrl+t", "New tab"},
		{"  Ctrl+w", "Close tab"},
		{"  Ctrl+h", "History panel"},
		{"  /", "Find on page"},
		{"  :", "Command mode"},
		{"  ?", "Show all keybindings"},
		{"  q", "Quit"},
	}

	for _, s := range shortcuts {
		sb.WriteString(keyStyle.Render(fmt.Sprintf("  %-14s", s.key)))
		sb.WriteString(descStyle.Render(s.desc))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("  Type 'o' to open a URL or search the web"))
	sb.WriteString("\n")

	return sb.String()
}
