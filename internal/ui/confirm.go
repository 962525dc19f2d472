package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tnav/internal/theme"
)

// pendingConfirm is one queued confirmation request.
type pendingConfirm struct {
	message string
	answer  func(bool)
}

// ConfirmPrompt is the modal that surfaces navigation guards. Show has the
// signature the navigation gate expects, so the app hands the method
// straight in as the confirmer. Guarded navigations may overlap, so
// requests queue: one is on screen at a time and answering it reveals the
// next.
type ConfirmPrompt struct {
	queue []pendingConfirm
	width int
}

// NewConfirmPrompt creates an empty confirm prompt.
func NewConfirmPrompt() *ConfirmPrompt {
	return &ConfirmPrompt{}
}

// SetWidth sets the available width for rendering.
func (p *ConfirmPrompt) SetWidth(w int) {
	p.width = w
}

// Show enqueues a confirmation request. The answer callback runs exactly
// once, when the user decides.
func (p *ConfirmPrompt) Show(message string, answer func(ok bool)) {
	p.queue = append(p.queue, pendingConfirm{message: message, answer: answer})
}

// IsVisible reports whether a confirmation is on screen.
func (p *ConfirmPrompt) IsVisible() bool {
	return len(p.queue) > 0
}

// Message returns the message currently displayed.
func (p *ConfirmPrompt) Message() string {
	if len(p.queue) == 0 {
		return ""
	}
	return p.queue[0].message
}

// Pending returns how many confirmations are waiting, including the one on
// screen.
func (p *ConfirmPrompt) Pending() int {
	return len(p.queue)
}

// Answer resolves the confirmation on screen and reveals the next one, if
// any. Calling it with nothing on screen is a no-op.
func (p *ConfirmPrompt) Answer(ok bool) {
	if len(p.queue) == 0 {
		return
	}
	head := p.queue[0]
	p.queue = p.queue[1:]
	if head.answer != nil {
		head.answer(ok)
	}
}

// View renders the confirmation box. The caller centers it over the page.
func (p *ConfirmPrompt) View() string {
	if len(p.queue) == 0 {
		return ""
	}

	t := theme.Current

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Warning)

	msgStyle := lipgloss.NewStyle().
		Foreground(t.Text)

	keyBadgeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Background).
		Background(t.Secondary).
		Padding(0, 1)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	maxWidth := p.width - 12
	if maxWidth < 24 {
		maxWidth = 24
	}
	if maxWidth > 64 {
		maxWidth = 64
	}

	message := msgStyle.Width(maxWidth).Render(p.queue[0].message)

	bodyWidth := lipgloss.Width(message)
	title := titleStyle.Render("⚠ Confirm navigation")
	if tw := lipgloss.Width(title); tw > bodyWidth {
		bodyWidth = tw
	}

	rule := separatorStyle.Render(strings.Repeat("─", bodyWidth))

	footer := keyBadgeStyle.Render("y") + dimStyle.Render(" leave   ") +
		keyBadgeStyle.Render("n") + dimStyle.Render(" stay")
	if len(p.queue) > 1 {
		footer += dimStyle.Render(strings.Repeat(" ", 3))
		footer += dimStyle.Render("(+more waiting)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		rule,
		"",
		message,
		"",
		rule,
		footer,
	)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Warning).
		Padding(1, 2)

	return boxStyle.Render(content)
}
