package app

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vidyasagar/tnav/internal/browser"
	"github.com/vidyasagar/tnav/internal/theme"
)

// executeCommand runs a : command.
func (m Model) executeCommand(input string) (tea.Model, tea.Cmd) {
	input = strings.TrimSpace(input)
	if input == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	name, args := parts[0], parts[1:]
	ts := m.active()

	switch name {
	case "q", "quit":
		return m, tea.Quit

	case "o", "open":
		if len(args) == 0 {
			m.statusBar.SetMessage("Usage: :open URL")
			break
		}
		// Join so bare search queries with spaces work too.
		return m, m.navigateTo(strings.Join(args, " "))

	case "s", "search":
		if len(args) == 0 {
			m.statusBar.SetMessage("Usage: :search QUERY")
			break
		}
		// Unlike :open this always searches, even when the query
		// reads like a domain.
		return m, m.navigateTo(browser.SearchURL(m.cfg.SearchEngine, strings.Join(args, " ")))

	case "back":
		return m.goBack()

	case "forward", "fwd":
		return m.goForward()

	case "go":
		if len(args) != 1 {
			m.statusBar.SetMessage("Usage: :go N (negative moves back)")
			break
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			m.statusBar.SetMessage("Not a number: " + args[0])
			break
		}
		if ts == nil {
			break
		}
		m.saveScroll(ts)
		ts.history.Go(n)
		return m, m.afterNav(ts)

	case "reload":
		if ts == nil {
			break
		}
		ts.stack.Reload()
		return m, m.afterNav(ts)

	case "pin":
		if ts != nil && ts.unpin != nil {
			m.statusBar.SetMessage("Already pinned")
			break
		}
		return m.togglePin()

	case "unpin":
		if ts != nil && ts.unpin == nil {
			m.statusBar.SetMessage("Nothing is pinned")
			break
		}
		return m.togglePin()

	case "block":
		if ts == nil {
			break
		}
		message := strings.Join(args, " ")
		if message == "" {
			m.statusBar.SetMessage("Usage: :block MESSAGE")
			break
		}
		if ts.unpin != nil {
			ts.unpin()
		}
		unblock, err := ts.history.Block(message)
		if err != nil {
			m.statusBar.SetMessage("Block failed: " + err.Error())
			break
		}
		ts.unpin = unblock
		m.statusBar.SetMessage("Navigation blocked: " + message)
		m.syncTabUI()

	case "unblock":
		if ts == nil || ts.unpin == nil {
			m.statusBar.SetMessage("Nothing is blocked")
			break
		}
		ts.unpin()
		ts.unpin = nil
		m.statusBar.SetMessage("Navigation unblocked")
		m.syncTabUI()

	case "bm", "bookmark":
		return m.toggleBookmark()

	case "bookmarks":
		return m, m.navigateTo(internalScheme + "bookmarks")

	case "history":
		return m, m.navigateTo(internalScheme + "history")

	case "clearhistory":
		if m.visits == nil {
			m.statusBar.SetMessage("History unavailable: no database")
			break
		}
		n := m.visits.Clear()
		m.statusBar.SetMessage(fmt.Sprintf("Removed %d history entries", n))

	case "tab", "tabnew":
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return m.newTab(target)

	case "tabclose", "tc":
		return m.closeTab()

	case "theme":
		if len(args) == 0 {
			m.statusBar.SetMessage("Themes: " + strings.Join(theme.List(), ", "))
			break
		}
		if theme.Set(args[0]) {
			m.statusBar.SetMessage("Theme set to " + args[0])
		} else {
			m.statusBar.SetMessage("Unknown theme: " + args[0])
		}

	case "help", "h":
		return m, m.navigateTo(internalScheme + "help")

	default:
		m.statusBar.SetMessage("Unknown command: :" + name)
	}

	return m, nil
}

// followLink navigates to a numbered link on the current page.
func (m *Model) followLink(input string) tea.Cmd {
	ts := m.active()
	if ts == nil {
		return nil
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	idx, err := strconv.Atoi(input)
	if err != nil {
		m.statusBar.SetMessage("Not a link number: " + input)
		return nil
	}
	for _, l := range ts.pageLinks {
		if l.Index == idx {
			return m.navigateTo(m.resolveLink(ts, l.URL))
		}
	}
	m.statusBar.SetMessage(fmt.Sprintf("No link %d on this page", idx))
	return nil
}

// resolveLink makes a link target absolute against the current page.
// Extracted pages carry absolute hrefs already; the odd relative one
// still needs resolving.
func (m *Model) resolveLink(ts *tabState, href string) string {
	if strings.Contains(href, "://") {
		return href
	}
	base, err := url.Parse(m.currentHref(ts))
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// helpContent renders the builtin help page.
func helpContent() string {
	var b strings.Builder

	b.WriteString("\n  ❓ Help\n")
	b.WriteString("  " + strings.Repeat("━", 40) + "\n\n")

	b.WriteString("  Browsing\n\n")
	b.WriteString("    o          open a URL or search query\n")
	b.WriteString("    f          follow a numbered link\n")
	b.WriteString("    r          reload the current page\n")
	b.WriteString("    /          find on page, n jumps to the next match\n")
	b.WriteString("    j/k gg G   scroll, top, bottom\n\n")

	b.WriteString("  Session\n\n")
	b.WriteString("    H          back\n")
	b.WriteString("    L          forward\n")
	b.WriteString("    p          pin the page, leaving then asks first\n")
	b.WriteString("    Ctrl+h     history panel\n\n")

	b.WriteString("  Tabs\n\n")
	b.WriteString("    Ctrl+t     new tab\n")
	b.WriteString("    Ctrl+w     close tab\n")
	b.WriteString("    gt / gT    next / previous tab\n\n")

	b.WriteString("  Pages\n\n")
	b.WriteString("    B          bookmark the current page\n")
	b.WriteString("    tnav://bookmarks, tnav://history, tnav://help\n\n")

	b.WriteString("  Commands\n\n")
	b.WriteString("    :open URL        navigate, also :o\n")
	b.WriteString("    :search QUERY    search the web, also :s\n")
	b.WriteString("    :back :forward   move through the session\n")
	b.WriteString("    :go N            jump N entries, negative moves back\n")
	b.WriteString("    :pin :unpin      guard or release the current page\n")
	b.WriteString("    :block MSG       guard with a custom prompt\n")
	b.WriteString("    :bookmarks       bookmark list\n")
	b.WriteString("    :history         full history page\n")
	b.WriteString("    :clearhistory    forget every visit\n")
	b.WriteString("    :theme NAME      switch theme\n")
	b.WriteString("    :tab [URL]       open a new tab\n")
	b.WriteString("    :q               quit\n")

	return b.String()
}
