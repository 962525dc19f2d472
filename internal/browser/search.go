package browser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSearchURL is the query template used when no engine is
// configured. DuckDuckGo's HTML endpoint serves plain markup that parses
// without JavaScript.
const DefaultSearchURL = "https://html.duckduckgo.com/html/?q=%s"

// searchResult is a single parsed hit on a results page.
type searchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchURL expands an engine template with the escaped query. Templates
// carry a %s placeholder; anything without one falls back to the default
// engine, so older configs naming an engine instead of a template still
// search.
func SearchURL(engine, query string) string {
	if !strings.Contains(engine, "%s") {
		engine = DefaultSearchURL
	}
	return fmt.Sprintf(engine, url.QueryEscape(query))
}

// IsSearchURL reports whether href points at the default engine's results
// endpoint, the markup ParseSearchResults knows how to read. Custom
// engines go through the regular article pipeline.
func IsSearchURL(href string) bool {
	return strings.HasPrefix(href, "https://html.duckduckgo.com/html/")
}

// ParseSearchResults turns a fetched results page into a Page with one
// numbered link per hit, skipping the readability pass that would mangle
// the result list.
func ParseSearchResults(result *FetchResult) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	var results []searchResult
	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		titleEl := s.Find(".result__a")
		title := strings.TrimSpace(titleEl.Text())

		href, ok := titleEl.Attr("href")
		if !ok {
			return
		}
		realURL := unwrapRedirect(href)

		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		if title != "" && realURL != "" {
			results = append(results, searchResult{Title: title, URL: realURL, Snippet: snippet})
		}
	})

	return renderSearchResults(results, searchQuery(result.FinalURL)), nil
}

// unwrapRedirect extracts the destination from a DDG redirect link, which
// looks like //duckduckgo.com/l/?uddg=<encoded_url>&rut=...
func unwrapRedirect(href string) string {
	if strings.Contains(href, "uddg=") {
		if parsed, err := url.Parse(href); err == nil {
			if uddg := parsed.Query().Get("uddg"); uddg != "" {
				return uddg
			}
		}
	}

	// Sometimes they're direct links.
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}

	return href
}

// searchQuery recovers the query string from a results URL for the page
// title.
func searchQuery(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("q")
}

func renderSearchResults(results []searchResult, query string) *Page {
	var sb strings.Builder
	var links []Link

	title := "Search results"
	if query != "" {
		title = "Search: " + query
	}

	sb.WriteString(fmt.Sprintf("  🔍 %s\n", title))
	sb.WriteString("  ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if len(results) == 0 {
		sb.WriteString("  No results found.\n")
		return &Page{Title: title, Content: sb.String()}
	}

	for i, r := range results {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", idx, r.Title))
		sb.WriteString(fmt.Sprintf("       %s\n", r.URL))
		if r.Snippet != "" {
			snippet := r.Snippet
			if rs := []rune(snippet); len(rs) > 200 {
				snippet = string(rs[:197]) + "..."
			}
			sb.WriteString(fmt.Sprintf("       %s\n", snippet))
		}
		sb.WriteString("\n")

		links = append(links, Link{Index: idx, Text: r.Title, URL: r.URL})
	}

	sb.WriteString(fmt.Sprintf("  %d results | Press f then a number to follow a link\n", len(results)))

	return &Page{Title: title, Content: sb.String(), Links: links}
}
