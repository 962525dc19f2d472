package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
)

// Link is a numbered hyperlink in rendered output. The index is what the
// user types to follow it.
type Link struct {
	Index int
	Text  string
	URL   string
}

// Page is the terminal-ready rendering of an article plus the numbered
// links collected along the way.
type Page struct {
	Title   string
	Content string
	Links   []Link
}

// Glamour renderers are expensive to build, so one is cached per width.
// Render runs on load goroutines, hence the lock.
var (
	rendererMu    sync.Mutex
	renderer      *glamour.TermRenderer
	rendererWidth int
)

// Render converts an article's cleaned HTML into styled terminal text,
// numbering links as it goes. If glamour fails the raw markdown is shown
// instead, which is still readable.
func Render(article *Article, width int) *Page {
	if width <= 0 {
		width = 80
	}
	contentWidth := width - 4
	if contentWidth > 100 {
		contentWidth = 100
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return &Page{Title: article.Title, Content: article.TextContent}
	}

	c := &converter{}
	c.head(article)
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		c.block(s, 0)
	})

	out, err := styleMarkdown(c.md.String(), contentWidth)
	if err != nil {
		out = c.md.String()
	}

	return &Page{Title: article.Title, Content: out, Links: c.links}
}

// styleMarkdown renders markdown through glamour, reusing the renderer
// until the width changes.
func styleMarkdown(markdown string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if renderer == nil || rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		renderer = r
		rendererWidth = width
	}
	return renderer.Render(markdown)
}

// converter walks cleaned article HTML and writes the markdown equivalent,
// numbering every hyperlink it passes.
type converter struct {
	md    strings.Builder
	links []Link
}

func (c *converter) head(article *Article) {
	if article.Title != "" {
		fmt.Fprintf(&c.md, "# %s\n\n", article.Title)
	}
	if article.Byline != "" {
		fmt.Fprintf(&c.md, "*%s*\n\n", article.Byline)
	}
	c.md.WriteString("---\n\n")
}

func (c *converter) block(s *goquery.Selection, depth int) {
	switch tag := goquery.NodeName(s); tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		c.heading(s, int(tag[1]-'0'))
	case "p":
		if text := strings.TrimSpace(c.inline(s)); text != "" {
			c.md.WriteString(text + "\n\n")
		}
	case "a":
		c.md.WriteString(c.link(s))
	case "ul":
		c.list(s, false, depth)
	case "ol":
		c.list(s, true, depth)
	case "dl":
		c.definitions(s)
	case "blockquote":
		c.quote(s)
	case "pre":
		c.codeBlock(s)
	case "code":
		c.md.WriteString("`" + s.Text() + "`")
	case "img":
		c.image(s)
	case "hr":
		c.md.WriteString("\n---\n\n")
	case "table":
		c.table(s)
	case "br":
		c.md.WriteString("  \n")
	case "strong", "b":
		c.md.WriteString("**" + c.inline(s) + "**")
	case "em", "i":
		c.md.WriteString("*" + c.inline(s) + "*")
	case "figcaption":
		if text := strings.TrimSpace(s.Text()); text != "" {
			c.md.WriteString("*" + text + "*\n\n")
		}
	case "div", "article", "section", "main", "header", "footer", "figure", "span":
		s.Children().Each(func(_ int, child *goquery.Selection) {
			c.block(child, depth)
		})
	default:
		if text := strings.TrimSpace(s.Text()); text != "" {
			c.md.WriteString(text + "\n\n")
		}
	}
}

func (c *converter) heading(s *goquery.Selection, level int) {
	text := strings.TrimSpace(s.Text())
	if text == "" {
		return
	}
	c.md.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
}

// inline flattens a node's contents into one markdown line, following
// nested emphasis and links.
func (c *converter) inline(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			sb.WriteString(child.Text())
		case "a":
			sb.WriteString(c.link(child))
		case "strong", "b":
			sb.WriteString("**" + c.inline(child) + "**")
		case "em", "i":
			sb.WriteString("*" + c.inline(child) + "*")
		case "code":
			sb.WriteString("`" + child.Text() + "`")
		case "br":
			sb.WriteString("  \n")
		default:
			sb.WriteString(c.inline(child))
		}
	})
	return sb.String()
}

func (c *converter) link(s *goquery.Selection) string {
	href, ok := s.Attr("href")
	text := strings.TrimSpace(s.Text())
	if text == "" {
		text = href
	}
	if !ok || href == "" {
		return text
	}

	index := len(c.links) + 1
	c.links = append(c.links, Link{Index: index, Text: text, URL: href})
	return fmt.Sprintf("[%s](%s) **[%d]**", text, href, index)
}

func (c *converter) list(s *goquery.Selection, ordered bool, depth int) {
	indent := strings.Repeat("  ", depth)
	num := 0
	s.Find("> li").Each(func(_ int, li *goquery.Selection) {
		num++
		marker := indent + "- "
		if ordered {
			marker = fmt.Sprintf("%s%d. ", indent, num)
		}
		c.md.WriteString(marker + strings.TrimSpace(c.inline(li)) + "\n")

		// Nested lists sit inside the li.
		li.Children().Each(func(_ int, child *goquery.Selection) {
			switch goquery.NodeName(child) {
			case "ul":
				c.list(child, false, depth+1)
			case "ol":
				c.list(child, true, depth+1)
			}
		})
	})
	c.md.WriteString("\n")
}

func (c *converter) definitions(s *goquery.Selection) {
	s.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "dt":
			c.md.WriteString("**" + strings.TrimSpace(c.inline(child)) + "**\n")
		case "dd":
			c.md.WriteString(": " + strings.TrimSpace(c.inline(child)) + "\n\n")
		}
	})
}

func (c *converter) quote(s *goquery.Selection) {
	// Convert the quote body on a sub-converter so every line can be
	// prefixed; link numbering carries across.
	sub := &converter{links: c.links}
	s.Children().Each(func(_ int, child *goquery.Selection) {
		sub.block(child, 0)
	})
	c.links = sub.links

	for _, line := range strings.Split(strings.TrimRight(sub.md.String(), "\n"), "\n") {
		c.md.WriteString("> " + line + "\n")
	}
	c.md.WriteString("\n")
}

func (c *converter) codeBlock(s *goquery.Selection) {
	code := s.Find("code")

	lang := ""
	if code.Length() > 0 {
		if class, ok := code.Attr("class"); ok {
			if _, rest, found := strings.Cut(class, "language-"); found {
				if fields := strings.Fields(rest); len(fields) > 0 {
					lang = fields[0]
				}
			}
		}
	}

	text := s.Text()
	if code.Length() > 0 {
		text = code.Text()
	}
	c.md.WriteString("```" + lang + "\n" + text + "\n```\n\n")
}

func (c *converter) image(s *goquery.Selection) {
	alt, _ := s.Attr("alt")
	src, _ := s.Attr("src")
	if alt == "" {
		alt = "image"
	}
	fmt.Fprintf(&c.md, "![%s](%s)\n\n", alt, src)
}

func (c *converter) table(s *goquery.Selection) {
	var headers []string
	s.Find("thead th, thead td").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})

	var rows [][]string
	s.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, row)
	})

	// Without a thead the first row serves as the header.
	if len(headers) == 0 {
		s.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(cell.Text()))
		})
	}

	cols := len(headers)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	for len(headers) < cols {
		headers = append(headers, "")
	}

	c.md.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	seps := make([]string, cols)
	for i := range seps {
		seps[i] = "---"
	}
	c.md.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		for len(row) < cols {
			row = append(row, "")
		}
		c.md.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	c.md.WriteString("\n")
}
