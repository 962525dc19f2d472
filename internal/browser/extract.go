package browser

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"time"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
)

// Article holds the readable content pulled out of a fetched page.
type Article struct {
	Title       string
	Byline      string
	SiteName    string
	Content     string // cleaned HTML
	TextContent string // plain text
	Excerpt     string
	URL         string
	FinalURL    string
	FetchTime   time.Duration
}

// Extract reduces a fetch result to its readable article. Non-HTML
// responses skip readability: text bodies render preformatted, and binary
// bodies become a short notice instead of garbage on the terminal.
func Extract(result *FetchResult) (*Article, error) {
	if !IsHTML(result.ContentType) {
		return extractPlain(result), nil
	}

	parsedURL, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(result.Body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	return &Article{
		Title:       article.Title,
		Byline:      article.Byline,
		SiteName:    article.SiteName,
		Content:     article.Content,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
		URL:         result.URL,
		FinalURL:    result.FinalURL,
		FetchTime:   result.Duration,
	}, nil
}

func extractPlain(result *FetchResult) *Article {
	article := &Article{
		Title:     result.FinalURL,
		URL:       result.URL,
		FinalURL:  result.FinalURL,
		FetchTime: result.Duration,
	}

	if !utf8.Valid(result.Body) {
		notice := fmt.Sprintf("binary content: %s, %d bytes", result.ContentType, len(result.Body))
		article.Content = "<p>" + html.EscapeString(notice) + "</p>"
		article.TextContent = notice
		return article
	}

	text := string(result.Body)
	article.Content = "<pre>" + html.EscapeString(text) + "</pre>"
	article.TextContent = text
	return article
}
