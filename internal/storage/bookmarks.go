package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vidyasagar/tnav/internal/browser"
)

// Bookmark represents a saved page.
type Bookmark struct {
	ID        int64
	URL       string
	Title     string
	CreatedAt time.Time
}

// BookmarkStore manages bookmarks persisted in SQLite.
type BookmarkStore struct {
	db *sql.DB
}

// NewBookmarkStore creates a bookmark store using the given database.
func NewBookmarkStore(db *DB) *BookmarkStore {
	return &BookmarkStore{db: db.Conn()}
}

// Add adds a bookmark. Returns false if the URL was already bookmarked.
func (bs *BookmarkStore) Add(url, title string) bool {
	res, err := bs.db.Exec(
		`INSERT OR IGNORE INTO bookmarks (url, title) VALUES (?, ?)`,
		url, title,
	)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

// Remove removes a bookmark by URL. Returns false if not found.
func (bs *BookmarkStore) Remove(url string) bool {
	res, err := bs.db.Exec(`DELETE FROM bookmarks WHERE url = ?`, url)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

// Toggle bookmarks the URL if it isn't saved, or removes it if it is.
// Returns true when the URL ends up bookmarked.
func (bs *BookmarkStore) Toggle(url, title string) bool {
	if bs.Has(url) {
		bs.Remove(url)
		return false
	}
	bs.Add(url, title)
	return true
}

// Has reports whether a URL is bookmarked.
func (bs *BookmarkStore) Has(url string) bool {
	var count int
	err := bs.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE url = ?`, url).Scan(&count)
	return err == nil && count > 0
}

// List returns all bookmarks, newest first.
func (bs *BookmarkStore) List() []Bookmark {
	rows, err := bs.db.Query(
		`SELECT id, url, title, created_at FROM bookmarks ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanBookmarks(rows)
}

// Search finds bookmarks whose title or URL contains the query.
func (bs *BookmarkStore) Search(query string) []Bookmark {
	like := "%" + query + "%"
	rows, err := bs.db.Query(
		`SELECT id, url, title, created_at FROM bookmarks
		 WHERE title LIKE ? OR url LIKE ?
		 ORDER BY created_at DESC`,
		like, like,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanBookmarks(rows)
}

// Count returns the number of bookmarks.
func (bs *BookmarkStore) Count() int {
	var count int
	bs.db.QueryRow(`SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	return count
}

func scanBookmarks(rows *sql.Rows) []Bookmark {
	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var createdAt string
		if err := rows.Scan(&b.ID, &b.URL, &b.Title, &createdAt); err != nil {
			continue
		}
		b.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		bookmarks = append(bookmarks, b)
	}
	return bookmarks
}

// RenderBookmarks formats bookmarks as a browsable page with numbered links.
func RenderBookmarks(bookmarks []Bookmark) (string, []browser.Link) {
	var sb strings.Builder
	var links []browser.Link

	sb.WriteString("  🔖 Bookmarks\n")
	sb.WriteString("  ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if len(bookmarks) == 0 {
		sb.WriteString("  No bookmarks yet. Press 'B' to bookmark a page.\n")
		return sb.String(), links
	}

	for i, b := range bookmarks {
		idx := i + 1
		title := b.Title
		if title == "" {
			title = b.URL
		}
		fmt.Fprintf(&sb, "  [%d] %s\n", idx, title)
		fmt.Fprintf(&sb, "       %s\n", b.URL)
		fmt.Fprintf(&sb, "       saved %s\n\n", timeAgo(b.CreatedAt))

		links = append(links, browser.Link{Index: idx, Text: title, URL: b.URL})
	}

	return sb.String(), links
}
