package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vidyasagar/tnav/internal/browser"
)

const defaultVisitCap = 1000

// Visit is one row of the visit log.
type Visit struct {
	ID        int64
	URL       string
	Title     string
	VisitedAt time.Time
}

// VisitStore is the persistent visit log. It records where the user has
// been, not the live session stack; restoring stacks across runs is not its
// job.
type VisitStore struct {
	db  *sql.DB
	cap int
}

// NewVisitStore creates a visit store on the given database, keeping at
// most cap rows. Zero or negative means the default cap.
func NewVisitStore(db *DB, cap int) *VisitStore {
	if cap <= 0 {
		cap = defaultVisitCap
	}
	return &VisitStore{db: db.Conn(), cap: cap}
}

// Add records a page visit. A repeat of the most recent URL only refreshes
// that row's timestamp and title, so reloads don't pile up rows.
func (vs *VisitStore) Add(url, title string) {
	if url == "" {
		return
	}

	var lastID int64
	var lastURL string
	err := vs.db.QueryRow(
		`SELECT id, url FROM visits ORDER BY visited_at DESC, id DESC LIMIT 1`,
	).Scan(&lastID, &lastURL)
	if err == nil && lastURL == url {
		vs.db.Exec(
			`UPDATE visits SET visited_at = datetime('now'),
			 title = CASE WHEN ? != '' THEN ? ELSE title END WHERE id = ?`,
			title, title, lastID,
		)
		return
	}

	vs.db.Exec(`INSERT INTO visits (url, title) VALUES (?, ?)`, url, title)
	vs.prune()
}

// List returns visits newest first, up to limit. A non-positive limit means
// everything the store keeps.
func (vs *VisitStore) List(limit int) []Visit {
	if limit <= 0 {
		limit = vs.cap
	}
	rows, err := vs.db.Query(
		`SELECT id, url, title, visited_at FROM visits
		 ORDER BY visited_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Search finds visits whose title or URL contains the query, newest first.
func (vs *VisitStore) Search(query string) []Visit {
	like := "%" + query + "%"
	rows, err := vs.db.Query(
		`SELECT id, url, title, visited_at FROM visits
		 WHERE title LIKE ? OR url LIKE ?
		 ORDER BY visited_at DESC, id DESC LIMIT ?`,
		like, like, vs.cap,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Remove deletes one visit by id. Returns false if no row matched.
func (vs *VisitStore) Remove(id int64) bool {
	res, err := vs.db.Exec(`DELETE FROM visits WHERE id = ?`, id)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

// Clear empties the visit log and reports how many rows went away.
func (vs *VisitStore) Clear() int {
	res, err := vs.db.Exec(`DELETE FROM visits`)
	if err != nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}

// Count returns the number of visits kept.
func (vs *VisitStore) Count() int {
	var count int
	vs.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&count)
	return count
}

// prune drops the oldest rows beyond the cap.
func (vs *VisitStore) prune() {
	vs.db.Exec(
		`DELETE FROM visits WHERE id NOT IN
		 (SELECT id FROM visits ORDER BY visited_at DESC, id DESC LIMIT ?)`,
		vs.cap,
	)
}

func scanVisits(rows *sql.Rows) []Visit {
	var visits []Visit
	for rows.Next() {
		var v Visit
		var visitedAt string
		if err := rows.Scan(&v.ID, &v.URL, &v.Title, &visitedAt); err != nil {
			continue
		}
		v.VisitedAt, _ = time.Parse("2006-01-02 15:04:05", visitedAt)
		visits = append(visits, v)
	}
	return visits
}

// RenderVisits formats the visit log as a browsable page with numbered
// links, so following an old visit works like following any other link.
func RenderVisits(visits []Visit) (string, []browser.Link) {
	var sb strings.Builder
	var links []browser.Link

	sb.WriteString("  🕘 History\n")
	sb.WriteString("  ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if len(visits) == 0 {
		sb.WriteString("  Nothing visited yet.\n")
		return sb.String(), links
	}

	for i, v := range visits {
		idx := i + 1
		title := v.Title
		if title == "" {
			title = v.URL
		}
		fmt.Fprintf(&sb, "  [%d] %s\n", idx, title)
		fmt.Fprintf(&sb, "       %s\n", v.URL)
		fmt.Fprintf(&sb, "       visited %s\n\n", timeAgo(v.VisitedAt))

		links = append(links, browser.Link{Index: idx, Text: title, URL: v.URL})
	}

	return sb.String(), links
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
