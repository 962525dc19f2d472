package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestVisitStore_AddAndList(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 0)

	vs.Add("https://example.com/a", "Page A")
	vs.Add("https://example.com/b", "Page B")

	visits := vs.List(0)
	require.Len(t, visits, 2)
	assert.Equal(t, "https://example.com/b", visits[0].URL)
	assert.Equal(t, "Page B", visits[0].Title)
	assert.Equal(t, "https://example.com/a", visits[1].URL)
}

func TestVisitStore_RepeatVisitDoesNotDuplicate(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 0)

	vs.Add("https://example.com/a", "")
	vs.Add("https://example.com/a", "Page A")

	visits := vs.List(0)
	require.Len(t, visits, 1)
	assert.Equal(t, "Page A", visits[0].Title, "repeat visit should backfill the title")
}

func TestVisitStore_RepeatLaterCreatesNewRow(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 0)

	vs.Add("https://example.com/a", "Page A")
	vs.Add("https://example.com/b", "Page B")
	vs.Add("https://example.com/a", "Page A")

	assert.Equal(t, 3, vs.Count(), "only consecutive repeats collapse")
}

func TestVisitStore_EmptyURLIgnored(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 0)
	vs.Add("", "nothing")
	assert.Zero(t, vs.Count())
}

func TestVisitStore_PruneKeepsNewest(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 3)

	vs.Add("https://example.com/1", "1")
	vs.Add("https://example.com/2", "2")
	vs.Add("https://example.com/3", "3")
	vs.Add("https://example.com/4", "4")

	visits := vs.List(0)
	require.Len(t, visits, 3)
	assert.Equal(t, "https://example.com/4", visits[0].URL)
	assert.Equal(t, "https://example.com/2", visits[2].URL)
}

func TestVisitStore_Search(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 0)

	vs.Add("https://go.dev/blog/generics", "Generics in Go")
	vs.Add("https://example.com/cooking", "Pasta recipes")

	found := vs.Search("generics")
	require.Len(t, found, 1)
	assert.Equal(t, "https://go.dev/blog/generics", found[0].URL)

	assert.Len(t, vs.Search("example.com"), 1)
	assert.Empty(t, vs.Search("no such thing"))
}

func TestVisitStore_RemoveAndClear(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 0)

	vs.Add("https://example.com/a", "A")
	vs.Add("https://example.com/b", "B")

	visits := vs.List(0)
	require.Len(t, visits, 2)

	assert.True(t, vs.Remove(visits[0].ID))
	assert.False(t, vs.Remove(visits[0].ID), "second remove finds nothing")
	assert.Equal(t, 1, vs.Count())

	assert.Equal(t, 1, vs.Clear())
	assert.Zero(t, vs.Count())
}

func TestBookmarkStore_AddRejectsDuplicate(t *testing.T) {
	bs := NewBookmarkStore(newTestDB(t))

	assert.True(t, bs.Add("https://example.com", "Example"))
	assert.False(t, bs.Add("https://example.com", "Example again"))
	assert.Equal(t, 1, bs.Count())
}

func TestBookmarkStore_Toggle(t *testing.T) {
	bs := NewBookmarkStore(newTestDB(t))

	assert.True(t, bs.Toggle("https://example.com", "Example"))
	assert.True(t, bs.Has("https://example.com"))

	assert.False(t, bs.Toggle("https://example.com", "Example"))
	assert.False(t, bs.Has("https://example.com"))
}

func TestBookmarkStore_ListAndSearch(t *testing.T) {
	bs := NewBookmarkStore(newTestDB(t))

	bs.Add("https://go.dev", "The Go Programming Language")
	bs.Add("https://example.com", "Example Domain")

	all := bs.List()
	require.Len(t, all, 2)

	found := bs.Search("go programming")
	require.Len(t, found, 1)
	assert.Equal(t, "https://go.dev", found[0].URL)
}

func TestRenderVisits_NumbersLinks(t *testing.T) {
	vs := NewVisitStore(newTestDB(t), 0)
	vs.Add("https://example.com/a", "Page A")
	vs.Add("https://example.com/b", "")

	content, links := RenderVisits(vs.List(0))

	require.Len(t, links, 2)
	assert.Equal(t, 1, links[0].Index)
	assert.Equal(t, "https://example.com/b", links[0].URL)
	assert.Equal(t, "https://example.com/b", links[0].Text, "untitled visits fall back to the URL")
	assert.Equal(t, 2, links[1].Index)
	assert.True(t, strings.Contains(content, "[1]"))
	assert.True(t, strings.Contains(content, "just now"))
}

func TestRenderVisits_Empty(t *testing.T) {
	content, links := RenderVisits(nil)
	assert.Empty(t, links)
	assert.True(t, strings.Contains(content, "Nothing visited yet"))
}

func TestRenderBookmarks_NumbersLinks(t *testing.T) {
	bs := NewBookmarkStore(newTestDB(t))
	bs.Add("https://go.dev", "The Go Programming Language")

	content, links := RenderBookmarks(bs.List())

	require.Len(t, links, 1)
	assert.Equal(t, 1, links[0].Index)
	assert.Equal(t, "https://go.dev", links[0].URL)
	assert.True(t, strings.Contains(content, "Bookmarks"))
}
