package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePath_SearchAndHash(t *testing.T) {
	loc := ParsePath("/a/b?x=1#frag")

	assert.Equal(t, "/a/b", loc.Pathname)
	assert.Equal(t, "?x=1", loc.Search)
	assert.Equal(t, "#frag", loc.Hash)
}

func TestParsePath_PlainPath(t *testing.T) {
	loc := ParsePath("/a/b")

	assert.Equal(t, "/a/b", loc.Pathname)
	assert.Empty(t, loc.Search, "no search part should stay empty")
	assert.Empty(t, loc.Hash, "no hash part should stay empty")
}

func TestParsePath_HashBeforeSearch(t *testing.T) {
	// A "?" after the "#" belongs to the hash, not the search.
	loc := ParsePath("/a#frag?x=1")

	assert.Equal(t, "/a", loc.Pathname)
	assert.Empty(t, loc.Search)
	assert.Equal(t, "#frag?x=1", loc.Hash)
}

func TestParsePath_Cases(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		pathname string
		search   string
		hash     string
	}{
		{"search only", "/a?x=1", "/a", "?x=1", ""},
		{"hash only", "/a#frag", "/a", "", "#frag"},
		{"empty path becomes root", "", "/", "", ""},
		{"lone question mark dropped", "/a?", "/a", "", ""},
		{"lone hash dropped", "/a#", "/a", "", ""},
		{"lone question mark before hash dropped", "/a?#frag", "/a", "", "#frag"},
		{"search without pathname", "?x=1", "", "?x=1", ""},
		{"root", "/", "/", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loc := ParsePath(tc.path)
			assert.Equal(t, tc.pathname, loc.Pathname)
			assert.Equal(t, tc.search, loc.Search)
			assert.Equal(t, tc.hash, loc.Hash)
		})
	}
}

func TestCreatePath_Composition(t *testing.T) {
	testCases := []struct {
		name string
		loc  Location
		want string
	}{
		{"all parts", Location{Pathname: "/a/b", Search: "?x=1", Hash: "#frag"}, "/a/b?x=1#frag"},
		{"prefixes inserted", Location{Pathname: "/a", Search: "x=1", Hash: "frag"}, "/a?x=1#frag"},
		{"lone separators dropped", Location{Pathname: "/a", Search: "?", Hash: "#"}, "/a"},
		{"empty pathname becomes root", Location{Search: "?q=go"}, "/?q=go"},
		{"pathname only", Location{Pathname: "/a"}, "/a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CreatePath(tc.loc))
		})
	}
}

func TestCreatePath_RoundTripsParsePath(t *testing.T) {
	paths := []string{"/", "/a", "/a/b?x=1", "/a#frag", "/a/b?x=1#frag"}

	for _, path := range paths {
		assert.Equal(t, path, CreatePath(ParsePath(path)))
	}
}

func TestStripBasename(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		prefix string
		want   string
	}{
		{"plain prefix", "/news/item", "/news", "/item"},
		{"case insensitive", "/News/item", "/news", "/item"},
		{"exact match strips to empty", "/news", "/news", ""},
		{"boundary at search", "/news?id=2", "/news", "?id=2"},
		{"boundary at hash", "/news#top", "/news", "#top"},
		{"longer segment is not a boundary", "/newsletter", "/news", "/newsletter"},
		{"unrelated path untouched", "/item", "/news", "/item"},
		{"empty prefix untouched", "/item", "", "/item"},
		{"path shorter than prefix", "/n", "/news", "/n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripBasename(tc.path, tc.prefix))
		})
	}
}
