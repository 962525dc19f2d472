package nav

import "strings"

// Location describes where the app is. Search and Hash keep their leading
// "?" and "#" when present; an empty string means the part is absent. State
// is nil exactly when no canonical state could be recovered from the
// platform entry. Key is set only on entries this engine minted itself.
type Location struct {
	Pathname string
	Search   string
	Hash     string
	State    any
	Key      string
}

// Path renders the location back into a composite path, without basename.
func (l Location) Path() string {
	return CreatePath(l)
}

// ParsePath splits a composite path into pathname, search and hash parts.
// The hash starts at the first "#" and runs to the end, so a "?" after the
// "#" belongs to the hash, not the search. A lone "?" or "#" counts as
// absent, and an empty path normalizes to "/".
func ParsePath(path string) Location {
	pathname := path
	if pathname == "" {
		pathname = "/"
	}
	var search, hash string

	if i := strings.Index(pathname, "#"); i != -1 {
		hash = pathname[i:]
		pathname = pathname[:i]
	}
	if i := strings.Index(pathname, "?"); i != -1 {
		search = pathname[i:]
		pathname = pathname[:i]
	}

	if search == "?" {
		search = ""
	}
	if hash == "#" {
		hash = ""
	}

	return Location{Pathname: pathname, Search: search, Hash: hash}
}

// CreatePath is the inverse of ParsePath: pathname, then search, then hash,
// inserting the "?" and "#" prefixes when the caller left them off. An empty
// pathname renders as "/".
func CreatePath(loc Location) string {
	path := loc.Pathname
	if path == "" {
		path = "/"
	}
	if loc.Search != "" && loc.Search != "?" {
		if loc.Search[0] == '?' {
			path += loc.Search
		} else {
			path += "?" + loc.Search
		}
	}
	if loc.Hash != "" && loc.Hash != "#" {
		if loc.Hash[0] == '#' {
			path += loc.Hash
		} else {
			path += "#" + loc.Hash
		}
	}
	return path
}

// hasBasename reports whether path begins with the prefix at a path
// boundary. The match is case-insensitive and the prefix must be followed
// by "/", "?", "#" or the end of the string, so "/newsletter" does not
// match basename "/news".
func hasBasename(path, prefix string) bool {
	if len(path) < len(prefix) {
		return false
	}
	if !strings.EqualFold(path[:len(prefix)], prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?' || rest[0] == '#'
}

// stripBasename removes the prefix from path when it is present at a path
// boundary, and returns path untouched otherwise.
func stripBasename(path, prefix string) string {
	if prefix == "" || !hasBasename(path, prefix) {
		return path
	}
	return path[len(prefix):]
}
