package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source resolves a page number to the URL its scan is served under.
type Source struct {
	Page int    `json:"page"`
	Src  string `json:"src"`
}

// Library lists the page-scan images of a document collection. Page numbers
// derive from the digits in the filename stem (e.g. angv_p001.jpg -> 1); a
// stem without digits falls back to its position in the sorted listing.
type Library struct {
	dir string
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

var scanExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Sources returns one entry per scan image, in filename order.
func (l *Library) Sources() ([]Source, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory %s: %w", l.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if scanExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	sources := make([]Source, 0, len(names))
	for i, name := range names {
		num := extractDigits(stem(name))
		if num == 0 {
			num = i + 1
		}
		sources = append(sources, Source{Page: num, Src: "/images/" + name})
	}
	return sources, nil
}

// Resolve maps a page number to its scan source. An unknown page falls back
// to the first scan; an empty library yields {1, ""} so the viewer always
// receives a usable shape.
func (l *Library) Resolve(page int) (Source, error) {
	sources, err := l.Sources()
	if err != nil {
		return Source{}, err
	}
	for _, src := range sources {
		if src.Page == page {
			return src, nil
		}
	}
	if len(sources) > 0 {
		return sources[0], nil
	}
	return Source{Page: 1, Src: ""}, nil
}

// Path returns the filesystem path of the scan for the given page.
func (l *Library) Path(page int) (string, error) {
	src, err := l.Resolve(page)
	if err != nil {
		return "", err
	}
	if src.Src == "" {
		return "", fmt.Errorf("no scan available for page %d", page)
	}
	return filepath.Join(l.dir, filepath.Base(src.Src)), nil
}

// stem strips the extension from a filename.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// extractDigits concatenates all digit runs in s into one number, matching
// how page numbers are recovered from scan filenames. Returns 0 when s
// contains no digits.
func extractDigits(s string) int {
	num := 0
	found := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			num = num*10 + int(r-'0')
			found = true
		}
	}
	if !found {
		return 0
	}
	return num
}
