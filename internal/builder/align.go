package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jo-hoe/folio/internal/bundle"
)

var scanExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// UnannotatedScans lists the scan filenames usable as page images: common
// image extensions with "unannotated_page" in the name (case-insensitive),
// sorted by filename.
func UnannotatedScans(imagesDir string) ([]string, error) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory %s: %w", imagesDir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !scanExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if strings.Contains(strings.ToLower(name), "unannotated_page") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Align builds a bundle from page-keyed text streams: one span per page,
// text preserved verbatim, aids stable and page-scoped ({doc}:pg:{n}). A
// single section keeps the contract simple until finer alignment exists.
func Align(docID, imagesDir string, viByPage, enByPage map[int]string, fallbackTitle string) (*bundle.Bundle, error) {
	scans, err := UnannotatedScans(imagesDir)
	if err != nil {
		return nil, err
	}

	pages := make([]bundle.PageRef, 0, len(scans))
	for _, name := range scans {
		num := firstNumber(strings.TrimSuffix(name, filepath.Ext(name)))
		if num == 0 {
			num = firstNumber(name)
		}
		if num == 0 {
			num = len(pages) + 1
		}
		pages = append(pages, bundle.PageRef{Page: num, Image: "/images/" + name})
	}

	// Spans cover the union of pages seen in either text stream; with no
	// text at all, the scanned pages still get empty spans for navigation.
	pageSet := map[int]bool{}
	for page := range viByPage {
		pageSet[page] = true
	}
	for page := range enByPage {
		pageSet[page] = true
	}
	if len(pageSet) == 0 {
		for _, ref := range pages {
			pageSet[ref.Page] = true
		}
	}
	orderedPages := make([]int, 0, len(pageSet))
	for page := range pageSet {
		orderedPages = append(orderedPages, page)
	}
	sort.Ints(orderedPages)

	spans := make([]bundle.Span, 0, len(orderedPages))
	for _, page := range orderedPages {
		spans = append(spans, bundle.Span{
			AID:  fmt.Sprintf("%s:pg:%d", docID, page),
			Page: page,
			VI:   viByPage[page],
			EN:   enByPage[page],
		})
	}

	title := fallbackTitle
	if title == "" {
		title = titleize(docID)
	}
	return &bundle.Bundle{
		DocID: docID,
		Title: title,
		Pages: pages,
		Sections: []bundle.Section{
			{SID: "s1", TitleVI: "", TitleEN: "", Spans: spans},
		},
	}, nil
}
