package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jo-hoe/folio/internal/bundle"
)

const (
	LevelError = "ERROR"
	LevelWarn  = "WARN"
	LevelInfo  = "INFO"
)

// Issue is one finding from bundle validation.
type Issue struct {
	Level   string
	Code    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Level, i.Code, i.Message)
}

// HasErrors reports whether any issue is ERROR level.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Level == LevelError {
			return true
		}
	}
	return false
}

// Validate checks a built bundle against its images directory: duplicate
// aids are errors; pages without a matching scan and empty text sides are
// warnings; a page with only one language populated is informational.
func Validate(b *bundle.Bundle, imagesDir string) []Issue {
	var issues []Issue

	seen := map[string]bool{}
	for _, sec := range b.Sections {
		for _, span := range sec.Spans {
			if seen[span.AID] {
				issues = append(issues, Issue{LevelError, "DUP_AID", fmt.Sprintf("Duplicate aid: %s", span.AID)})
			}
			seen[span.AID] = true
		}
	}

	imagePages := indexScanPages(imagesDir)
	referenced := map[int]bool{}
	for _, sec := range b.Sections {
		for _, span := range sec.Spans {
			referenced[span.Page] = true
		}
	}
	for _, page := range sortedPages(referenced) {
		if !imagePages[page] {
			issues = append(issues, Issue{LevelWarn, "MISSING_IMAGE", fmt.Sprintf("No image found for page %d", page)})
		}
	}

	for _, sec := range b.Sections {
		for _, span := range sec.Spans {
			viEmpty := strings.TrimSpace(span.VI) == ""
			enEmpty := strings.TrimSpace(span.EN) == ""
			if viEmpty {
				issues = append(issues, Issue{LevelWarn, "EMPTY_VI", fmt.Sprintf("%s has empty Vietnamese text", span.AID)})
			}
			if enEmpty {
				issues = append(issues, Issue{LevelWarn, "EMPTY_EN", fmt.Sprintf("%s has empty English text", span.AID)})
			}
			if viEmpty && !enEmpty {
				issues = append(issues, Issue{LevelInfo, "VI_MISSING_ON_PAGE", fmt.Sprintf("VI empty on page %d", span.Page)})
			}
			if !viEmpty && enEmpty {
				issues = append(issues, Issue{LevelInfo, "EN_MISSING_ON_PAGE", fmt.Sprintf("EN empty on page %d", span.Page)})
			}
		}
	}

	return issues
}

// indexScanPages maps page numbers to scan availability, best-effort: any
// image file whose name contains the page number counts.
func indexScanPages(imagesDir string) map[int]bool {
	pages := map[int]bool{}
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return pages
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !scanExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		num := firstNumber(strings.TrimSuffix(name, filepath.Ext(name)))
		if num == 0 {
			num = firstNumber(name)
		}
		if num > 0 {
			pages[num] = true
		}
	}
	return pages
}

func sortedPages(set map[int]bool) []int {
	pages := make([]int, 0, len(set))
	for page := range set {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}
