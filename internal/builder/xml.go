package builder

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Titles shorter than this are assumed to be running heads or numbering, not
// the document title.
const minTitleLength = 13

// ParseOCR parses an OCR XML file in the pagebreak dialect: text chunks in
// document order, with `<pagebreak page='N'/>` markers switching the current
// page. Text is kept verbatim per page, newlines and blank lines included.
func ParseOCR(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCR XML %s: %w", path, err)
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	currentPage := 1
	buckets := map[int][]string{}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse OCR XML %s: %w", path, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if strings.EqualFold(t.Name.Local, "pagebreak") {
				for _, attr := range t.Attr {
					if strings.EqualFold(attr.Name.Local, "page") {
						if num := firstNumber(attr.Value); num > 0 {
							currentPage = num
						}
					}
				}
			}
		case xml.CharData:
			text := string(t)
			if strings.TrimSpace(text) != "" {
				buckets[currentPage] = append(buckets[currentPage], text)
			}
		}
	}

	byPage := make(map[int]string, len(buckets))
	for page, chunks := range buckets {
		byPage[page] = strings.Join(chunks, "\n")
	}
	return byPage, nil
}

type translationPage struct {
	Page       string   `xml:"page,attr"`
	Paragraphs []string `xml:"p"`
	Text       string   `xml:",chardata"`
}

type translationSection struct {
	Title      string            `xml:"title"`
	Pages      []translationPage `xml:"page"`
	Paragraphs []string          `xml:"p"`
}

// ParseTranslation parses a translation XML file in the sectioned dialect and
// aggregates text per page across sections. The second return value is the
// detected document title: the first section title long enough to be a real
// title rather than a running head.
func ParseTranslation(path string) (map[int]string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open translation XML %s: %w", path, err)
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	var sections []translationSection
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse translation XML %s: %w", path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || !strings.EqualFold(start.Name.Local, "section") {
			continue
		}
		var sec translationSection
		if err := decoder.DecodeElement(&sec, &start); err != nil {
			return nil, "", fmt.Errorf("failed to decode section in %s: %w", path, err)
		}
		sections = append(sections, sec)
	}

	docTitle := ""
	buckets := map[int][]string{}
	for _, sec := range sections {
		title := norm(sec.Title)
		if docTitle == "" && utf8.RuneCountInString(title) >= minTitleLength {
			docTitle = title
		}
		for _, page := range sec.Pages {
			pageNum := firstNumber(page.Page)
			if pageNum == 0 {
				pageNum = 1
			}
			if parts := normNonEmpty(page.Paragraphs); len(parts) > 0 {
				buckets[pageNum] = append(buckets[pageNum], strings.Join(parts, "\n\n"))
			} else if text := norm(page.Text); text != "" {
				buckets[pageNum] = append(buckets[pageNum], text)
			}
		}
	}

	// Some translations place <p> directly under <section> with no page
	// markers at all; aggregate those onto page 1, deduplicated.
	if len(buckets) == 0 {
		for _, sec := range sections {
			parts := normNonEmpty(sec.Paragraphs)
			if len(parts) == 0 {
				continue
			}
			blob := strings.Join(parts, "\n\n")
			duplicate := false
			for _, existing := range buckets[1] {
				if existing == blob {
					duplicate = true
					break
				}
			}
			if !duplicate {
				buckets[1] = append(buckets[1], blob)
			}
		}
	}

	byPage := make(map[int]string, len(buckets))
	for page, chunks := range buckets {
		byPage[page] = strings.Join(chunks, "\n\n")
	}
	return byPage, docTitle, nil
}

func normNonEmpty(raw []string) []string {
	var parts []string
	for _, s := range raw {
		if text := norm(s); text != "" {
			parts = append(parts, text)
		}
	}
	return parts
}
