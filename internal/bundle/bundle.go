package bundle

import (
	"encoding/json"
	"fmt"
)

// PageRef links a physical page number to its scan image URL.
type PageRef struct {
	Page  int    `json:"page"`
	Image string `json:"image"`
}

// Span is one aligned unit of parallel text, scoped to a single page.
type Span struct {
	AID  string `json:"aid"`
	Page int    `json:"page"`
	VI   string `json:"vi"`
	EN   string `json:"en"`
}

// Section groups spans under a bilingual title.
type Section struct {
	SID     string `json:"sid"`
	TitleVI string `json:"title_vi"`
	TitleEN string `json:"title_en"`
	Spans   []Span `json:"spans"`
}

// Bundle is the pre-generated metadata artifact for one document. Bundles are
// produced out-of-band and treated as immutable by the viewer.
type Bundle struct {
	DocID    string    `json:"doc_id"`
	Title    string    `json:"title"`
	Pages    []PageRef `json:"pages"`
	Sections []Section `json:"sections"`
}

// Decode parses a bundle JSON artifact.
func Decode(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	if b.DocID == "" {
		return nil, fmt.Errorf("bundle has empty doc_id")
	}
	return &b, nil
}

// AllSpans flattens the spans of every section in document order.
func (b *Bundle) AllSpans() []Span {
	var spans []Span
	for _, sec := range b.Sections {
		spans = append(spans, sec.Spans...)
	}
	return spans
}

// FirstPage returns the number of the first listed page, or 1 when the
// bundle lists no pages.
func (b *Bundle) FirstPage() int {
	if len(b.Pages) == 0 {
		return 1
	}
	return b.Pages[0].Page
}
