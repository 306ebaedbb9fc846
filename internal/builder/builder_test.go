package builder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/folio/internal/bundle"
)

func newImagesDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644); err != nil {
			t.Fatalf("failed to write scan %s: %v", name, err)
		}
	}
	return dir
}

func TestUnannotatedScans(t *testing.T) {
	dir := newImagesDir(t,
		"unannotated_page_2.png",
		"unannotated_page_1.jpg",
		"annotated_page_1.png",
		"notes.txt",
	)

	scans, err := UnannotatedScans(dir)
	if err != nil {
		t.Fatalf("UnannotatedScans error: %v", err)
	}
	want := []string{"unannotated_page_1.jpg", "unannotated_page_2.png"}
	if len(scans) != len(want) {
		t.Fatalf("expected %d scans, got %v", len(want), scans)
	}
	for i := range want {
		if scans[i] != want[i] {
			t.Errorf("scans[%d] = %q, want %q", i, scans[i], want[i])
		}
	}
}

func TestAlign_PageUnionAndAIDs(t *testing.T) {
	imagesDir := newImagesDir(t, "unannotated_page_1.png", "unannotated_page_2.png")
	viByPage := map[int]string{1: "trang một", 3: "trang ba"}
	enByPage := map[int]string{2: "page two"}

	b, err := Align("xuan-thu", imagesDir, viByPage, enByPage, "")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}

	if b.DocID != "xuan-thu" {
		t.Errorf("unexpected doc id %q", b.DocID)
	}
	if b.Title != "Xuan Thu" {
		t.Errorf("expected titleized fallback, got %q", b.Title)
	}
	if len(b.Pages) != 2 {
		t.Fatalf("expected 2 page refs, got %d", len(b.Pages))
	}
	if b.Pages[0].Image != "/images/unannotated_page_1.png" {
		t.Errorf("unexpected page image %q", b.Pages[0].Image)
	}

	if len(b.Sections) != 1 || b.Sections[0].SID != "s1" {
		t.Fatalf("expected single section s1, got %+v", b.Sections)
	}
	spans := b.Sections[0].Spans
	if len(spans) != 3 {
		t.Fatalf("expected spans for pages 1,2,3, got %d", len(spans))
	}
	wantAIDs := []string{"xuan-thu:pg:1", "xuan-thu:pg:2", "xuan-thu:pg:3"}
	for i, want := range wantAIDs {
		if spans[i].AID != want {
			t.Errorf("spans[%d].AID = %q, want %q", i, spans[i].AID, want)
		}
	}
	if spans[0].VI != "trang một" || spans[0].EN != "" {
		t.Errorf("unexpected span 0 text %+v", spans[0])
	}
	if spans[1].VI != "" || spans[1].EN != "page two" {
		t.Errorf("unexpected span 1 text %+v", spans[1])
	}
}

func TestAlign_NoTextFallsBackToScannedPages(t *testing.T) {
	imagesDir := newImagesDir(t, "unannotated_page_4.png")

	b, err := Align("doc", imagesDir, nil, nil, "Some Title")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	spans := b.Sections[0].Spans
	if len(spans) != 1 || spans[0].Page != 4 {
		t.Fatalf("expected empty span for scanned page 4, got %+v", spans)
	}
	if b.Title != "Some Title" {
		t.Errorf("expected explicit fallback title, got %q", b.Title)
	}
}

func TestValidate(t *testing.T) {
	imagesDir := newImagesDir(t, "unannotated_page_1.png")
	b := &bundle.Bundle{
		DocID: "doc",
		Title: "Doc",
		Sections: []bundle.Section{{
			SID: "s1",
			Spans: []bundle.Span{
				{AID: "doc:pg:1", Page: 1, VI: "vi", EN: "en"},
				{AID: "doc:pg:1", Page: 1, VI: "vi", EN: "en"},
				{AID: "doc:pg:2", Page: 2, VI: "", EN: "only english"},
			},
		}},
	}

	issues := Validate(b, imagesDir)

	byCode := map[string]int{}
	for _, issue := range issues {
		byCode[issue.Code]++
	}
	if byCode["DUP_AID"] != 1 {
		t.Errorf("expected 1 DUP_AID error, got %d", byCode["DUP_AID"])
	}
	if byCode["MISSING_IMAGE"] != 1 {
		t.Errorf("expected 1 MISSING_IMAGE warn (page 2), got %d", byCode["MISSING_IMAGE"])
	}
	if byCode["EMPTY_VI"] != 1 {
		t.Errorf("expected 1 EMPTY_VI warn, got %d", byCode["EMPTY_VI"])
	}
	if byCode["VI_MISSING_ON_PAGE"] != 1 {
		t.Errorf("expected 1 VI_MISSING_ON_PAGE info, got %d", byCode["VI_MISSING_ON_PAGE"])
	}
	if !HasErrors(issues) {
		t.Error("expected HasErrors to report the DUP_AID error")
	}
}

func TestValidate_CleanBundle(t *testing.T) {
	imagesDir := newImagesDir(t, "unannotated_page_1.png")
	b := &bundle.Bundle{
		DocID: "doc",
		Sections: []bundle.Section{{
			SID:   "s1",
			Spans: []bundle.Span{{AID: "doc:pg:1", Page: 1, VI: "vi", EN: "en"}},
		}},
	}

	if issues := Validate(b, imagesDir); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func newJournalDir(t *testing.T) string {
	t.Helper()
	journalDir := filepath.Join(t.TempDir(), "xuan-thu")
	imagesDir := filepath.Join(journalDir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		t.Fatalf("failed to create journal dir: %v", err)
	}
	writeFile(t, journalDir, "full_cleaned_xuan-thu.xml", `<document>
Trang một.
<pagebreak page='2'/>
Trang hai.
</document>`)
	writeFile(t, journalDir, "translation_xuan-thu.xml", `<translation>
  <section>
    <title>The Spring and Autumn Review</title>
    <page page="1"><p>Page one.</p></page>
    <page page="2"><p>Page two.</p></page>
  </section>
</translation>`)
	if err := os.WriteFile(filepath.Join(imagesDir, "unannotated_page_1.png"), []byte("img"), 0644); err != nil {
		t.Fatalf("failed to write scan: %v", err)
	}
	if err := os.WriteFile(filepath.Join(imagesDir, "unannotated_page_2.png"), []byte("img"), 0644); err != nil {
		t.Fatalf("failed to write scan: %v", err)
	}
	return journalDir
}

func TestBuildJournal(t *testing.T) {
	journalDir := newJournalDir(t)
	outDir := t.TempDir()

	b, issues, err := BuildJournal(journalDir, outDir)
	if err != nil {
		t.Fatalf("BuildJournal error: %v", err)
	}
	if b.DocID != "xuan-thu" {
		t.Errorf("unexpected doc id %q", b.DocID)
	}
	if b.Title != "The Spring and Autumn Review" {
		t.Errorf("unexpected title %q", b.Title)
	}
	if HasErrors(issues) {
		t.Errorf("expected no ERROR issues, got %v", issues)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "xuan-thu.json"))
	if err != nil {
		t.Fatalf("failed to read written bundle: %v", err)
	}
	var written bundle.Bundle
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("written bundle is not valid JSON: %v", err)
	}
	if written.DocID != "xuan-thu" || len(written.Sections) != 1 {
		t.Errorf("unexpected written bundle %+v", written)
	}
	if len(written.Sections[0].Spans) != 2 {
		t.Errorf("expected 2 spans, got %d", len(written.Sections[0].Spans))
	}
}

func TestFindInputs_MissingPieces(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		if _, err := FindInputs(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
	t.Run("missing OCR", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "translation_x.xml", "<translation/>")
		if _, err := FindInputs(dir); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
	t.Run("missing images", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "full_cleaned_x.xml", "<document/>")
		writeFile(t, dir, "translation_x.xml", "<translation/>")
		if _, err := FindInputs(dir); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
