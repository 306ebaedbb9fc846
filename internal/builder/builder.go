package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jo-hoe/folio/internal/bundle"
)

// Inputs are the discovered source files of one journal directory.
type Inputs struct {
	OCRPath         string
	TranslationPath string
	ImagesDir       string
}

// FindInputs discovers the expected inputs in a journal directory:
// full_cleaned_*.xml (Vietnamese OCR), translation_*.xml (English
// translation) and an images/ subdirectory of page scans.
func FindInputs(journalDir string) (Inputs, error) {
	if _, err := os.Stat(journalDir); err != nil {
		return Inputs{}, fmt.Errorf("journal directory %s not found: %w", journalDir, err)
	}

	ocrMatches, err := filepath.Glob(filepath.Join(journalDir, "full_cleaned_*.xml"))
	if err != nil || len(ocrMatches) == 0 {
		return Inputs{}, fmt.Errorf("vietnamese OCR XML not found in %s (expected full_cleaned_*.xml)", journalDir)
	}
	translationMatches, err := filepath.Glob(filepath.Join(journalDir, "translation_*.xml"))
	if err != nil || len(translationMatches) == 0 {
		return Inputs{}, fmt.Errorf("english translation XML not found in %s (expected translation_*.xml)", journalDir)
	}
	imagesDir := filepath.Join(journalDir, "images")
	if info, err := os.Stat(imagesDir); err != nil || !info.IsDir() {
		return Inputs{}, fmt.Errorf("images directory not found in %s", journalDir)
	}

	return Inputs{
		OCRPath:         ocrMatches[0],
		TranslationPath: translationMatches[0],
		ImagesDir:       imagesDir,
	}, nil
}

// WriteBundle writes the bundle as indented JSON, creating parent
// directories as needed.
func WriteBundle(b *bundle.Bundle, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", outPath, err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle %s: %w", b.DocID, err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bundle %s: %w", outPath, err)
	}
	return nil
}

// BuildJournal builds and writes the bundle for one journal directory. The
// doc id is the directory name. Validation issues are returned alongside the
// bundle; the bundle is written even when issues were found.
func BuildJournal(journalDir, outDir string) (*bundle.Bundle, []Issue, error) {
	inputs, err := FindInputs(journalDir)
	if err != nil {
		return nil, nil, err
	}

	docID := filepath.Base(filepath.Clean(journalDir))

	viByPage, err := ParseOCR(inputs.OCRPath)
	if err != nil {
		return nil, nil, err
	}
	enByPage, docTitle, err := ParseTranslation(inputs.TranslationPath)
	if err != nil {
		return nil, nil, err
	}

	fallbackTitle := docTitle
	if fallbackTitle == "" {
		fallbackTitle = titleize(docID)
	}
	b, err := Align(docID, inputs.ImagesDir, viByPage, enByPage, fallbackTitle)
	if err != nil {
		return nil, nil, err
	}

	issues := Validate(b, inputs.ImagesDir)

	outPath := filepath.Join(outDir, docID+".json")
	if err := WriteBundle(b, outPath); err != nil {
		return nil, issues, err
	}
	return b, issues, nil
}
