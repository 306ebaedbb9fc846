package pages

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test PNG: %v", err)
	}
}

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "unannotated_page_1.png"), 40, 60)
	writePNG(t, filepath.Join(dir, "unannotated_page_2.png"), 40, 60)
	writePNG(t, filepath.Join(dir, "unannotated_page_10.png"), 40, 60)
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a scan"), 0644); err != nil {
		t.Fatalf("failed to write decoy file: %v", err)
	}
	return NewLibrary(dir)
}

func TestLibrary_Sources(t *testing.T) {
	library := newTestLibrary(t)

	sources, err := library.Sources()
	if err != nil {
		t.Fatalf("Sources error: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	// filename order: _1, _10, _2; page numbers come from the digits
	wantPages := []int{1, 10, 2}
	for i, want := range wantPages {
		if sources[i].Page != want {
			t.Errorf("sources[%d].Page = %d, want %d", i, sources[i].Page, want)
		}
	}
	if sources[0].Src != "/images/unannotated_page_1.png" {
		t.Errorf("unexpected src %q", sources[0].Src)
	}
}

func TestLibrary_Sources_NoDigitsFallsBackToPosition(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "cover.png"), 10, 10)
	library := NewLibrary(dir)

	sources, err := library.Sources()
	if err != nil {
		t.Fatalf("Sources error: %v", err)
	}
	if len(sources) != 1 || sources[0].Page != 1 {
		t.Fatalf("expected digitless scan to take position 1, got %+v", sources)
	}
}

func TestLibrary_Resolve(t *testing.T) {
	library := newTestLibrary(t)

	src, err := library.Resolve(2)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if src.Page != 2 || src.Src != "/images/unannotated_page_2.png" {
		t.Errorf("unexpected source %+v", src)
	}
}

func TestLibrary_Resolve_UnknownFallsBackToFirst(t *testing.T) {
	library := newTestLibrary(t)

	src, err := library.Resolve(99)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if src.Page != 1 {
		t.Errorf("expected fallback to first scan, got page %d", src.Page)
	}
}

func TestLibrary_Resolve_EmptyDirectory(t *testing.T) {
	library := NewLibrary(t.TempDir())

	src, err := library.Resolve(1)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if src.Page != 1 || src.Src != "" {
		t.Errorf("expected {1, \"\"} for empty library, got %+v", src)
	}
}

func TestLibrary_Thumbnail(t *testing.T) {
	library := newTestLibrary(t)

	data, err := library.Thumbnail(1, 20)
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode thumbnail: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 20 {
		t.Errorf("expected thumbnail width 20, got %d", bounds.Dx())
	}
	// 40x60 source scaled to width 20 keeps the 2:3 aspect ratio
	if bounds.Dy() != 30 {
		t.Errorf("expected thumbnail height 30, got %d", bounds.Dy())
	}
}

func TestLibrary_Thumbnail_InvalidWidth(t *testing.T) {
	library := newTestLibrary(t)

	if _, err := library.Thumbnail(1, 0); err == nil {
		t.Fatal("expected error for zero width, got nil")
	}
}

func TestLibrary_Thumbnail_EmptyLibrary(t *testing.T) {
	library := NewLibrary(t.TempDir())

	if _, err := library.Thumbnail(1, 20); err == nil {
		t.Fatal("expected error when no scans exist, got nil")
	}
}
