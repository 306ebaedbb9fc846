package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no bundle carries the requested doc id.
var ErrNotFound = errors.New("bundle not found")

// Doc is the listing entry for one document.
type Doc struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Catalog is the read surface the viewer consumes. The filesystem store
// implements it directly; the Redis cache wraps another Catalog.
type Catalog interface {
	// List returns one entry per bundle, in bundle filename order.
	List(ctx context.Context) ([]Doc, error)
	// Get returns the decoded bundle for the given doc id.
	Get(ctx context.Context, docID string) (*Bundle, error)
	// Raw returns the bundle file bytes untouched, for pass-through serving.
	Raw(ctx context.Context, docID string) ([]byte, error)
	Close() error
}

// Store reads bundle artifacts from a directory. The directory is re-scanned
// on every call so newly dropped bundles appear without a restart.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) List(ctx context.Context) ([]Doc, error) {
	docs := []Doc{}
	err := s.walk(func(path string, b *Bundle) bool {
		title := b.Title
		if title == "" {
			title = b.DocID
		}
		docs = append(docs, Doc{ID: b.DocID, Title: title})
		return true
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) Get(ctx context.Context, docID string) (*Bundle, error) {
	var found *Bundle
	err := s.walk(func(path string, b *Bundle) bool {
		if b.DocID == docID {
			found = b
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (s *Store) Raw(ctx context.Context, docID string) ([]byte, error) {
	var raw []byte
	err := s.walk(func(path string, b *Bundle) bool {
		if b.DocID != docID {
			return true
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			slog.Error("failed to re-read bundle file", "path", path, "error", readErr)
			return true
		}
		raw = data
		return false
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (s *Store) Close() error {
	return nil
}

// walk visits every decodable bundle in filename order until the callback
// returns false. Undecodable files are logged and skipped so one broken
// artifact does not take the whole viewer down.
func (s *Store) walk(visit func(path string, b *Bundle) bool) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read bundle directory %s: %w", s.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read bundle file", "path", path, "error", err)
			continue
		}
		b, err := Decode(data)
		if err != nil {
			slog.Warn("skipping undecodable bundle file", "path", path, "error", err)
			continue
		}
		if !visit(path, b) {
			return nil
		}
	}
	return nil
}
