package core

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jo-hoe/folio/internal/bundle"
	"github.com/jo-hoe/folio/internal/pages"
)

// CoreService wires the bundle catalog and the page-scan library behind one
// surface for the frontend.
type CoreService struct {
	config  *ServiceConfig
	catalog bundle.Catalog
	library *pages.Library
}

func NewCoreService(config *ServiceConfig) *CoreService {
	for _, dir := range []string{config.DataDir, config.ImagesDir} {
		if _, err := os.Stat(dir); err != nil {
			slog.Warn("content directory not readable at startup", "dir", dir, "error", err)
		}
	}

	var catalog bundle.Catalog = bundle.NewStore(config.DataDir)
	if config.Cache.Enabled {
		ttl := time.Duration(config.Cache.TTLSeconds) * time.Second
		catalog = bundle.NewCache(catalog, config.Cache.Addr, ttl)
		slog.Info("bundle cache enabled", "addr", config.Cache.Addr, "ttl", ttl)
	}

	return &CoreService{
		config:  config,
		catalog: catalog,
		library: pages.NewLibrary(config.ImagesDir),
	}
}

func (service *CoreService) Docs(ctx context.Context) ([]bundle.Doc, error) {
	return service.catalog.List(ctx)
}

func (service *CoreService) Bundle(ctx context.Context, docID string) (*bundle.Bundle, error) {
	return service.catalog.Get(ctx, docID)
}

func (service *CoreService) RawBundle(ctx context.Context, docID string) ([]byte, error) {
	return service.catalog.Raw(ctx, docID)
}

func (service *CoreService) PageSources() ([]pages.Source, error) {
	return service.library.Sources()
}

func (service *CoreService) ResolvePage(page int) (pages.Source, error) {
	return service.library.Resolve(page)
}

func (service *CoreService) Thumbnail(page int) ([]byte, error) {
	return service.library.Thumbnail(page, service.config.ThumbnailWidth)
}

func (service *CoreService) Close() error {
	return service.catalog.Close()
}
