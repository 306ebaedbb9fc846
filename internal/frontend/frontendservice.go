package frontend

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/jo-hoe/folio/internal/bundle"
	"github.com/jo-hoe/folio/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	mimePNG = "image/png"
	mimeSVG = "image/svg+xml"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig

	faviconOnce sync.Once
	favicon     []byte
	faviconErr  error
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(assetsFS, viewsPattern)),
	}

	e.GET("/", service.indexHandler)
	e.GET("/doc/:id", service.docHandler)

	// JSON API: bundle pass-through and page resolution
	e.GET("/api/docs", service.apiDocsHandler)
	e.GET("/api/doc/:id", service.apiDocHandler)
	e.GET("/page-src/:page", service.pageSrcHandler)
	e.GET("/thumb/:page", service.thumbHandler)

	// Static assets: page scans from disk, viewer assets from the binary
	e.Static("/images", service.config.ImagesDir)
	e.StaticFS("/static", echo.MustSubFS(assetsFS, "views/static"))

	e.GET("/icon.svg", service.iconHandler)
	e.GET("/favicon.png", service.faviconHandler)
	e.GET("/probe", service.probeHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	docs, err := service.coreService.Docs(ctx.Request().Context())
	if err != nil {
		slog.Error("indexHandler: failed to list documents",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list documents")
	}
	return ctx.Render(http.StatusOK, "index.html", echo.Map{"Docs": docs})
}

func (service *FrontendService) docHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	b, err := service.coreService.Bundle(ctx.Request().Context(), id)
	if errors.Is(err, bundle.ErrNotFound) {
		// Unknown ids fall back to an empty index rather than a bare 404.
		slog.Warn("docHandler: unknown document", "doc_id", id)
		return ctx.Render(http.StatusOK, "index.html", echo.Map{"Docs": []bundle.Doc{}})
	}
	if err != nil {
		slog.Error("docHandler: failed to load bundle",
			"status", http.StatusInternalServerError, "doc_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load document")
	}

	return ctx.Render(http.StatusOK, "doc.html", echo.Map{
		"Bundle":    b,
		"Spans":     b.AllSpans(),
		"FirstPage": b.FirstPage(),
	})
}

func (service *FrontendService) apiDocsHandler(ctx echo.Context) error {
	docs, err := service.coreService.Docs(ctx.Request().Context())
	if err != nil {
		slog.Error("apiDocsHandler: failed to list documents",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list documents"})
	}
	return ctx.JSON(http.StatusOK, docs)
}

// apiDocHandler serves the bundle file bytes untouched. The route parameter
// carries a .json suffix (/api/doc/{id}.json) which is not part of the id.
func (service *FrontendService) apiDocHandler(ctx echo.Context) error {
	id := strings.TrimSuffix(ctx.Param("id"), ".json")
	raw, err := service.coreService.RawBundle(ctx.Request().Context(), id)
	if errors.Is(err, bundle.ErrNotFound) {
		return ctx.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if err != nil {
		slog.Error("apiDocHandler: failed to read bundle",
			"status", http.StatusInternalServerError, "doc_id", id, "error", err)
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read bundle"})
	}
	return ctx.JSONBlob(http.StatusOK, raw)
}

func (service *FrontendService) pageSrcHandler(ctx echo.Context) error {
	page, err := strconv.Atoi(ctx.Param("page"))
	if err != nil {
		slog.Warn("pageSrcHandler: invalid page number",
			"status", http.StatusBadRequest, "page", ctx.Param("page"))
		return ctx.String(http.StatusBadRequest, "Invalid page number")
	}
	src, err := service.coreService.ResolvePage(page)
	if err != nil {
		slog.Error("pageSrcHandler: failed to resolve page",
			"status", http.StatusInternalServerError, "page", page, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to resolve page")
	}
	return ctx.JSON(http.StatusOK, src)
}

func (service *FrontendService) thumbHandler(ctx echo.Context) error {
	page, err := strconv.Atoi(ctx.Param("page"))
	if err != nil {
		slog.Warn("thumbHandler: invalid page number",
			"status", http.StatusBadRequest, "page", ctx.Param("page"))
		return ctx.String(http.StatusBadRequest, "Invalid page number")
	}
	thumbnail, err := service.coreService.Thumbnail(page)
	if err != nil {
		slog.Warn("thumbHandler: thumbnail not available",
			"status", http.StatusNotFound, "page", page, "error", err)
		return ctx.String(http.StatusNotFound, "Thumbnail not available")
	}
	// Scans are immutable, so thumbnails can be cached for a while.
	ctx.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimeSVG, data)
}

func (service *FrontendService) faviconHandler(ctx echo.Context) error {
	service.faviconOnce.Do(func() {
		data, err := assetsFS.ReadFile("views/icon.svg")
		if err != nil {
			service.faviconErr = err
			return
		}
		service.favicon, service.faviconErr = renderSVGToPNG(data, faviconSize, faviconSize)
	})
	if service.faviconErr != nil {
		slog.Error("faviconHandler: failed to rasterize icon",
			"status", http.StatusInternalServerError, "error", service.faviconErr)
		return ctx.String(http.StatusInternalServerError, "Failed to load favicon")
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimePNG, service.favicon)
}

func (service *FrontendService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "ok")
}
