package visualtest

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"tessera/pkg/browser"
	"tessera/pkg/html"
	"tessera/pkg/images"
)

// RenderHTMLToFile renders HTML content to a PNG file
func RenderHTMLToFile(htmlContent string, outputPath string, width, height int) error {
	return RenderHTMLToFileWithBase(htmlContent, outputPath, width, height, "")
}

// RenderHTMLToFileWithBase renders HTML content to a PNG file with a base
// path for resolving relative image URLs. It drives the full pipeline
// (render tree, layout, layers, tiles, paint, rasterize, composite) through
// a one-shot browser.State rather than the old direct layout.Engine +
// render.Renderer pair, so the visual-regression suite exercises the same
// code path the frame driver does.
func RenderHTMLToFileWithBase(htmlContent string, outputPath string, width, height int, basePath string) error {
	doc, err := html.Parse(htmlContent)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	var opts []browser.Option
	if basePath != "" {
		opts = append(opts, browser.WithImageFetcher(createFileImageFetcher(basePath)))
	}

	state := browser.New(doc, float64(width), float64(height), opts...)
	img := state.Redraw()
	if img == nil {
		return fmt.Errorf("render error: redraw produced no image")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("save error: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("save error: %w", err)
	}
	return nil
}

// createFileImageFetcher creates an ImageFetcher that loads images from the filesystem
// relative to the given base path
func createFileImageFetcher(basePath string) images.ImageFetcher {
	return func(uri string) ([]byte, error) {
		// Skip data URIs and absolute URLs
		if strings.HasPrefix(uri, "data:") || strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
			return nil, fmt.Errorf("unsupported URI scheme: %s", uri)
		}

		// Resolve relative path against base path
		imagePath := filepath.Join(basePath, uri)
		return os.ReadFile(imagePath)
	}
}

// RenderHTMLFile renders an HTML file to a PNG file
func RenderHTMLFile(htmlPath, outputPath string, width, height int) error {
	htmlContent, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to read HTML file: %w", err)
	}

	return RenderHTMLToFile(string(htmlContent), outputPath, width, height)
}

// UpdateReferenceImage generates a new reference image
// Use this when you've intentionally changed rendering behavior
func UpdateReferenceImage(htmlPath, referencePath string, width, height int) error {
	fmt.Printf("⚠️  Updating reference image: %s\n", referencePath)
	return RenderHTMLFile(htmlPath, referencePath, width, height)
}
