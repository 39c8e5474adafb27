package main

import (
	"fmt"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"

	"tessera/pkg/browser"
	"tessera/pkg/domjson"
	"tessera/pkg/html"
	"tessera/pkg/images"
	"tessera/pkg/js"
)

// tessera-open renders one HTML (or JSON-DOM, for dev fixtures) file to a
// PNG through the full browser pipeline (render tree, layout, layers,
// tiles, paint, rasterize, composite) and opens the result. External stylesheet (<link>) fetching is not wired:
// the DOM/parser layer has no fetch-capable parse entry point — only inline `style="..."` attributes and embedded
// `<style>` text are honored, same as every other entry point in this
// module.
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input.html|input.json> <output.png> [width] [height]\n", os.Args[0])
		os.Exit(1)
	}
	inputFile := os.Args[1]
	outputFile := os.Args[2]

	viewportWidth := 800.0
	viewportHeight := 2400.0 // taller default, typical of a full page

	if len(os.Args) >= 4 {
		fmt.Sscanf(os.Args[3], "%f", &viewportWidth)
	}
	if len(os.Args) >= 5 {
		fmt.Sscanf(os.Args[4], "%f", &viewportHeight)
	}

	content, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	var doc *html.Document
	if strings.HasSuffix(inputFile, ".json") {
		doc, err = domjson.Load(content)
	} else {
		doc, err = html.Parse(string(content))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", inputFile, err)
		os.Exit(1)
	}

	fetcher := images.NewFilesystemFetcher(inputFile)
	state := browser.New(doc, viewportWidth, viewportHeight, browser.WithImageFetcher(fetcher))

	if len(doc.Scripts) > 0 {
		engine := js.New()
		if err := engine.Execute(doc); err != nil {
			log.Printf("js: %v", err)
		}
		state.Reflow()
	}

	img := state.Redraw()
	if img == nil {
		fmt.Fprintf(os.Stderr, "Error rendering: no image produced\n")
		os.Exit(1)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully rendered %s to %s\n", inputFile, outputFile)
	fmt.Printf("Viewport: %.0fx%.0f, Rendered %d tiles\n", viewportWidth, viewportHeight, state.TileCount())

	// Try to open the output file; ignore errors (e.g. if "open" is not available)
	exec.Command("open", outputFile).Start()
}
