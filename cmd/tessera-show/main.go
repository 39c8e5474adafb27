package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	stdnet "tessera/std/net"

	"tessera/pkg/browser"
	"tessera/pkg/html"
	"tessera/pkg/resource"
)

func main() {
	width := flag.Int("w", 800, "viewport width in pixels")
	height := flag.Int("h", 600, "viewport height in pixels")
	output := flag.String("o", "output.png", "output PNG file path")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tessera-show [flags] <url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	url := flag.Arg(0)

	fmt.Fprintf(os.Stderr, "Fetching %s...\n", url)
	body, _, err := stdnet.Fetch(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching URL: %v\n", err)
		os.Exit(1)
	}

	doc, err := html.Parse(string(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing HTML: %v\n", err)
		os.Exit(1)
	}

	fetcher := resource.NewFetcher(url)

	fmt.Fprintf(os.Stderr, "Rendering %dx%d...\n", *width, *height)
	state := browser.New(doc, float64(*width), float64(*height), browser.WithImageFetcher(fetcher.FetchImage))
	img := state.Redraw()
	if img == nil {
		fmt.Fprintf(os.Stderr, "Error rendering: no image produced\n")
		os.Exit(1)
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Saved to %s\n", *output)
}
