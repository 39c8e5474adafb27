package main

import (
	"fmt"
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tessera/pkg/browser"
	"tessera/pkg/html"
	"tessera/pkg/resource"
	stdnet "tessera/std/net"
)

const viewportWidth, viewportHeight = 1024, 700

func main() {
	a := app.New()
	w := a.NewWindow("tessera browser")
	w.Resize(fyne.NewSize(1024, 768))

	target := image.NewRGBA(image.Rect(0, 0, viewportWidth, viewportHeight))
	canvasImg := canvas.NewImageFromImage(target)
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Enter a URL and press Enter")

	// driver holds the live frame driver for whatever page is currently
	// loaded; mu guards swapping it out from the fetch goroutine while a
	// key event on the UI goroutine might be using it.
	var mu sync.Mutex
	var driver *browser.Driver

	redraw := func(img image.Image) {
		if img == nil {
			return
		}
		canvasImg.Image = img
		canvasImg.Refresh()
	}

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com")
	urlEntry.OnSubmitted = func(url string) {
		status.SetText("Loading " + url + "...")
		go func() {
			body, _, err := stdnet.Fetch(url)
			if err != nil {
				status.SetText("Error: " + err.Error())
				return
			}
			doc, err := html.Parse(string(body))
			if err != nil {
				status.SetText("Parse error: " + err.Error())
				return
			}

			fetcher := resource.NewFetcher(url)
			state := browser.New(doc, viewportWidth, viewportHeight, browser.WithImageFetcher(fetcher.FetchImage))

			mu.Lock()
			driver = browser.NewDriver(state)
			mu.Unlock()

			redraw(driver.Resume())
			status.SetText(url)
			w.SetTitle(fmt.Sprintf("tessera - %s", url))
		}()
	}

	// Key bindings: '0'-'9' toggle a layer,
	// 'w' cycles wireframe mode, 'd' toggles the debug-hover overlay, 't'
	// toggles the tile-grid overlay.
	w.Canvas().SetOnTypedRune(func(r rune) {
		mu.Lock()
		d := driver
		mu.Unlock()
		if d == nil {
			return
		}
		redraw(d.Key(r))
	})

	topBar := container.NewBorder(nil, nil, nil, nil, urlEntry)
	content := container.NewBorder(topBar, status, nil, nil, canvasImg)
	w.SetContent(content)

	w.Canvas().Focus(urlEntry)

	w.ShowAndRun()
}
