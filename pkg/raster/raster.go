// Package raster turns a tile's paint commands into pixels. It defines the
// backend capability contract (filled/rounded rects, stroked dash paths,
// text at a chosen face/weight/size, solid brushes, texture compositing
// with a transform) and a concrete implementation on top of gg.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"sync/atomic"

	"github.com/fogleman/gg"

	"tessera/pkg/css"
	"tessera/pkg/images"
	"tessera/pkg/style"
	"tessera/pkg/text"
	"tessera/pkg/tile"
)

// Backend is the capability contract a rasterizer needs from its drawing
// library. pkg/compositor consumes the same Texture/ReleaseTexture surface
// to blit finished tiles.
type Backend interface {
	// Rasterize executes a tile's paint commands and returns a texture
	// handle. ok is false when the tile had no paint commands (the caller
	// should leave the tile Empty) or the backend could not produce a
	// surface (Unrenderable) — neither case is a user-visible error.
	Rasterize(t *tile.Tile) (textureID int, ok bool)

	// Texture returns the image backing a texture handle previously
	// returned by Rasterize, for the compositor to blit.
	Texture(id int) (image.Image, bool)

	// ReleaseTexture frees one texture's backing image. Safe to call on
	// an id the backend doesn't hold.
	ReleaseTexture(id int)

	// ReleaseAll discards every texture the backend holds, for recovery
	// after a lost graphics surface. Callers are responsible for marking
	// every tile Dirty afterward so the next redraw regenerates them.
	ReleaseAll()
}

// GGBackend rasterizes tiles with a gg.Context per tile, matching the
// draw order pkg/render's Renderer used when layout and paint were not
// yet separate stages: background and borders, then text.
type GGBackend struct {
	mu       sync.Mutex
	textures map[int]image.Image
	nextID   int64

	fonts        text.FontConfig
	lastFontKey  string
	imageFetcher images.ImageFetcher
	imageCache   map[string]image.Image
}

// NewGGBackend returns a backend using the bundled regular/bold font pair.
func NewGGBackend() *GGBackend {
	return &GGBackend{
		textures:   make(map[int]image.Image),
		fonts:      text.DefaultFontConfig(),
		imageCache: make(map[string]image.Image),
	}
}

// SetFonts overrides the font faces used for KindText commands.
func (b *GGBackend) SetFonts(fc text.FontConfig) {
	b.fonts = fc
}

// SetImageFetcher wires an image source for KindImage commands. Without
// one, KindImage commands are silently skipped (no backend-visible error;
// a missing image is an input error, not a rasterizer fault).
func (b *GGBackend) SetImageFetcher(fetcher images.ImageFetcher) {
	b.imageFetcher = fetcher
}

func (b *GGBackend) Rasterize(t *tile.Tile) (int, bool) {
	if t == nil || !hasPaintCommands(t) {
		if t != nil {
			t.State = tile.Empty
		}
		return 0, false
	}

	w, h := int(t.Rect.W), int(t.Rect.H)
	if w <= 0 || h <= 0 {
		t.State = tile.Unrenderable
		return 0, false
	}

	dc := gg.NewContext(w, h)
	if t.BGColor.A > 0 {
		setColor(dc, t.BGColor)
		dc.Clear()
	}

	for _, el := range t.Elements {
		for _, cmd := range el.PaintCommands {
			b.draw(dc, cmd)
		}
	}

	id := int(atomic.AddInt64(&b.nextID, 1))
	b.mu.Lock()
	b.textures[id] = dc.Image()
	b.mu.Unlock()

	t.TextureID = id
	t.State = tile.Clean
	return id, true
}

func hasPaintCommands(t *tile.Tile) bool {
	for _, el := range t.Elements {
		if len(el.PaintCommands) > 0 {
			return true
		}
	}
	return false
}

func (b *GGBackend) Texture(id int) (image.Image, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	img, ok := b.textures[id]
	return img, ok
}

func (b *GGBackend) ReleaseTexture(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.textures, id)
}

func (b *GGBackend) ReleaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.textures = make(map[int]image.Image)
}

func (b *GGBackend) draw(dc *gg.Context, cmd tile.PaintCommand) {
	switch cmd.Kind {
	case tile.KindPushClip:
		dc.Push()
		dc.DrawRectangle(cmd.Rect.X, cmd.Rect.Y, cmd.Rect.W, cmd.Rect.H)
		dc.Clip()
	case tile.KindPopClip:
		dc.ResetClip()
		dc.Pop()
	case tile.KindFillRect:
		setColor(dc, cmd.Color)
		dc.DrawRectangle(cmd.Rect.X, cmd.Rect.Y, cmd.Rect.W, cmd.Rect.H)
		dc.Fill()
	case tile.KindFillGradient:
		b.drawGradient(dc, cmd)
	case tile.KindStrokeRect:
		setColor(dc, cmd.Color)
		width := cmd.Width
		if width <= 0 {
			width = 1
		}
		dc.SetLineWidth(width)
		dc.DrawRectangle(cmd.Rect.X, cmd.Rect.Y, cmd.Rect.W, cmd.Rect.H)
		dc.Stroke()
	case tile.KindBorder:
		b.drawBorder(dc, cmd)
	case tile.KindText:
		b.drawText(dc, cmd)
	case tile.KindImage:
		b.drawImage(dc, cmd)
	}
}

// drawGradient fills cmd.Rect with a linear gradient. Stop offsets given
// in pixels are resolved against the rect's own size; the stylesheet's
// parsed gradient is copied first so the resolution never leaks back into
// the shared computed style.
func (b *GGBackend) drawGradient(dc *gg.Context, cmd tile.PaintCommand) {
	if cmd.Gradient == nil || len(cmd.Gradient.ColorStops) < 2 {
		return
	}
	grad := css.Gradient{
		Type:       cmd.Gradient.Type,
		Direction:  cmd.Gradient.Direction,
		ColorStops: append([]css.ColorStop(nil), cmd.Gradient.ColorStops...),
	}
	grad.ConvertPixelOffsetsToPercentages(cmd.Rect.W, cmd.Rect.H)

	x0, y0 := cmd.Rect.X, cmd.Rect.Y
	x1, y1 := cmd.Rect.X, cmd.Rect.Y+cmd.Rect.H
	switch grad.Direction {
	case "to right":
		x1, y1 = cmd.Rect.X+cmd.Rect.W, cmd.Rect.Y
	case "to left":
		x0, y0 = cmd.Rect.X+cmd.Rect.W, cmd.Rect.Y
		x1, y1 = cmd.Rect.X, cmd.Rect.Y
	case "to top":
		x0, y0 = cmd.Rect.X, cmd.Rect.Y+cmd.Rect.H
		x1, y1 = cmd.Rect.X, cmd.Rect.Y
	}

	fill := gg.NewLinearGradient(x0, y0, x1, y1)
	for _, stop := range grad.ColorStops {
		offset := stop.Offset
		if offset < 0 {
			offset = 0
		}
		fill.AddColorStop(offset, color.RGBA{R: stop.Color.R, G: stop.Color.G, B: stop.Color.B, A: 255})
	}
	dc.SetFillStyle(fill)
	dc.DrawRectangle(cmd.Rect.X, cmd.Rect.Y, cmd.Rect.W, cmd.Rect.H)
	dc.Fill()
}

// drawBorder draws each non-none side as a mitered trapezoid in
// bottom/left/right/top order, the same priority-by-draw-order the
// renderer has always used, so shared corners favor top, then right, then
// left, then bottom. A uniform radius across all four sides takes the
// cheaper single-stroke path instead.
func (b *GGBackend) drawBorder(dc *gg.Context, cmd tile.PaintCommand) {
	borders := cmd.Borders
	outer := cmd.Rect

	if uniform(borders) && borders.Top.Width > 0 {
		side := borders.Top
		setColor(dc, side.Color)
		setLineDash(dc, side.Style, side.Width)
		dc.SetLineWidth(side.Width)
		half := side.Width / 2
		dc.DrawRoundedRectangle(outer.X+half, outer.Y+half, outer.W-side.Width, outer.H-side.Width, side.Radius)
		dc.Stroke()
		return
	}

	outerLeft, outerTop := outer.X, outer.Y
	outerRight, outerBottom := outer.X+outer.W, outer.Y+outer.H
	innerLeft := outer.X + borders.Left.Width
	innerTop := outer.Y + borders.Top.Width
	innerRight := outer.X + outer.W - borders.Right.Width
	innerBottom := outer.Y + outer.H - borders.Bottom.Width

	if borders.Bottom.Width > 0 && borders.Bottom.Style != style.BorderStyleNone {
		setColor(dc, borders.Bottom.Color)
		dc.MoveTo(outerLeft, outerBottom)
		dc.LineTo(innerLeft, innerBottom)
		dc.LineTo(innerRight, innerBottom)
		dc.LineTo(outerRight, outerBottom)
		dc.ClosePath()
		dc.Fill()
	}
	if borders.Left.Width > 0 && borders.Left.Style != style.BorderStyleNone {
		setColor(dc, borders.Left.Color)
		dc.MoveTo(outerLeft, outerTop)
		dc.LineTo(innerLeft, innerTop)
		dc.LineTo(innerLeft, innerBottom)
		dc.LineTo(outerLeft, outerBottom)
		dc.ClosePath()
		dc.Fill()
	}
	if borders.Right.Width > 0 && borders.Right.Style != style.BorderStyleNone {
		setColor(dc, borders.Right.Color)
		dc.MoveTo(outerRight, outerTop)
		dc.LineTo(outerRight, outerBottom)
		dc.LineTo(innerRight, innerBottom)
		dc.LineTo(innerRight, innerTop)
		dc.ClosePath()
		dc.Fill()
	}
	if borders.Top.Width > 0 && borders.Top.Style != style.BorderStyleNone {
		setColor(dc, borders.Top.Color)
		dc.MoveTo(outerLeft, outerTop)
		dc.LineTo(outerRight, outerTop)
		dc.LineTo(innerRight, innerTop)
		dc.LineTo(innerLeft, innerTop)
		dc.ClosePath()
		dc.Fill()
	}
}

func uniform(b style.Borders) bool {
	return b.Top.Width == b.Right.Width && b.Right.Width == b.Bottom.Width && b.Bottom.Width == b.Left.Width &&
		b.Top.Radius == b.Right.Radius && b.Right.Radius == b.Bottom.Radius && b.Bottom.Radius == b.Left.Radius &&
		b.Top.Radius > 0
}

func setLineDash(dc *gg.Context, lineStyle style.BorderLineStyle, width float64) {
	switch lineStyle {
	case style.BorderStyleDashed:
		dc.SetDash(width*3, width*2)
	case style.BorderStyleDotted:
		dc.SetDash(width, width)
	default:
		dc.SetDash()
	}
}

func (b *GGBackend) drawText(dc *gg.Context, cmd tile.PaintCommand) {
	bold := cmd.FontWeight >= style.FontWeightBold
	path := b.fonts.FontPath(bold, false, false, false)
	key := fmt.Sprintf("%s@%.1f", path, cmd.FontSize)
	if key != b.lastFontKey {
		if err := dc.LoadFontFace(path, cmd.FontSize); err != nil {
			return
		}
		b.lastFontKey = key
	}
	setColor(dc, cmd.Color)
	ascent := dc.FontAscent()
	dc.DrawString(cmd.Text, cmd.Position[0], cmd.Position[1]+ascent)
}

func (b *GGBackend) drawImage(dc *gg.Context, cmd tile.PaintCommand) {
	if b.imageFetcher == nil || cmd.ImageHandle == "" {
		return
	}
	img, ok := b.imageCache[cmd.ImageHandle]
	if !ok {
		data, err := b.imageFetcher(cmd.ImageHandle)
		if err != nil {
			return
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return
		}
		img = decoded
		b.imageCache[cmd.ImageHandle] = img
	}

	dc.Push()
	dc.Translate(cmd.Position[0], cmd.Position[1])
	bounds := img.Bounds()
	if cmd.Rect.W > 0 && cmd.Rect.H > 0 && bounds.Dx() > 0 && bounds.Dy() > 0 {
		dc.Scale(cmd.Rect.W/float64(bounds.Dx()), cmd.Rect.H/float64(bounds.Dy()))
	}
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

func setColor(dc *gg.Context, c style.Color) {
	dc.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}
