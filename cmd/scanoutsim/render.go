package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/wlkit/scanout"
)

// Placement colors for the layout visualization.
var (
	layoutBG       = color.RGBA{0x20, 0x20, 0x24, 0xff}
	layoutPrimary  = color.RGBA{0x3a, 0x6e, 0xa5, 0xff}
	layoutOverlay  = color.RGBA{0x3f, 0x9e, 0x4f, 0xff}
	layoutUnderlay = color.RGBA{0x7e, 0x4f, 0x9e, 0xff}
	layoutCursor   = color.RGBA{0xd0, 0x8a, 0x2e, 0xff}
	layoutRenderer = color.RGBA{0x6e, 0x6e, 0x6e, 0xff}
	layoutBorder   = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

// writeLayoutPNG renders each view's destination rectangle colored by its
// placement, bottom to top, then scales the frame to a thumbnail and writes
// it as PNG.
func writeLayoutPNG(path string, bounds image.Rectangle, views []sceneView) error {
	frame := image.NewRGBA(bounds)
	draw.Draw(frame, bounds, image.NewUniform(layoutBG), image.Point{}, draw.Src)

	for i := len(views) - 1; i >= 0; i-- {
		n := views[i].Node
		fill := placementColor(n)
		draw.Draw(frame, n.Dst, image.NewUniform(fill), image.Point{}, draw.Src)
		drawBorder(frame, n.Dst, 4)
	}

	const thumbWidth = 960
	thumbHeight := bounds.Dy() * thumbWidth / bounds.Dx()
	thumb := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), frame, bounds, xdraw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, thumb); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func placementColor(n *scanout.PaintNode) color.RGBA {
	pl := n.Plane
	if pl == nil || (!n.ZeroCopy && pl.Type != scanout.PlaneCursor) {
		return layoutRenderer
	}
	switch {
	case n.NeedsHole:
		return layoutUnderlay
	case pl.Type == scanout.PlanePrimary:
		return layoutPrimary
	case pl.Type == scanout.PlaneCursor:
		return layoutCursor
	default:
		return layoutOverlay
	}
}

func drawBorder(img *image.RGBA, r image.Rectangle, w int) {
	u := image.NewUniform(layoutBorder)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
