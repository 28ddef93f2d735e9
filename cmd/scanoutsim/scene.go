package main

import (
	"fmt"
	"image"
	"sort"

	"github.com/wlkit/scanout"
)

// sceneView pairs a paint node with the label shown in the decision table.
type sceneView struct {
	Label string
	Node  *scanout.PaintNode
}

// scenes maps preset names to their builders. Views are listed top to
// bottom, the order the engine walks them.
var scenes = map[string]func(bounds image.Rectangle) []sceneView{
	"fullscreen": fullscreenScene,
	"video":      videoScene,
	"stack":      stackScene,
	"protected":  protectedScene,
}

func sceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildScene constructs the preset scene and derives each view's visible
// and opaque regions from the stacking order, the way a scene graph would.
func buildScene(name string, bounds image.Rectangle) ([]sceneView, error) {
	build, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %v)", name, sceneNames())
	}
	views := build(bounds)
	var occ scanout.Region
	for _, v := range views {
		n := v.Node
		n.Visible = visibleRegion(n.Dst, occ)
		if n.Alpha >= 1 && opaqueBuffer(n) {
			n.Opaque = n.Visible.Clone()
			occ.AddRegion(n.Opaque)
		}
	}
	return views, nil
}

// opaqueBuffer reports whether the view's content has no alpha channel.
func opaqueBuffer(n *scanout.PaintNode) bool {
	if n.Solid {
		return n.SolidColor.IsOpaque()
	}
	if n.Buffer == nil {
		return false
	}
	return n.Buffer.Format == scanout.FormatXRGB8888 ||
		n.Buffer.Format == scanout.FormatNV12
}

// visibleRegion is dst minus the area already occluded by higher views.
func visibleRegion(dst image.Rectangle, occ scanout.Region) scanout.Region {
	tmp := occ.Clone()
	before := len(tmp.Rects())
	tmp.Add(dst)
	var vis scanout.Region
	for _, r := range tmp.Rects()[before:] {
		vis.Add(r)
	}
	return vis
}

// fullscreenScene is a single fullscreen game surface: the planes-only
// direct scanout case.
func fullscreenScene(bounds image.Rectangle) []sceneView {
	return []sceneView{
		{"game", dmabufNode(1, scanout.FormatXRGB8888, bounds)},
	}
}

// videoScene is a letterboxed video player: cursor, YUV video and a solid
// black background that the background-lowering pass absorbs.
func videoScene(bounds image.Rectangle) []sceneView {
	video := image.Rect(320, 180, 1600, 900)
	cursor := image.Rect(940, 500, 1004, 564)
	videoNode := dmabufNode(2, scanout.FormatNV12, video)
	videoNode.Buffer.YUV = true
	return []sceneView{
		{"cursor", cursorNode(3, cursor)},
		{"video", videoNode},
		{"background", solidNode(4, scanout.Black, bounds)},
	}
}

// stackScene is a desktop of overlapping windows: more views than overlay
// planes, so the engine degrades to mixed mode around the renderer buffer.
func stackScene(bounds image.Rectangle) []sceneView {
	return []sceneView{
		{"terminal", dmabufNode(5, scanout.FormatXRGB8888, image.Rect(900, 80, 1800, 700))},
		{"editor", dmabufNode(6, scanout.FormatXRGB8888, image.Rect(400, 200, 1300, 950))},
		{"browser", dmabufNode(7, scanout.FormatXRGB8888, image.Rect(100, 100, 1000, 800))},
		{"chat", dmabufNode(8, scanout.FormatXRGB8888, image.Rect(1200, 600, 1880, 1040))},
	}
}

// protectedScene is a DRM-protected fullscreen video on a link without
// content protection, plus a cursor.
func protectedScene(bounds image.Rectangle) []sceneView {
	cursor := image.Rect(200, 200, 264, 264)
	video := dmabufNode(9, scanout.FormatXRGB8888, bounds)
	video.Protected = true
	return []sceneView{
		{"cursor", cursorNode(10, cursor)},
		{"video", video},
	}
}

func dmabufNode(surface uint64, format uint32, dst image.Rectangle) *scanout.PaintNode {
	return &scanout.PaintNode{
		Surface: surface,
		Buffer: &scanout.Buffer{
			ID:     surface,
			Type:   scanout.BufferDmabuf,
			Width:  dst.Dx(),
			Height: dst.Dy(),
			Format: format,
		},
		Alpha:                 1,
		TransformValid:        true,
		ColorTransformValid:   true,
		IdentityColorPipeline: true,
		Src:                   image.Rect(0, 0, dst.Dx(), dst.Dy()),
		Dst:                   dst,
	}
}

func cursorNode(surface uint64, dst image.Rectangle) *scanout.PaintNode {
	n := &scanout.PaintNode{
		Surface: surface,
		Buffer: &scanout.Buffer{
			ID:     surface,
			Type:   scanout.BufferSHM,
			Width:  dst.Dx(),
			Height: dst.Dy(),
			Format: scanout.FormatARGB8888,
		},
		Alpha:                 1,
		CursorLayer:           true,
		TransformValid:        true,
		ColorTransformValid:   true,
		IdentityColorPipeline: true,
		Src:                   image.Rect(0, 0, dst.Dx(), dst.Dy()),
		Dst:                   dst,
	}
	return n
}

func solidNode(surface uint64, c scanout.RGBA, dst image.Rectangle) *scanout.PaintNode {
	return &scanout.PaintNode{
		Surface:               surface,
		Solid:                 true,
		SolidColor:            c,
		Alpha:                 1,
		TransformValid:        true,
		ColorTransformValid:   true,
		IdentityColorPipeline: true,
		Dst:                   dst,
	}
}
