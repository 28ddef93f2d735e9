package scanout

import "image"

// Region is a 2-D area set stored as disjoint axis-aligned rectangles.
// Disjointness is an invariant of every mutation, which makes area
// arithmetic exact: Covers and CoversExactly rely on it.
//
// Regions are small per-repaint accumulators (renderer-occupied, opaque
// occlusion, solid background); the quadratic fragmentation in Add is fine
// at the handful-of-views scale the engine operates on.
type Region struct {
	rects []image.Rectangle
}

// RegionFromRect returns a region covering exactly rect.
func RegionFromRect(rect image.Rectangle) Region {
	rect = rect.Canon()
	if rect.Empty() {
		return Region{}
	}
	return Region{rects: []image.Rectangle{rect}}
}

// Add grows the region by rect. Overlap with existing area is discarded so
// the stored rectangles stay disjoint.
func (r *Region) Add(rect image.Rectangle) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	fragments := []image.Rectangle{rect}
	for _, have := range r.rects {
		if len(fragments) == 0 {
			return
		}
		var next []image.Rectangle
		for _, f := range fragments {
			next = append(next, subtractRect(f, have)...)
		}
		fragments = next
	}
	r.rects = append(r.rects, fragments...)
}

// AddRegion grows the region by every rectangle of o.
func (r *Region) AddRegion(o Region) {
	for _, rect := range o.rects {
		r.Add(rect)
	}
}

// Intersects reports whether the region overlaps rect.
func (r Region) Intersects(rect image.Rectangle) bool {
	rect = rect.Canon()
	for _, have := range r.rects {
		if have.Overlaps(rect) {
			return true
		}
	}
	return false
}

// IntersectsRegion reports whether the two regions overlap.
func (r Region) IntersectsRegion(o Region) bool {
	for _, rect := range o.rects {
		if r.Intersects(rect) {
			return true
		}
	}
	return false
}

// Covers reports whether the region contains every point of rect.
// With disjoint rectangles this reduces to comparing overlap area.
func (r Region) Covers(rect image.Rectangle) bool {
	rect = rect.Canon()
	if rect.Empty() {
		return true
	}
	covered := 0
	for _, have := range r.rects {
		covered += area(have.Intersect(rect))
	}
	return covered == area(rect)
}

// CoversRegion reports whether the region contains every point of o.
func (r Region) CoversRegion(o Region) bool {
	for _, rect := range o.rects {
		if !r.Covers(rect) {
			return false
		}
	}
	return true
}

// CoversExactly reports whether the region is exactly rect: it covers all
// of rect and contains nothing outside it.
func (r Region) CoversExactly(rect image.Rectangle) bool {
	rect = rect.Canon()
	for _, have := range r.rects {
		if !have.In(rect) {
			return false
		}
	}
	return r.Covers(rect)
}

// Empty reports whether the region contains no area.
func (r Region) Empty() bool {
	return len(r.rects) == 0
}

// Area returns the total covered area.
func (r Region) Area() int {
	total := 0
	for _, rect := range r.rects {
		total += area(rect)
	}
	return total
}

// Bounds returns the smallest rectangle containing the region.
func (r Region) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, rect := range r.rects {
		b = b.Union(rect)
	}
	return b
}

// Clone returns a region that does not share storage with r.
func (r Region) Clone() Region {
	if len(r.rects) == 0 {
		return Region{}
	}
	rects := make([]image.Rectangle, len(r.rects))
	copy(rects, r.rects)
	return Region{rects: rects}
}

// Rects returns the disjoint rectangles making up the region.
// The returned slice is owned by the region and must not be mutated.
func (r Region) Rects() []image.Rectangle {
	return r.rects
}

func area(rect image.Rectangle) int {
	if rect.Empty() {
		return 0
	}
	return rect.Dx() * rect.Dy()
}

// subtractRect returns rect minus hole as up to four disjoint fragments.
func subtractRect(rect, hole image.Rectangle) []image.Rectangle {
	overlap := rect.Intersect(hole)
	if overlap.Empty() {
		return []image.Rectangle{rect}
	}
	if rect.In(hole) {
		return nil
	}
	var out []image.Rectangle
	// Band above and below the overlap.
	if rect.Min.Y < overlap.Min.Y {
		out = append(out, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, overlap.Min.Y))
	}
	if overlap.Max.Y < rect.Max.Y {
		out = append(out, image.Rect(rect.Min.X, overlap.Max.Y, rect.Max.X, rect.Max.Y))
	}
	// Left and right of the overlap, within the overlap's vertical band.
	if rect.Min.X < overlap.Min.X {
		out = append(out, image.Rect(rect.Min.X, overlap.Min.Y, overlap.Min.X, overlap.Max.Y))
	}
	if overlap.Max.X < rect.Max.X {
		out = append(out, image.Rect(overlap.Max.X, overlap.Min.Y, rect.Max.X, overlap.Max.Y))
	}
	return out
}
