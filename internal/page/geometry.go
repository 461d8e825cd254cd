package page

// Rect is the vertical extent of a rendered region in viewport coordinates:
// Top is the distance from the top of the viewport to the region's top edge,
// negative once the region has scrolled past. Units are whatever the host
// measures in (CSS pixels, terminal rows).
type Rect struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Crosses reports whether the rect spans the horizontal line at y.
func (r Rect) Crosses(y float64) bool {
	return r.Top <= y && r.Bottom >= y
}

// Geometry reports the current bounds of a section's region. ok is false
// when the region is not mounted or cannot be measured.
type Geometry interface {
	RegionBounds(id SectionID) (r Rect, ok bool)
}

// GeometryFunc adapts a function to Geometry.
type GeometryFunc func(id SectionID) (Rect, bool)

func (f GeometryFunc) RegionBounds(id SectionID) (Rect, bool) { return f(id) }

// Region is a mounted, measurable piece of the page.
type Region interface {
	Bounds() (Rect, bool)
}

// Regions is a Geometry backed by explicitly mounted regions. A region is
// measurable only between its Mount and the call of the returned unmount.
type Regions struct {
	mounted map[SectionID]*mount
}

type mount struct {
	region Region
}

func NewRegions() *Regions {
	return &Regions{mounted: make(map[SectionID]*mount)}
}

// Mount registers region for id, replacing any earlier registration. The
// returned func unmounts it; calling it more than once, or after a newer
// Mount for the same id, is harmless.
func (g *Regions) Mount(id SectionID, region Region) (unmount func()) {
	m := &mount{region: region}
	g.mounted[id] = m
	return func() {
		if g.mounted[id] == m {
			delete(g.mounted, id)
		}
	}
}

// Mounted reports whether id currently has a region.
func (g *Regions) Mounted(id SectionID) bool {
	_, ok := g.mounted[id]
	return ok
}

func (g *Regions) RegionBounds(id SectionID) (Rect, bool) {
	m, ok := g.mounted[id]
	if !ok {
		return Rect{}, false
	}
	return m.region.Bounds()
}

// Snapshot is a Geometry frozen at one instant, typically decoded from a
// host report. Missing entries are treated as unmounted.
type Snapshot map[SectionID]Rect

func (s Snapshot) RegionBounds(id SectionID) (Rect, bool) {
	r, ok := s[id]
	return r, ok
}
