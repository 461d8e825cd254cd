package page

// ScrollHost performs an animated scroll that brings a section's top to the
// top of the viewport. It must return without waiting for the animation.
type ScrollHost interface {
	ScrollIntoView(id SectionID)
}

// ScrollHostFunc adapts a function to ScrollHost.
type ScrollHostFunc func(id SectionID)

func (f ScrollHostFunc) ScrollIntoView(id SectionID) { f(id) }

// Navigator turns section identifiers into scroll requests. It never touches
// the active section; the tracker picks up the new position from the scroll
// events the host emits while moving.
type Navigator struct {
	sections Sections
	geometry Geometry
	host     ScrollHost
}

// Navigate asks the host to scroll to id. Unknown or unmounted sections are
// ignored. The result reports whether a scroll was requested.
func (n *Navigator) Navigate(id SectionID) bool {
	if !n.sections.Contains(id) {
		return false
	}
	if _, ok := n.geometry.RegionBounds(id); !ok {
		return false
	}
	n.host.ScrollIntoView(id)
	return true
}
