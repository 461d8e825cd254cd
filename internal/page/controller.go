package page

import (
	"fmt"

	"github.com/Zachkp/folio/internal/content"
)

// Controller owns the page's UI state: the active section (written only by
// its trackers) and the selected project (written only through the modal
// methods). Hosts read state through it and never keep their own copy.
type Controller struct {
	sections Sections
	site     *content.Site
	active   SectionID
	modal    Modal
}

// NewController starts with the first section active and the modal closed.
func NewController(sections Sections, site *content.Site) *Controller {
	return &Controller{
		sections: sections,
		site:     site,
		active:   sections.First(),
	}
}

// ForSite builds a controller using the site's own section order.
func ForSite(site *content.Site) (*Controller, error) {
	sections, err := SectionsFrom(site.SectionIDs())
	if err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}
	return NewController(sections, site), nil
}

func (c *Controller) Sections() Sections  { return c.sections }
func (c *Controller) Site() *content.Site { return c.site }

// Active returns the highlighted section.
func (c *Controller) Active() SectionID { return c.active }

// Tracker returns a tracker that measures regions through geometry against
// a horizontal line referenceLine units below the viewport top.
func (c *Controller) Tracker(geometry Geometry, referenceLine float64) *Tracker {
	return &Tracker{c: c, geometry: geometry, referenceLine: referenceLine}
}

// Navigator returns a navigator that scrolls through host.
func (c *Controller) Navigator(host ScrollHost, geometry Geometry) *Navigator {
	return &Navigator{sections: c.sections, geometry: geometry, host: host}
}

// OpenProject opens the modal on the project with the given id. Unknown ids
// leave the state untouched and return false.
func (c *Controller) OpenProject(id int) bool {
	p, ok := c.site.Project(id)
	if !ok {
		return false
	}
	c.modal.Open(p)
	return true
}

// CloseModal closes the modal; it is a no-op when already closed.
func (c *Controller) CloseModal() { c.modal.Close() }

func (c *Controller) ModalOpen() bool { return c.modal.IsOpen() }

// Selected returns the project shown in the modal.
func (c *Controller) Selected() (content.Project, bool) { return c.modal.Selected() }

// State is a read-only copy of the controller state.
type State struct {
	Active   SectionID   `json:"active"`
	Selected *DetailView `json:"selected,omitempty"`
}

func (c *Controller) Snapshot() State {
	s := State{Active: c.active}
	if p, ok := c.modal.Selected(); ok {
		d := Detail(p)
		s.Selected = &d
	}
	return s
}
