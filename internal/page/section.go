// Package page holds the interactive core of the portfolio page: which
// section is in focus, scrolling to a section, and the project detail modal.
//
// Nothing in this package is safe for concurrent use. Each host (a web
// session, a terminal program) drives one Controller from a single goroutine
// or under its own lock.
package page

import (
	"fmt"

	"github.com/Zachkp/folio/internal/apperr"
)

// SectionID identifies one region of the page.
type SectionID string

// Default section order of the portfolio page.
const (
	Home         SectionID = "home"
	About        SectionID = "about"
	Experience   SectionID = "experience"
	Skills       SectionID = "skills"
	Projects     SectionID = "projects"
	Certificates SectionID = "certificates"
	Contact      SectionID = "contact"
)

// DefaultSections is the order sections are declared in when content does
// not say otherwise.
var DefaultSections = []SectionID{Home, About, Experience, Skills, Projects, Certificates, Contact}

// Sections is a closed, ordered set of section identifiers.
type Sections struct {
	order []SectionID
	index map[SectionID]int
}

// NewSections builds the section set. Order is declaration order; empty or
// repeated identifiers are rejected.
func NewSections(ids ...SectionID) (Sections, error) {
	if len(ids) == 0 {
		return Sections{}, fmt.Errorf("%w: at least one section is required", apperr.ErrInvalid)
	}
	s := Sections{
		order: make([]SectionID, 0, len(ids)),
		index: make(map[SectionID]int, len(ids)),
	}
	for _, id := range ids {
		if id == "" {
			return Sections{}, fmt.Errorf("%w: empty section id", apperr.ErrInvalid)
		}
		if _, dup := s.index[id]; dup {
			return Sections{}, fmt.Errorf("%w: duplicate section %q", apperr.ErrInvalid, id)
		}
		s.index[id] = len(s.order)
		s.order = append(s.order, id)
	}
	return s, nil
}

// SectionsFrom converts plain identifiers, as found in content, to a set.
func SectionsFrom(ids []string) (Sections, error) {
	out := make([]SectionID, len(ids))
	for i, id := range ids {
		out[i] = SectionID(id)
	}
	return NewSections(out...)
}

// IDs returns the sections in declaration order. The slice must not be modified.
func (s Sections) IDs() []SectionID { return s.order }

// First returns the first declared section.
func (s Sections) First() SectionID {
	if len(s.order) == 0 {
		return ""
	}
	return s.order[0]
}

// Contains reports whether id belongs to the set.
func (s Sections) Contains(id SectionID) bool {
	_, ok := s.index[id]
	return ok
}

func (s Sections) Len() int { return len(s.order) }
