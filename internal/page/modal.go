package page

import (
	"slices"

	"github.com/Zachkp/folio/internal/content"
)

// Modal is the project detail overlay. The zero value is closed.
type Modal struct {
	project *content.Project
}

// Open shows p. Opening while another project is shown switches to p.
func (m *Modal) Open(p content.Project) {
	m.project = &p
}

// Close hides the modal. Closing a closed modal does nothing.
func (m *Modal) Close() {
	m.project = nil
}

func (m *Modal) IsOpen() bool { return m.project != nil }

// Selected returns the shown project.
func (m *Modal) Selected() (content.Project, bool) {
	if m.project == nil {
		return content.Project{}, false
	}
	return *m.project, true
}

// LinkOpener opens a URL in a new browsing context, leaving the page as is.
type LinkOpener interface {
	Open(url string) error
}

// Link is an outbound link that opens in a new browsing context.
type Link struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Target string `json:"target"`
	Rel    string `json:"rel"`
}

func externalLink(label, url string) Link {
	return Link{Label: label, URL: url, Target: "_blank", Rel: "noopener noreferrer"}
}

// DetailView is what the open modal renders.
type DetailView struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Image  string   `json:"image"`
	Tags   []string `json:"tags"`
	Links  []Link   `json:"links,omitempty"`
	Readme string   `json:"readme"`
}

// Detail builds the modal view of p. The readme is passed through verbatim.
// Content is shared between sessions, so the view owns its tag slice.
func Detail(p content.Project) DetailView {
	v := DetailView{
		ID:     p.ID,
		Title:  p.Title,
		Image:  p.Image,
		Tags:   slices.Clone(p.Technologies),
		Readme: p.Readme,
	}
	if p.LiveLink != "" {
		v.Links = append(v.Links, externalLink("Live Demo", p.LiveLink))
	}
	if p.GithubLink != "" {
		v.Links = append(v.Links, externalLink("GitHub", p.GithubLink))
	}
	return v
}
