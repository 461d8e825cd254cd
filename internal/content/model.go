// Package content holds the static portfolio content: profile, sections,
// projects, skills, experience and certificates. Content is loaded once and
// treated as immutable afterwards.
package content

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Zachkp/folio/internal/apperr"
)

// Site is the full content of the portfolio page.
type Site struct {
	Profile      Profile       `yaml:"profile"`
	Sections     []Section     `yaml:"sections"`
	Projects     []Project     `yaml:"projects"`
	Skills       []SkillGroup  `yaml:"skills"`
	Experience   []Experience  `yaml:"experience"`
	Certificates []Certificate `yaml:"certificates"`
}

type Profile struct {
	Name       string      `yaml:"name"`
	Brand      string      `yaml:"brand"`
	Tagline    string      `yaml:"tagline"`
	Photo      string      `yaml:"photo"`
	Resume     string      `yaml:"resume"`
	About      []string    `yaml:"about"`
	Highlights []Highlight `yaml:"highlights"`
	Contact    Contact     `yaml:"contact"`
	Footer     string      `yaml:"footer"`
}

type Highlight struct {
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
}

type Contact struct {
	Heading  string `yaml:"heading"`
	Message  string `yaml:"message"`
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	LinkedIn string `yaml:"linkedin"`
	Github   string `yaml:"github"`
}

// Section names one vertically stacked region of the page.
type Section struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

// Project is one portfolio work item. Readme is shown verbatim.
type Project struct {
	ID           int      `yaml:"id"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	Image        string   `yaml:"image"`
	LiveLink     string   `yaml:"live_link"`
	GithubLink   string   `yaml:"github_link"`
	Readme       string   `yaml:"readme"`
}

type SkillGroup struct {
	Name         string   `yaml:"name"`
	Icon         string   `yaml:"icon"`
	Technologies []string `yaml:"technologies"`
}

type Experience struct {
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type Certificate struct {
	Name   string `yaml:"name"`
	Issuer string `yaml:"issuer"`
	File   string `yaml:"file"`
	Image  string `yaml:"image"`
}

// Project returns the project with the given id.
func (s *Site) Project(id int) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// SectionIDs returns the section identifiers in declaration order.
func (s *Site) SectionIDs() []string {
	ids := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		ids[i] = sec.ID
	}
	return ids
}

// SectionTitle returns the display title of a section, falling back to the id.
func (s *Site) SectionTitle(id string) string {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec.Title
		}
	}
	return id
}

// Validate validates the whole site.
func (s *Site) Validate() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.Profile),
		validation.Field(&s.Sections, validation.Required, validation.By(uniqueSections)),
		validation.Field(&s.Projects, validation.By(uniqueProjects)),
		validation.Field(&s.Skills),
		validation.Field(&s.Experience),
		validation.Field(&s.Certificates),
	)
	if err != nil {
		return fmt.Errorf("%w: content: %w", apperr.ErrInvalid, err)
	}
	return nil
}

func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Contact),
	)
}

func (c Contact) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, is.EmailFormat),
		validation.Field(&c.LinkedIn, is.URL),
		validation.Field(&c.Github, is.URL),
	)
}

func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required, validation.By(noSpaces)),
	)
}

func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.Min(1)),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.LiveLink, is.URL),
		validation.Field(&p.GithubLink, is.URL),
	)
}

func (g SkillGroup) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Name, validation.Required),
	)
}

func (e Experience) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.Company, validation.Required),
	)
}

func (c Certificate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
	)
}

func noSpaces(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, " \t\n") {
		return fmt.Errorf("must not contain whitespace")
	}
	return nil
}

func uniqueSections(value interface{}) error {
	sections, _ := value.([]Section)
	seen := make(map[string]struct{}, len(sections))
	for _, sec := range sections {
		if _, dup := seen[sec.ID]; dup {
			return fmt.Errorf("duplicate section %q", sec.ID)
		}
		seen[sec.ID] = struct{}{}
	}
	return nil
}

func uniqueProjects(value interface{}) error {
	projects, _ := value.([]Project)
	seen := make(map[int]struct{}, len(projects))
	for _, p := range projects {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate project id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
