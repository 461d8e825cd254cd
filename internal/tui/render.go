package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
)

type styles struct {
	Brand     lipgloss.Style
	NavItem   lipgloss.Style
	NavActive lipgloss.Style
	Heading   lipgloss.Style
	Name      lipgloss.Style
	Subtle    lipgloss.Style
	Tag       lipgloss.Style
	Card      lipgloss.Style
	CardFocus lipgloss.Style
	Link      lipgloss.Style
	Modal     lipgloss.Style
	Help      lipgloss.Style
}

func defaultStyles() styles {
	purple := lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#C084FC"}
	pink := lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}
	gray := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	return styles{
		Brand:     lipgloss.NewStyle().Bold(true).Foreground(pink),
		NavItem:   lipgloss.NewStyle().Foreground(gray).Padding(0, 1),
		NavActive: lipgloss.NewStyle().Foreground(purple).Bold(true).Underline(true).Padding(0, 1),
		Heading:   lipgloss.NewStyle().Bold(true).Foreground(purple).MarginBottom(1),
		Name:      lipgloss.NewStyle().Bold(true).Foreground(pink),
		Subtle:    lipgloss.NewStyle().Foreground(gray),
		Tag:       lipgloss.NewStyle().Foreground(purple),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(gray).Padding(0, 1),
		CardFocus: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(pink).Padding(0, 1),
		Link:      lipgloss.NewStyle().Foreground(pink).Underline(true),
		Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(purple).Padding(0, 1),
		Help:      lipgloss.NewStyle().Foreground(gray),
	}
}

// renderSection renders one section's body at the given width. cursor is
// the focused project card.
func (st styles) renderSection(site *content.Site, id page.SectionID, width, cursor int) string {
	text := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	heading := func() {
		b.WriteString(st.Heading.Render(site.SectionTitle(string(id))))
		b.WriteString("\n")
	}

	switch id {
	case page.Home:
		p := site.Profile
		b.WriteString("\n")
		b.WriteString(st.Name.Render(p.Name))
		b.WriteString("\n\n")
		b.WriteString(text.Render(p.Tagline))
		b.WriteString("\n\n")
		b.WriteString(st.Link.Render("[c] Get In Touch"))
		if p.Resume != "" {
			b.WriteString("   ")
			b.WriteString(st.Subtle.Render("Resume: " + p.Resume))
		}
		b.WriteString("\n")

	case page.About:
		heading()
		for _, para := range site.Profile.About {
			b.WriteString(text.Render(para))
			b.WriteString("\n\n")
		}
		for _, h := range site.Profile.Highlights {
			b.WriteString(st.Tag.Render(h.Title))
			b.WriteString("  ")
			b.WriteString(h.Detail)
			b.WriteString("\n")
		}

	case page.Experience:
		heading()
		for _, e := range site.Experience {
			b.WriteString(st.Name.Render(e.Title))
			b.WriteString("\n")
			b.WriteString(st.Subtle.Render(e.Company + " · " + e.Period))
			b.WriteString("\n")
			b.WriteString(text.Render(e.Description))
			b.WriteString("\n\n")
		}

	case page.Skills:
		heading()
		for _, g := range site.Skills {
			b.WriteString(st.Name.Render(g.Name))
			b.WriteString("\n")
			b.WriteString(text.Render(st.tags(g.Technologies)))
			b.WriteString("\n\n")
		}

	case page.Projects:
		heading()
		cardWidth := width - 4
		if cardWidth < 10 {
			cardWidth = 10
		}
		for i, p := range site.Projects {
			style := st.Card
			if i == cursor {
				style = st.CardFocus
			}
			var card strings.Builder
			card.WriteString(st.Name.Render(p.Title))
			card.WriteString("\n")
			card.WriteString(p.Description)
			card.WriteString("\n")
			card.WriteString(st.tags(p.Technologies))
			if links := cardLinks(p); links != "" {
				card.WriteString("\n")
				card.WriteString(st.Subtle.Render(links))
			}
			b.WriteString(style.Width(cardWidth).Render(card.String()))
			b.WriteString("\n")
		}
		b.WriteString(st.Help.Render("[ ] choose project · enter details"))
		b.WriteString("\n")

	case page.Certificates:
		heading()
		for _, c := range site.Certificates {
			b.WriteString(st.Name.Render(c.Name))
			b.WriteString("  ")
			b.WriteString(st.Subtle.Render(c.Issuer))
			b.WriteString("\n")
			if c.File != "" {
				b.WriteString(st.Subtle.Render("  " + c.File))
				b.WriteString("\n")
			}
		}

	case page.Contact:
		heading()
		c := site.Profile.Contact
		if c.Heading != "" {
			b.WriteString(st.Name.Render(c.Heading))
			b.WriteString("\n")
		}
		if c.Message != "" {
			b.WriteString(text.Render(c.Message))
			b.WriteString("\n\n")
		}
		for _, line := range []struct{ label, value string }{
			{"Email", c.Email},
			{"Location", c.Location},
			{"LinkedIn", c.LinkedIn},
			{"GitHub", c.Github},
		} {
			if line.value == "" {
				continue
			}
			b.WriteString(fmt.Sprintf("%-9s %s\n", line.label, line.value))
		}

	default:
		heading()
	}

	return strings.TrimRight(b.String(), "\n") + "\n\n"
}

func (st styles) tags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = st.Tag.Render("#" + t)
	}
	return strings.Join(parts, " ")
}

func cardLinks(p content.Project) string {
	var parts []string
	if p.LiveLink != "" {
		parts = append(parts, "Live: "+p.LiveLink)
	}
	if p.GithubLink != "" {
		parts = append(parts, "GitHub: "+p.GithubLink)
	}
	return strings.Join(parts, "  ")
}

// renderDetail renders the modal body. The readme keeps its line breaks;
// long lines are wrapped to width.
func (st styles) renderDetail(d page.DetailView, width int) string {
	var b strings.Builder
	b.WriteString(st.Name.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(st.tags(d.Tags)))
	b.WriteString("\n")
	for _, l := range d.Links {
		key := "o"
		if l.Label == "GitHub" {
			key = "s"
		}
		b.WriteString(st.Link.Render(fmt.Sprintf("[%s] %s: %s", key, l.Label, l.URL)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(d.Readme))
	return b.String()
}
