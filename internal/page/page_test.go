package page

import (
	"errors"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/Zachkp/folio/internal/apperr"
	"github.com/Zachkp/folio/internal/content"
)

func mustSections(t testing.TB, ids ...SectionID) Sections {
	t.Helper()
	s, err := NewSections(ids...)
	if err != nil {
		t.Fatalf("NewSections: %v", err)
	}
	return s
}

func testSite() *content.Site {
	return &content.Site{
		Profile: content.Profile{Name: "Test"},
		Sections: []content.Section{
			{ID: "home"}, {ID: "about"}, {ID: "skills"}, {ID: "projects"},
		},
		Projects: []content.Project{
			{ID: 1, Title: "One", Technologies: []string{"Go"}, GithubLink: "https://example.com/one"},
			{ID: 2, Title: "Two", Technologies: []string{"Java", "TCP/IP"}, Readme: "# Two\n\nline one\n  line two\n"},
		},
	}
}

// stacked lays sections out top to bottom with the given heights and
// reports their rects for a page scrolled by scrollY.
type stacked struct {
	ids     []SectionID
	heights []float64
	scrollY float64
}

func (s *stacked) RegionBounds(id SectionID) (Rect, bool) {
	offset := 0.0
	for i, sid := range s.ids {
		if sid == id {
			top := offset - s.scrollY
			return Rect{Top: top, Bottom: top + s.heights[i]}, true
		}
		offset += s.heights[i]
	}
	return Rect{}, false
}

func TestNewSections(t *testing.T) {
	tests := []struct {
		name string
		ids  []SectionID
	}{
		{"empty", nil},
		{"blank id", []SectionID{"home", ""}},
		{"duplicate", []SectionID{"home", "about", "home"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSections(tt.ids...)
			if !errors.Is(err, apperr.ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}

	s := mustSections(t, DefaultSections...)
	if s.First() != Home || s.Len() != 7 || !s.Contains(Contact) || s.Contains("blog") {
		t.Errorf("unexpected set: %v", s.IDs())
	}
}

func TestLocate(t *testing.T) {
	sections := mustSections(t, Home, About, Skills)
	const line = 100

	tests := []struct {
		name   string
		geo    Snapshot
		want   SectionID
		wantOK bool
	}{
		{
			name:   "single match",
			geo:    Snapshot{Home: {-900, -100}, About: {-100, 400}, Skills: {400, 900}},
			want:   About,
			wantOK: true,
		},
		{
			name:   "overlap picks first declared",
			geo:    Snapshot{Home: {0, 200}, About: {50, 300}},
			want:   Home,
			wantOK: true,
		},
		{
			name:   "shared edge on the line picks first declared",
			geo:    Snapshot{Home: {-300, 100}, About: {100, 500}},
			want:   Home,
			wantOK: true,
		},
		{
			name:   "unmounted sections are skipped",
			geo:    Snapshot{Skills: {0, 500}},
			want:   Skills,
			wantOK: true,
		},
		{
			name: "gap at the line",
			geo:  Snapshot{Home: {-300, 50}, About: {150, 500}},
		},
		{
			name: "nothing mounted",
			geo:  Snapshot{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(sections, tt.geo, line)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Locate = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLocate_Properties(t *testing.T) {
	ids := DefaultSections
	sections := mustSections(t, ids...)

	rapid.Check(t, func(t *rapid.T) {
		geo := Snapshot{}
		for _, id := range ids {
			if !rapid.Bool().Draw(t, "mounted_"+string(id)) {
				continue
			}
			top := rapid.Float64Range(-2000, 2000).Draw(t, "top_"+string(id))
			height := rapid.Float64Range(0, 1500).Draw(t, "height_"+string(id))
			geo[id] = Rect{Top: top, Bottom: top + height}
		}
		line := rapid.Float64Range(0, 300).Draw(t, "line")

		first, ok1 := Locate(sections, geo, line)
		second, ok2 := Locate(sections, geo, line)
		if first != second || ok1 != ok2 {
			t.Fatalf("not deterministic: (%q,%v) then (%q,%v)", first, ok1, second, ok2)
		}

		for _, id := range ids {
			r, mounted := geo[id]
			crosses := mounted && r.Crosses(line)
			if id == first {
				if !crosses {
					t.Fatalf("%q chosen but does not cross %v: %+v", id, line, r)
				}
				return
			}
			if crosses {
				t.Fatalf("%q crosses the line but %q was chosen", id, first)
			}
		}
		if ok1 {
			t.Fatalf("%q is not a declared section", first)
		}
	})
}

func TestTracker_RetainsOnNoMatch(t *testing.T) {
	c := NewController(mustSections(t, Home, About, Skills), testSite())
	geo := Snapshot{Skills: {0, 400}}
	tr := c.Tracker(geo, 100)

	if got := tr.Evaluate(); got != Skills {
		t.Fatalf("active = %q, want skills", got)
	}

	delete(geo, Skills)
	geo[Home] = Rect{200, 400}
	if got := tr.Evaluate(); got != Skills {
		t.Errorf("active = %q after no-match pass, want skills", got)
	}
	if c.Active() != Skills {
		t.Errorf("controller active = %q", c.Active())
	}
}

func TestTracker_MountAndRelease(t *testing.T) {
	ids := []SectionID{Home, About, Skills, Projects}
	c := NewController(mustSections(t, ids...), testSite())
	geo := &stacked{ids: ids, heights: []float64{800, 600, 600, 900}}
	var feed Feed

	tr := c.Tracker(geo, 100)
	release := tr.Mount(&feed)
	if c.Active() != Home {
		t.Fatalf("initial active = %q", c.Active())
	}
	if feed.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", feed.Subscribers())
	}

	geo.scrollY = 800
	feed.Emit()
	if c.Active() != About {
		t.Errorf("after scroll active = %q, want about", c.Active())
	}

	release()
	release()
	if feed.Subscribers() != 0 {
		t.Errorf("subscribers after release = %d", feed.Subscribers())
	}

	geo.scrollY = 2100
	feed.Emit()
	if c.Active() != About {
		t.Errorf("released tracker still updated state: %q", c.Active())
	}
}

func TestRegions_MountLifetime(t *testing.T) {
	regions := NewRegions()
	r := regionFunc(func() (Rect, bool) { return Rect{0, 10}, true })

	unmount := regions.Mount(Home, r)
	if _, ok := regions.RegionBounds(Home); !ok {
		t.Fatal("mounted region not measurable")
	}

	// A remount replaces the region; the stale unmount must not remove it.
	unmountNew := regions.Mount(Home, r)
	unmount()
	if !regions.Mounted(Home) {
		t.Fatal("stale unmount removed the newer region")
	}
	unmountNew()
	unmountNew()
	if regions.Mounted(Home) {
		t.Fatal("region still mounted")
	}
	if _, ok := regions.RegionBounds(Home); ok {
		t.Fatal("unmounted region still measurable")
	}
}

type regionFunc func() (Rect, bool)

func (f regionFunc) Bounds() (Rect, bool) { return f() }

type recordingHost struct {
	calls []SectionID
}

func (h *recordingHost) ScrollIntoView(id SectionID) { h.calls = append(h.calls, id) }

func TestNavigator(t *testing.T) {
	c := NewController(mustSections(t, Home, About, Projects), testSite())
	geo := Snapshot{Home: {0, 500}, About: {500, 900}}
	host := &recordingHost{}
	nav := c.Navigator(host, geo)

	before := c.Snapshot()

	if nav.Navigate("blog") {
		t.Error("unknown section should not navigate")
	}
	if nav.Navigate(Projects) {
		t.Error("unmounted section should not navigate")
	}
	if len(host.calls) != 0 {
		t.Errorf("host called for no-op navigation: %v", host.calls)
	}

	if !nav.Navigate(About) {
		t.Error("mounted section should navigate")
	}
	if !reflect.DeepEqual(host.calls, []SectionID{About}) {
		t.Errorf("host calls = %v", host.calls)
	}
	if !reflect.DeepEqual(c.Snapshot(), before) {
		t.Errorf("navigator changed state: %+v", c.Snapshot())
	}
}

func TestModal_Transitions(t *testing.T) {
	c := NewController(mustSections(t, Home), testSite())

	if c.ModalOpen() {
		t.Fatal("modal should start closed")
	}
	c.CloseModal()
	if c.ModalOpen() {
		t.Fatal("closing a closed modal opened it")
	}

	if !c.OpenProject(2) {
		t.Fatal("OpenProject(2) = false")
	}
	p, ok := c.Selected()
	if !ok || p.ID != 2 || !c.ModalOpen() {
		t.Fatalf("selected = %+v, %v", p, ok)
	}

	if !c.OpenProject(1) {
		t.Fatal("retarget failed")
	}
	if p, _ := c.Selected(); p.ID != 1 {
		t.Errorf("selected after retarget = %d", p.ID)
	}

	if c.OpenProject(99) {
		t.Error("unknown project opened")
	}
	if p, _ := c.Selected(); p.ID != 1 {
		t.Errorf("unknown project changed selection to %d", p.ID)
	}

	c.CloseModal()
	c.CloseModal()
	if _, ok := c.Selected(); ok || c.ModalOpen() {
		t.Error("modal still open after close")
	}
	if c.Snapshot().Selected != nil {
		t.Error("snapshot still carries a selection")
	}
}

func TestDetail(t *testing.T) {
	site := testSite()
	p, _ := site.Project(2)
	d := Detail(p)

	if d.Title != "Two" || !reflect.DeepEqual(d.Tags, []string{"Java", "TCP/IP"}) {
		t.Errorf("detail = %+v", d)
	}
	if d.Readme != "# Two\n\nline one\n  line two\n" {
		t.Errorf("readme altered: %q", d.Readme)
	}
	if len(d.Links) != 0 {
		t.Errorf("links = %v, want none", d.Links)
	}

	p1, _ := site.Project(1)
	links := Detail(p1).Links
	if len(links) != 1 || links[0].Label != "GitHub" || links[0].Target != "_blank" || links[0].Rel != "noopener noreferrer" {
		t.Errorf("links = %+v", links)
	}
}

func TestDetail_TagsAreCopied(t *testing.T) {
	site := testSite()
	p, _ := site.Project(2)

	d := Detail(p)
	d.Tags[0] = "Changed"
	d.Tags = append(d.Tags, "Extra")

	again, _ := site.Project(2)
	if !reflect.DeepEqual(again.Technologies, []string{"Java", "TCP/IP"}) {
		t.Fatalf("content changed through detail view: %v", again.Technologies)
	}
	if got := Detail(again).Tags; !reflect.DeepEqual(got, []string{"Java", "TCP/IP"}) {
		t.Fatalf("second view tags = %v", got)
	}
}

func TestEndToEnd_DefaultContent(t *testing.T) {
	site, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	c, err := ForSite(site)
	if err != nil {
		t.Fatal(err)
	}

	ids := c.Sections().IDs()
	geo := &stacked{ids: ids, heights: []float64{900, 700, 500, 650, 1200, 800, 700}}
	var feed Feed
	release := c.Tracker(geo, 100).Mount(&feed)
	defer release()

	if c.Active() != Home {
		t.Fatalf("initial active = %q", c.Active())
	}

	// Projects starts at 900+700+500+650 = 2750.
	geo.scrollY = 2700
	feed.Emit()
	if c.Active() != Projects {
		t.Fatalf("active = %q, want projects", c.Active())
	}

	if !c.OpenProject(3) {
		t.Fatal("open Whispr.ai")
	}
	d := c.Snapshot().Selected
	if d == nil || d.Title != "Whispr.ai" {
		t.Fatalf("selected = %+v", d)
	}
	wantTags := []string{"Large Language Models (LLM)", "Open AI", "Python", "Natural Language Processing (NLP)", "Gradio"}
	if !reflect.DeepEqual(d.Tags, wantTags) {
		t.Errorf("tags = %v", d.Tags)
	}
	if d.Links[0].URL != "https://huggingface.co/spaces/anushka027/Whispr.ai" {
		t.Errorf("live link = %q", d.Links[0].URL)
	}

	c.CloseModal()
	if c.ModalOpen() || geo.scrollY != 2700 || c.Active() != Projects {
		t.Errorf("close changed more than the modal: open=%v scroll=%v active=%q", c.ModalOpen(), geo.scrollY, c.Active())
	}
}
