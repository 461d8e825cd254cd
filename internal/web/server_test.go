package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	var cfg config.Config
	if err := config.New("").Unmarshal(&cfg); err != nil {
		t.Fatal(err)
	}
	cfg.HTTP.Assets = ""
	if mutate != nil {
		mutate(&cfg)
	}

	site, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(&cfg, site, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

// client replays the session cookie like a browser would.
type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "folio_session" {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) state() page.State {
	c.t.Helper()
	w := c.do("GET", "/api/state", "")
	if w.Code != http.StatusOK {
		c.t.Fatalf("state: %d", w.Code)
	}
	var s page.State
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		c.t.Fatalf("decode state: %v", err)
	}
	return s
}

func activeIn(body string) string {
	m := regexp.MustCompile(`class="nav-link active"\s+data-section="([a-z]+)"`).FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return m[1]
}

// stackedReport returns a viewport report for the default layout scrolled so
// that the given section starts at top.
func stackedReport(first string, top float64) string {
	ids := []string{"home", "about", "experience", "skills", "projects", "certificates", "contact"}
	regions := map[string]page.Rect{}
	offset := 0.0
	start := 0.0
	for _, id := range ids {
		if id == first {
			start = offset
		}
		offset += 600
	}
	offset = 0
	for _, id := range ids {
		t := offset - start + top
		regions[id] = page.Rect{Top: t, Bottom: t + 600}
		offset += 600
	}
	b, _ := json.Marshal(map[string]any{"regions": regions})
	return string(b)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/health/live", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestPage_InitialState(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	w := c.do("GET", "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if c.cookie == nil {
		t.Fatal("no session cookie set")
	}

	body := w.Body.String()
	if got := activeIn(body); got != "home" {
		t.Errorf("active nav = %q, want home", got)
	}
	if strings.Contains(body, "modal-overlay") {
		t.Error("modal rendered on a fresh session")
	}
	for _, want := range []string{"Anushka Singh", "Whispr.ai", "Java Intern", "Internshala", "Lucknow, Uttar Pradesh"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestViewport_TracksActiveSection(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do("GET", "/", "")

	w := c.do("POST", "/viewport", stackedReport("projects", 50))
	if w.Code != http.StatusOK {
		t.Fatalf("viewport = %d", w.Code)
	}
	if got := activeIn(w.Body.String()); got != "projects" {
		t.Errorf("nav fragment active = %q, want projects", got)
	}
	if s := c.state(); s.Active != page.Projects {
		t.Errorf("state active = %q", s.Active)
	}

	// A report where nothing crosses the line keeps the last section.
	w = c.do("POST", "/viewport", `{"regions": {"home": {"top": 300, "bottom": 900}}}`)
	if got := activeIn(w.Body.String()); got != "projects" {
		t.Errorf("after no-match report active = %q, want projects", got)
	}
}

func TestViewport_BadRequest(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	if w := c.do("POST", "/viewport", `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestNavigate(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do("GET", "/", "")

	// Nothing is mounted before the first report.
	w := c.do("POST", "/navigate/contact", "")
	if w.Code != http.StatusNoContent || w.Header().Get("HX-Trigger") != "" {
		t.Fatalf("unmounted navigate = %d %q", w.Code, w.Header().Get("HX-Trigger"))
	}

	c.do("POST", "/viewport", stackedReport("home", 0))
	before := c.state()

	w = c.do("POST", "/navigate/blog", "")
	if w.Code != http.StatusNoContent || w.Header().Get("HX-Trigger") != "" {
		t.Errorf("unknown navigate = %d %q", w.Code, w.Header().Get("HX-Trigger"))
	}

	w = c.do("POST", "/navigate/contact", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("navigate = %d", w.Code)
	}
	var trigger map[string]map[string]string
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger); err != nil {
		t.Fatalf("HX-Trigger: %v", err)
	}
	if trigger["folio:scroll"]["target"] != "contact" {
		t.Errorf("trigger = %v", trigger)
	}

	if after := c.state(); after.Active != before.Active {
		t.Errorf("navigate changed active from %q to %q", before.Active, after.Active)
	}
}

func TestProjectModal(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do("GET", "/", "")

	w := c.do("GET", "/projects/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("open = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Peer-to-Peer Chat Application", "Socket Programming", "TCP/IP", `<pre class="readme"># Peer-to-Peer Chat Application`} {
		if !strings.Contains(body, want) {
			t.Errorf("modal missing %q", want)
		}
	}

	s := c.state()
	if s.Selected == nil || s.Selected.ID != 2 {
		t.Fatalf("selected = %+v", s.Selected)
	}
	if !strings.Contains(c.do("GET", "/", "").Body.String(), "modal-overlay") {
		t.Error("page reload lost the open modal")
	}

	if w := c.do("POST", "/modal/close", ""); w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Errorf("close = %d %q", w.Code, w.Body)
	}
	if s := c.state(); s.Selected != nil {
		t.Errorf("selected after close = %+v", s.Selected)
	}
	if strings.Contains(c.do("GET", "/", "").Body.String(), "modal-overlay") {
		t.Error("closed modal still rendered")
	}
	if w := c.do("POST", "/modal/close", ""); w.Code != http.StatusOK {
		t.Errorf("second close = %d", w.Code)
	}
}

func TestProjectModal_UnknownProject(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do("GET", "/projects/1", "")

	for _, path := range []string{"/projects/99", "/projects/abc"} {
		if w := c.do("GET", path, ""); w.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want 404", path, w.Code)
		}
	}
	if s := c.state(); s.Selected == nil || s.Selected.ID != 1 {
		t.Errorf("unknown project changed selection: %+v", s.Selected)
	}
}

func TestEndToEnd_Whispr(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	if got := activeIn(c.do("GET", "/", "").Body.String()); got != "home" {
		t.Fatalf("initial active = %q", got)
	}
	c.do("POST", "/viewport", stackedReport("home", 0))

	if got := activeIn(c.do("POST", "/viewport", stackedReport("projects", 20)).Body.String()); got != "projects" {
		t.Fatalf("active = %q, want projects", got)
	}

	body := c.do("GET", "/projects/3", "").Body.String()
	for _, tag := range []string{"Large Language Models (LLM)", "Open AI", "Python", "Natural Language Processing (NLP)", "Gradio"} {
		if !strings.Contains(body, `<li class="tag">`+tag+`</li>`) {
			t.Errorf("modal missing tag %q", tag)
		}
	}
	if !strings.Contains(body, `href="https://huggingface.co/spaces/anushka027/Whispr.ai" target="_blank" rel="noopener noreferrer"`) {
		t.Error("modal missing live link opening in a new context")
	}

	c.do("POST", "/modal/close", "")
	s := c.state()
	if s.Selected != nil || s.Active != page.Projects {
		t.Errorf("state after close = %+v", s)
	}
}

func TestSessions_AreIsolated(t *testing.T) {
	srv := newTestServer(t)
	a := &client{t: t, srv: srv}
	b := &client{t: t, srv: srv}

	a.do("GET", "/projects/1", "")
	b.do("GET", "/", "")

	if a.state().Selected == nil {
		t.Error("a lost its selection")
	}
	if b.state().Selected != nil {
		t.Error("b sees a's selection")
	}
	if srv.Sessions().Len() != 2 {
		t.Errorf("sessions = %d", srv.Sessions().Len())
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	site, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	now := time.Unix(1_700_000_000, 0)
	st := NewSessionStore(time.Minute, 0, 100)
	st.now = func() time.Time { return now }

	old, err := st.Create(site)
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(50 * time.Second)
	fresh, err := st.Create(site)
	if err != nil {
		t.Fatal(err)
	}
	if old.feed.Subscribers() != 1 {
		t.Fatalf("tracker not subscribed: %d", old.feed.Subscribers())
	}

	now = now.Add(20 * time.Second)
	if n := st.Sweep(); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, ok := st.Get(old.ID); ok {
		t.Error("expired session still reachable")
	}
	if _, ok := st.Get(fresh.ID); !ok {
		t.Error("fresh session swept")
	}
	if old.feed.Subscribers() != 0 {
		t.Error("expired session kept its tracker subscription")
	}
}

func TestSessionStore_EvictsLeastRecentlySeen(t *testing.T) {
	site, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	now := time.Unix(1_700_000_000, 0)
	st := NewSessionStore(time.Hour, 2, 100)
	st.now = func() time.Time { return now }

	a, err := st.Create(site)
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Second)
	b, err := st.Create(site)
	if err != nil {
		t.Fatal(err)
	}
	// a is seen again, so b becomes the oldest
	now = now.Add(time.Second)
	if _, ok := st.Get(a.ID); !ok {
		t.Fatal("session a missing")
	}

	now = now.Add(time.Second)
	c, err := st.Create(site)
	if err != nil {
		t.Fatal(err)
	}

	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
	if _, ok := st.Get(b.ID); ok {
		t.Error("least recently seen session kept")
	}
	if b.feed.Subscribers() != 0 {
		t.Error("evicted session kept its tracker subscription")
	}
	for _, s := range []*Session{a, c} {
		if _, ok := st.Get(s.ID); !ok {
			t.Errorf("session %s evicted", s.ID)
		}
	}
}

func TestSessions_CookielessTrafficIsCapped(t *testing.T) {
	const limit = 20
	srv := newTestServerWith(t, func(c *config.Config) { c.Session.Max = limit })
	for i := 0; i < limit+30; i++ {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/state", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	if n := srv.Sessions().Len(); n != limit {
		t.Fatalf("live sessions = %d, want cap %d", n, limit)
	}
}

func TestStaticScript_ReportsRegionsInOrder(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/static/folio.js", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	js := w.Body.String()
	if !strings.Contains(js, "seq < latest") {
		t.Error("script applies nav answers out of order")
	}
	if strings.Contains(js, "scrollY") {
		t.Error("script still posts an unused scroll offset")
	}
}

func TestSetSite_NewSessionsOnly(t *testing.T) {
	srv := newTestServer(t)
	a := &client{t: t, srv: srv}
	a.do("GET", "/", "")

	srv.SetSite(&content.Site{
		Profile:  content.Profile{Name: "Someone Else"},
		Sections: []content.Section{{ID: "home", Title: "Home"}},
	})

	if !strings.Contains(a.do("GET", "/", "").Body.String(), "Anushka Singh") {
		t.Error("existing session switched content")
	}
	b := &client{t: t, srv: srv}
	if !strings.Contains(b.do("GET", "/", "").Body.String(), "Someone Else") {
		t.Error("new session did not get reloaded content")
	}
}
