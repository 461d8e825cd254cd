package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
)

type navItem struct {
	ID     string
	Title  string
	Active bool
}

type navData struct {
	Brand string
	Items []navItem
}

type pageData struct {
	Site  *content.Site
	Nav   navData
	Modal *page.DetailView
}

func buildNav(ctrl *page.Controller) navData {
	site := ctrl.Site()
	active := ctrl.Active()
	nav := navData{Brand: site.Profile.Brand}
	for _, id := range ctrl.Sections().IDs() {
		nav.Items = append(nav.Items, navItem{
			ID:     string(id),
			Title:  site.SectionTitle(string(id)),
			Active: id == active,
		})
	}
	return nav
}

func (s *Server) handlePage(c *gin.Context) {
	ctrl := sessionFrom(c).Controller()

	data := pageData{
		Site:  ctrl.Site(),
		Nav:   buildNav(ctrl),
		Modal: ctrl.Snapshot().Selected,
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// viewportReport is what the browser posts on mount and on scroll. Rects
// are relative to the viewport top, so the scroll offset is not needed.
type viewportReport struct {
	Regions map[string]page.Rect `json:"regions"`
}

func (s *Server) handleViewport(c *gin.Context) {
	var report viewportReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	regions := make(page.Snapshot, len(report.Regions))
	for id, r := range report.Regions {
		regions[page.SectionID(id)] = r
	}

	sess := sessionFrom(c)
	sess.Report(regions)
	c.HTML(http.StatusOK, "nav", buildNav(sess.Controller()))
}

func (s *Server) handleNavigate(c *gin.Context) {
	sess := sessionFrom(c)
	target, ok := sess.Navigate(page.SectionID(c.Param("section")))
	if ok {
		trigger, err := json.Marshal(map[string]any{
			"folio:scroll": map[string]string{"target": string(target)},
		})
		if err != nil {
			s.logger.Error("encode HX-Trigger", slog.String("error", err.Error()))
		} else {
			c.Header("HX-Trigger", string(trigger))
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	ctrl := sessionFrom(c).Controller()
	if !ctrl.OpenProject(id) {
		c.Status(http.StatusNotFound)
		return
	}
	c.HTML(http.StatusOK, "modal", ctrl.Snapshot().Selected)
}

// Close button, overlay click and Escape all land here
func (s *Server) handleCloseModal(c *gin.Context) {
	sessionFrom(c).Controller().CloseModal()
	c.String(http.StatusOK, "")
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, sessionFrom(c).Controller().Snapshot())
}
