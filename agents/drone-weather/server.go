package droneweather

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"drone-dashboard/shared/config"
	"drone-dashboard/shared/monitoring"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	errUnknownCity   = errors.New("unknown city")
	errBlankQuestion = errors.New("question is required")
	errCannotAsk     = errors.New("no weather data available or a question is already being answered")
)

// NewRouter builds the gin engine serving the dashboard, its JSON API and the health endpoints.
func NewRouter(d *Dashboard, health *monitoring.HealthHandlers) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())

	r.Use(config.GinLogrusLogger())

	Register(&r.RouterGroup, d)
	health.Register(r)

	return r
}

// Register takes care of registering the page, form actions and API routes.
func Register(r *gin.RouterGroup, d *Dashboard) {
	h := &handlers{dashboard: d}

	r.GET("/", h.page)
	r.POST("/city", h.selectCity)
	r.POST("/theme", h.toggleTheme)
	r.POST("/refresh", h.refresh)
	r.POST("/ask", h.ask)

	api := r.Group("api")
	api.GET("/state", h.state)
	api.POST("/city", h.apiSelectCity)
	api.POST("/ask", h.apiAsk)
}

type handlers struct {
	dashboard *Dashboard
}

type cityRequest struct {
	City string `json:"city" binding:"required"`
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func (h *handlers) page(c *gin.Context) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, h.dashboard.View()); err != nil {
		log.WithError(err).Error("Failed to render dashboard")
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) selectCity(c *gin.Context) {
	h.dashboard.SelectCity(c.PostForm("city"))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) toggleTheme(c *gin.Context) {
	h.dashboard.ToggleDarkMode()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) refresh(c *gin.Context) {
	h.dashboard.Refresh()
	c.Redirect(http.StatusSeeOther, "/")
}

// ask blocks until the assistant answers, then shows the page again
func (h *handlers) ask(c *gin.Context) {
	h.dashboard.AskQuestion(c.Request.Context(), c.PostForm("question"))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.State())
}

func (h *handlers) apiSelectCity(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := h.dashboard.catalog.FindCity(req.City); !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": errUnknownCity.Error()})
		return
	}

	h.dashboard.SelectCity(req.City)
	c.JSON(http.StatusOK, h.dashboard.State())
}

func (h *handlers) apiAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errBlankQuestion.Error()})
		return
	}

	result, ok := h.dashboard.AskQuestion(c.Request.Context(), req.Question)
	if !ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": errCannotAsk.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
