package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/insights"
	"github.com/lumahq/luma/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "captures", "insights", "albums"
}

// PendingBadges carries per-kind pending counts for the nav badges.
type PendingBadges struct {
	Daily   insights.PendingInfo
	Weekly  insights.PendingInfo
	Monthly insights.PendingInfo
}

// CapturesPageData is the template data for the captures list page.
type CapturesPageData struct {
	PageData
	Items   []ops.CaptureView
	Total   int
	Kind    string
	Pending PendingBadges
}

// InsightCard is one kind's cached narrative, rendered for display.
type InsightCard struct {
	Kind        string
	PeriodKey   string
	HTML        template.HTML
	GeneratedAt time.Time
	Pending     insights.PendingInfo
	Has         bool
}

// InsightsPageData is the template data for the insights page.
type InsightsPageData struct {
	PageData
	Daily   InsightCard
	Weekly  InsightCard
	Monthly InsightCard

	Flow    *ops.FlowOutput
	Signal  *ops.SignalOutput
	Streaks insights.Streaks
	Buckets []insights.DayPartStat

	Eligibility insights.MonthlyEligibility
	Summary     *insights.MonthlySummary
}

// AlbumsPageData is the template data for the albums index page.
type AlbumsPageData struct {
	PageData
	Items []ops.AlbumView
}

// AlbumPageData is the template data for a single album page.
type AlbumPageData struct {
	PageData
	Album     ops.AlbumView
	Items     []ops.CaptureView
	Narrative template.HTML
	Pending   insights.PendingInfo
	Has       bool
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
		"formatDate": formatDate,
		"percent":    percent,
		"deref":      deref,
		"hasValue":   hasValue,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"captures": "captures.html",
		"insights": "insights.html",
		"albums":   "albums.html",
		"album":    "album.html",
		"error":    "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var iErr *errors.InsightError
	if !stderrors.As(err, &iErr) {
		iErr = errors.NewUnknown(err)
	}

	status := httpStatus(iErr.Stage)
	message := errors.UserMessage(iErr)

	// JSON request
	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"stage":   string(iErr.Stage),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	r.renderPageStatus(w, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

// httpStatus maps an error stage to an HTTP status code.
func httpStatus(stage errors.Stage) int {
	switch stage {
	case errors.StageValidate:
		return http.StatusBadRequest
	case errors.StageAuth:
		return http.StatusUnauthorized
	case errors.StageModel:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a timestamp as "2006-01-02 15:04" local time.
func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// formatDate formats a timestamp as "Jan 2, 2006" local time.
func formatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}

// percent formats a 0..1 fraction as a CSS percentage.
func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// deref dereferences a pointer, returning the zero value if nil.
// Supports the pointer types used in templates (*string).
func deref(v any) any {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(rv.Type().Elem()).Interface()
		}
		return rv.Elem().Interface()
	}
	return v
}

// hasValue checks if a pointer value is non-nil.
func hasValue(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return !rv.IsNil()
	}
	return true
}
