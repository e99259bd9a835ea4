package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/schema"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"auraboxing/internal/adapters/http/middleware"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance for the site copy.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// formDecoder maps url-encoded forms onto input structs by their schema tags.
var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true) // the CSRF token field rides along
	return dec
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeForm parses a url-encoded form into dst.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return formDecoder.Decode(dst, r.PostForm)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "error", err.Error(), "op", "encode_json")
	}
}

// jsonError writes {"error": msg}.
func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// siteView is the public copy with the about text already rendered.
type siteView struct {
	Name      string
	Tagline   string
	AboutHTML template.HTML
}

// renderSite converts the about Markdown to sanitized HTML once at startup.
func renderSite(content SiteContent) siteView {
	name := content.Name
	if name == "" {
		name = "Aura Boxing"
	}
	return siteView{
		Name:      name,
		Tagline:   content.Tagline,
		AboutHTML: renderMarkdown(content.About),
	}
}

// renderMarkdown converts Markdown to HTML and strips anything outside the UGC policy.
func renderMarkdown(md string) template.HTML {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes()))
}

// page is the data every template receives.
type page struct {
	Title   string
	Site    siteView
	Flash   *Flash
	IsAdmin bool
	Data    any
}

// renderTemplate executes layout.html with the named page template.
// A pending flash cookie is consumed unless the caller supplies one.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName, title string, flash *Flash, data any) {
	if flash == nil && flashes != nil {
		flash = flashes.pop(w, r)
	}

	funcMap := template.FuncMap{
		"csrfToken": func() string { return csrf.Token(r) },
		"csrfField": func() template.HTML { return csrf.TemplateField(r) },
		"upper":     strings.ToUpper,
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i
			}
			return s
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(assets, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page{
		Title:   title,
		Site:    site,
		Flash:   flash,
		IsAdmin: middleware.IsAdmin(r.Context()),
		Data:    data,
	}); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if dbPinger != nil {
		if err := dbPinger.PingContext(r.Context()); err != nil {
			slog.Error("healthz_failed", "error", err.Error())
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
