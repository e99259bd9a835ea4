package web

import (
	"context"
	"crypto/rand"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"auraboxing/internal/adapters/http/middleware"
	"auraboxing/internal/adapters/http/perf"
	enquiryStore "auraboxing/internal/adapters/storage/enquiry"
	programStore "auraboxing/internal/adapters/storage/program"
	"auraboxing/internal/application/orchestrators"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Stores holds all storage dependencies.
type Stores struct {
	ProgramStore programStore.Store
	EnquiryStore enquiryStore.Store
}

// Pinger reports database liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the configuration NewMux needs.
type Options struct {
	Gate           *orchestrators.AdminGate
	CSRFKey        []byte
	FlashKey       []byte
	SessionTTL     time.Duration
	RatePerSecond  int
	SlowRequestMs  int
	Secure         bool
	TrustedOrigins []string
	Site           SiteContent
	DB             Pinger
}

// SiteContent is the configurable public copy. About is Markdown.
type SiteContent struct {
	Name    string
	Tagline string
	About   string
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global admin gate (set by NewMux)
var adminGate *orchestrators.AdminGate

// Global flash cookie codec (set by NewMux)
var flashes *flashCodec

// site is the rendered public copy (set by NewMux)
var site siteView

// dbPinger backs /healthz; nil means always healthy
var dbPinger Pinger

// secureCookies marks cookies Secure in production
var secureCookies bool

// configure sets the package globals handlers read.
func configure(s *Stores, collector *perf.Collector, opts Options) {
	stores = s
	perfCollector = collector
	adminGate = opts.Gate
	sessions = middleware.NewSessionStore(opts.SessionTTL)
	secureCookies = opts.Secure
	flashes = newFlashCodec(keyOrRandom(opts.FlashKey, "flash"), opts.Secure)
	site = renderSite(opts.Site)
	dbPinger = opts.DB
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, collector *perf.Collector, opts Options) http.Handler {
	configure(s, collector, opts)

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := keyOrRandom(opts.CSRFKey, "csrf")
	limiter := middleware.NewRateLimiter(opts.RatePerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, middleware.CSRFOptions{Secure: opts.Secure, TrustedOrigins: opts.TrustedOrigins}),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequestMs, routeLabeler(mux)),
	)
}

// registerRoutes maps every route to its handler.
func registerRoutes(mux *http.ServeMux) {
	static, _ := fs.Sub(assets, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	// Public
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("POST /enquiries", handleSubmitEnquiry)
	mux.HandleFunc("GET /api/programs", handleAPIPrograms)
	mux.HandleFunc("POST /api/enquiries", handleAPIEnquiries)
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.Handle("GET /metrics", perfCollector.Handler())

	// Admin gate
	mux.HandleFunc("/admin", handleAdminGate)
	mux.HandleFunc("POST /admin/logout", handleAdminLogout)

	// Admin pages
	mux.Handle("GET /admin/dashboard", middleware.RequireAdmin(http.HandlerFunc(handleAdminDashboard)))
	mux.Handle("POST /admin/programs", middleware.RequireAdmin(http.HandlerFunc(handleAdminAddProgram)))
	mux.Handle("POST /admin/programs/{id}/delete", middleware.RequireAdmin(http.HandlerFunc(handleAdminDeleteProgram)))

	// Admin JSON
	mux.Handle("/api/admin/programs", middleware.RequireAdminAPI(http.HandlerFunc(handleAPIAdminPrograms)))
	mux.Handle("GET /api/admin/enquiries", middleware.RequireAdminAPI(http.HandlerFunc(handleAPIAdminEnquiries)))
}

// routeLabeler labels requests by their registered pattern so path ids never become metric labels.
func routeLabeler(mux *http.ServeMux) middleware.RouteLabeler {
	return func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		if pattern == "" {
			return "other"
		}
		if _, path, ok := strings.Cut(pattern, " "); ok {
			return path
		}
		return pattern
	}
}

// keyOrRandom returns key when it is 32 bytes, otherwise a random per-process key.
func keyOrRandom(key []byte, name string) []byte {
	if len(key) == 32 {
		return key
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("generate " + name + " key: " + err.Error())
	}
	slog.Warn("config_warning", "event", "random_key", "key", name)
	return key
}
