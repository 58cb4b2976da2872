// Package kernel assembles the HTTP handler: global middleware, routes and
// the static image server.
package kernel

import (
	"net/http"
	"strings"
	"time"

	"github.com/hustlcampus/hustl/app/controllers"
	"github.com/hustlcampus/hustl/app/routes"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/metrics"
	"github.com/hustlcampus/hustl/pkg/middleware"
	"github.com/hustlcampus/hustl/pkg/reqid"
	"github.com/hustlcampus/hustl/pkg/response"
	"github.com/hustlcampus/hustl/pkg/router"
	"github.com/hustlcampus/hustl/pkg/session"
	"github.com/hustlcampus/hustl/pkg/storage"
)

// Config is everything the HTTP kernel needs.
type Config struct {
	Services       *services.Services
	Sessions       session.Store
	SessionOptions session.Options
	// Disk is served under StorageURL when it is a local disk.
	Disk       storage.Disk
	StorageURL string
	RateLimit  int
	// TrustProxy keys the rate limit on X-Forwarded-For.
	TrustProxy bool
}

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router. Global middleware, outermost first:
// metrics, recovery, request id, logger, session, rate limit, principal.
func NewHTTPKernel(cfg Config) *HTTPKernel {
	r := router.New()
	h := controllers.New(cfg.Services)

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 200
	}

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(cfg.Sessions, cfg.SessionOptions))
	r.Use(middleware.RateLimit(limit, time.Minute, cfg.TrustProxy))
	r.Use(middleware.Authenticate(h.ResolvePrincipal))

	r.Get("/metrics", "metrics", metrics.Handler())

	if local, ok := cfg.Disk.(*storage.LocalDisk); ok {
		prefix := "/" + strings.Trim(cfg.StorageURL, "/")
		if prefix == "/" {
			prefix = "/storage"
		}
		r.Mount(prefix, "storage", http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root))))
	}

	routes.RegisterWeb(r, h)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "We could not find that page.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "That action is not supported here.")
	})

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists the registered routes for route:list.
func (k *HTTPKernel) Routes() []router.Route { return k.router.Routes() }
