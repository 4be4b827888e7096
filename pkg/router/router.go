package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/reactrole/config"
	"github.com/questx-lab/reactrole/pkg/logger"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// HandlerFunc is the signature of every API. The request is bound from the
// path, the query string and the JSON body.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. Returning an error aborts the
// request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of a request, after the response is
// written.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine *gin.Engine

	db     *gorm.DB
	cfg    config.Configs
	logger logger.Logger

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine: engine,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// Branch returns a router sharing the same routes but owning a copy of the
// middlewares, so middlewares added to the branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		engine:  r.engine,
		db:      r.db,
		cfg:     r.cfg,
		logger:  r.logger,
		befores: slices.Clone(r.befores),
		afters:  slices.Clone(r.afters),
		closers: slices.Clone(r.closers),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Static mounts a raw http.Handler, e.g. the metrics handler.
func (r *Router) Static(method, pattern string, handler http.Handler) {
	r.engine.Handle(method, pattern, gin.WrapH(handler))
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

// HandlerWithCORS wraps the router by a CORS handler allowing the dashboard
// origins. Credentials are only allowed for an explicit origin list, browsers
// reject them together with a wildcard origin.
func (r *Router) HandlerWithCORS(origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: !slices.Contains(origins, "*"),
	}).Handler(r.engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPut, pattern, handler)
}

func PATCH[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPatch, pattern, handler)
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodDelete, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	r.engine.Handle(method, pattern, wrapHandler(r.Branch(), method, handler))
}
