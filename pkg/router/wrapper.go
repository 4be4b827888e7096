package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)

		ctx = serve(ctx, c, r, method, handler)

		writeResponse(ctx, c.Writer)
		for _, closer := range r.closers {
			closer(ctx)
		}
	}
}

func serve[Request, Response any](
	ctx context.Context,
	c *gin.Context,
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) context.Context {
	for _, before := range r.befores {
		newCtx, err := before(ctx)
		if err != nil {
			return xcontext.WithError(ctx, err)
		}
		ctx = newCtx
	}

	var req Request
	if err := bind(c, method, &req); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
		return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
	}

	resp, err := handler(ctx, &req)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}
	ctx = xcontext.WithResponse(ctx, resp)

	for _, after := range r.afters {
		newCtx, err := after(ctx)
		if err != nil {
			return xcontext.WithError(ctx, err)
		}
		ctx = newCtx
	}

	return ctx
}

// bind fills the request from the query string, the JSON body and the path
// parameters, in this order. Path parameters take precedence.
func bind(c *gin.Context, method string, req any) error {
	if method == http.MethodGet || method == http.MethodDelete {
		if err := c.ShouldBindQuery(req); err != nil {
			return err
		}
	}

	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			return err
		}
	}

	if len(c.Params) > 0 {
		if err := c.ShouldBindUri(req); err != nil {
			return err
		}
	}

	return nil
}
