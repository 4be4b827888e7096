package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/reactrole/internal/common"
	"github.com/questx-lab/reactrole/internal/deliveries"
	"github.com/questx-lab/reactrole/internal/middleware"
	"github.com/questx-lab/reactrole/pkg/prometheus"
	"github.com/questx-lab/reactrole/pkg/router"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const idempotencyCleanupInterval = time.Hour

func (s *srv) startApi(*cli.Context) error {
	if xcontext.Configs(s.ctx).Auth.TokenSecret == "" {
		return errors.New("token secret is not configured, set TOKEN_SECRET")
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadEndpoint()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadTokenEngine()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.cleanIdempotencyKeys(ctx)

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port),
		Handler: s.loadRouter().HandlerWithCORS(cfg.ApiServer.CORSOrigins),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", httpSrv.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if p, ok := s.publisher.(interface{ Stop(context.Context) error }); ok {
		if err := p.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
		}
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() *router.Router {
	cfg := xcontext.Configs(s.ctx)

	r := router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	r.Before(middleware.WithStartTime())
	r.AddCloser(middleware.Logger())
	r.AddCloser(middleware.Prometheus())
	r.Static(http.MethodGet, "/metrics", prometheus.NewHandler(common.PromCounters, common.PromHistograms))

	authVerifier := middleware.NewAuthVerifier(s.tokenEngine)
	deliveries.NewHTTPDelivery(s.reactionRoleDomain, s.guildDomain).Register(r, authVerifier.Middleware())

	return r
}

// cleanIdempotencyKeys removes the expired keys until ctx is done.
func (s *srv) cleanIdempotencyKeys(ctx context.Context) {
	ticker := time.NewTicker(idempotencyCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := s.idempotencyRepo.DeleteExpired(s.ctx, now); err != nil {
				xcontext.Logger(s.ctx).Errorf("Cannot delete expired idempotency keys: %v", err)
			}
		}
	}
}
