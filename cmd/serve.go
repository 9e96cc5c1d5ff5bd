package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dvasava/portfolio/internal/api"
	"github.com/dvasava/portfolio/internal/contact"
	"github.com/dvasava/portfolio/internal/content"
	"github.com/dvasava/portfolio/internal/notify"
	"github.com/dvasava/portfolio/internal/server"
	"github.com/dvasava/portfolio/internal/site"
	"github.com/dvasava/portfolio/internal/store"
)

const (
	sessionSweepInterval = time.Minute
	visitorCleanupPeriod = 24 * time.Hour
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the portfolio site and contact API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides PORT)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	h, closeDB, err := a.buildHandler(ctx)
	if err != nil {
		return err
	}
	defer closeDB()
	// Contact submissions hold the response open while they wait on the
	// backend.
	return server.Run(ctx, a.cfg.Addr(), h, a.log,
		server.WithWriteTimeout(server.WriteTimeoutFor(a.cfg.SubmitTimeout)))
}

// buildHandler opens the store and wires the API and the site onto one
// engine. Background jobs stop with ctx; the returned func closes the store.
func (a *app) buildHandler(ctx context.Context) (http.Handler, func() error, error) {
	cfg := a.cfg

	p, err := content.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	// The salt lives only as long as the process, so hashes cannot be
	// matched across restarts.
	visitors := store.NewVisitorRepository(db, uuid.NewString())

	r := server.NewEngine(cfg.GinMode, a.log)

	if cfg.ServeAPI {
		var n notify.Notifier = notify.Noop{}
		if cfg.SMTP.Enabled() {
			n = notify.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.To)
		} else {
			a.log.Info("smtp credentials not set, owner notifications disabled")
		}

		group := r.Group("/api", server.CORS(cfg.CORSOrigins))
		api.New(api.Deps{
			Contacts: store.NewContactRepository(db),
			Statuses: store.NewStatusCheckRepository(db),
			Views:    visitors,
			DB:       db,
			Notifier: n,
			Log:      a.log,
			Owner:    p.Profile.Name,
		}).Register(group)
		// Preflight requests need a route to reach the CORS middleware.
		group.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	if cfg.ServeSite {
		if cfg.BackendURL == "" && !cfg.ServeAPI {
			a.log.Warn("BACKEND_URL is not set and the API is disabled, contact submissions will fail")
		}
		backend := contact.NewClient(cfg.LocalBackendURL(), nil)
		sessions := site.NewSessions(func() *contact.Flow {
			return contact.NewFlow(backend,
				contact.WithTimeout(cfg.SubmitTimeout),
				contact.WithLogger(a.log))
		}, cfg.SessionIdleTimeout)
		go sessions.Run(ctx, sessionSweepInterval)

		r.Use(site.TrackVisits(visitors, a.log))
		if err := site.New(p, sessions, a.log).Register(r); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("site: %w", err)
		}
		go a.cleanupVisitors(ctx, visitors)
	}

	return r, db.Close, nil
}

func (a *app) cleanupVisitors(ctx context.Context, visitors *store.VisitorRepository) {
	ticker := time.NewTicker(visitorCleanupPeriod)
	defer ticker.Stop()
	for {
		n, err := visitors.Cleanup(ctx, time.Now(), a.cfg.VisitorRetention)
		if err != nil {
			a.log.Warn("error cleaning up visitor data", "error", err)
		} else if n > 0 {
			a.log.Info("removed old visitor records", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
