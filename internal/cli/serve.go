package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoforge/internal/metrics"
	"github.com/matzehuels/ontoforge/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	listen   string
	autosave time.Duration
	metrics  bool
}

// serveCommand runs the HTTP adapter against the stored workspace.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{autosave: 30 * time.Second, metrics: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace over HTTP",
		Long: `Serve the workspace over HTTP. The workspace is restored from the
configured storage on start, saved every --autosave interval while it runs,
and saved once more on shutdown. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listen == "" {
				opts.listen = c.cfg.Server.Listen
			}
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&opts.autosave, "autosave", opts.autosave, "autosave interval (0 disables)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "expose Prometheus metrics on /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	s, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	srvOpts := []server.Option{server.WithLogger(c.Logger)}
	if opts.metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}
		m.Install()
		srvOpts = append(srvOpts, server.WithGatherer(reg))
	}

	ln, err := net.Listen("tcp", opts.listen)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Handler:           server.New(s.ws, srvOpts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	printSuccess("Serving on %s", StyleLink.Render("http://"+ln.Addr().String()))

	var tick <-chan time.Time
	if opts.autosave > 0 {
		t := time.NewTicker(opts.autosave)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-tick:
			if err := s.save(ctx); err != nil {
				c.Logger.Warn("autosave failed", "error", err)
			}
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				c.Logger.Warn("shutdown", "error", err)
			}
			if err := s.save(shutdownCtx); err != nil {
				return err
			}
			printSuccess("Workspace saved")
			return nil
		}
	}
}
