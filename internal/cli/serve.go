package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/reelworks/reelgraph/pkg/buildinfo"
	"github.com/reelworks/reelgraph/pkg/observability"
	"github.com/reelworks/reelgraph/pkg/pipeline"
)

const serveShutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve [manifest]",
		Short: "Serve the render graph and diagrams over HTTP",
		Long: `Serve the render graph and diagrams over HTTP.

The manifest is rebuilt on every request, so edits show up on reload.

Endpoints:

  GET /graph      render graph JSON
  GET /lanes.svg  lane diagram
  GET /tree.svg   component tree (Graphviz)
  GET /dot        component tree DOT source
  GET /healthz    health check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Manifest = args[0]
			return c.runServe(cmd.Context(), addr, opts, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include track, timing, and layer in diagram labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "lane diagram scale in pixels per second")
	cmd.Flags().BoolVar(&opts.Ruler, "ruler", false, "add a second-tick ruler to the lane diagram")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	srv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(runner, opts),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	c.Logger.Info("preview server listening", "addr", addr, "manifest", opts.Manifest)
	printInfo("Serving %s on %s", opts.Manifest, StyleHighlight.Render("http://localhost"+addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildRouter creates the HTTP router with all routes and middleware.
// Handlers log through the request context's logger, which the server's
// BaseContext inherits from the command context.
func buildRouter(runner *pipeline.Runner, opts pipeline.Options) http.Handler {
	r := chi.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(hooksMiddleware)

	r.Get("/healthz", handleHealth)
	r.Get("/graph", handleArtifact(runner, opts, pipeline.FormatJSON, "application/json"))
	r.Get("/lanes.svg", handleArtifact(runner, opts, pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/tree.svg", handleArtifact(runner, opts, pipeline.FormatTree, "image/svg+xml"))
	r.Get("/dot", handleArtifact(runner, opts, pipeline.FormatDOT, "text/vnd.graphviz"))

	return r
}

// handleHealth returns the server health status.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","version":%q}`+"\n", buildinfo.Version)
}

// handleArtifact rebuilds the manifest and serves one emitted format.
func handleArtifact(runner *pipeline.Runner, opts pipeline.Options, format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		reqOpts := opts
		reqOpts.Formats = []string{format}

		result, err := runner.Execute(req.Context(), reqOpts)
		if err != nil {
			loggerFromContext(req.Context()).Error("build failed", "format", format, "error", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(result.Artifacts[format])
	}
}

// statusRecorder captures the response status for logging and hooks.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs each request with its status and duration through
// the context logger.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		loggerFromContext(req.Context()).Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// hooksMiddleware reports requests and responses to the HTTP hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path, rec.status, time.Since(start))
	})
}
