package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the portfolio over HTTP",
	Long: `The serve command starts the web host. Each visitor gets a session that
owns its own active section and modal state; the browser reports section
geometry as it scrolls and the server answers with the updated navigation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stdout, appConfig)
		return runServe(cmd.Context(), appConfig, logger)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (default 8080, or $PORT)")
	serveCmd.Flags().String("mode", "", "gin mode: debug, release or test")
	serveCmd.Flags().Bool("watch", false, "reload the content file when it changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	gin.SetMode(cfg.HTTP.Mode)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.HTTP.Address()),
		slog.String("content", contentName(cfg.Content)),
		slog.String("log_level", cfg.Level().String()))

	site, err := content.Load(ctx, cfg.Content)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	srv, err := web.New(cfg, site, logger)
	if err != nil {
		return fmt.Errorf("init web: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		srv.Sessions().RunJanitor(gCtx, cfg.Session.Sweep, logger)
		return nil
	})

	if cfg.Watch && cfg.Content != "" && !content.IsDatabase(cfg.Content) {
		g.Go(func() error {
			return content.Watch(gCtx, cfg.Content, logger, srv.SetSite)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the janitor and watcher stop with the
// server.
var errShutdown = errors.New("shutdown")

func contentName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
