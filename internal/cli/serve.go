package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpHandler "github.com/mmuslimabdulj/quickmeet/internal/delivery/http"
	"github.com/mmuslimabdulj/quickmeet/internal/delivery/ws"
	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/middleware"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

const sweepInterval = time.Minute

func NewServeCmd(deps *Dependencies) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				deps.Config.Port = port
			}
			return runServer(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")

	return cmd
}

// serverTheme reads the server-wide default theme. A missing or unreadable
// file means no default.
func serverTheme(store usecase.ThemeStore) domain.Theme {
	if store == nil {
		return ""
	}
	theme, ok, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring server theme file")
		return ""
	}
	if !ok {
		return ""
	}
	return theme
}

func runServer(ctx context.Context, deps *Dependencies) error {
	cfg := deps.Config
	if ctx == nil {
		ctx = context.Background()
	}

	// Initialize dependencies
	roomManager := ws.NewRoomManager(
		ws.WithGracePeriod(cfg.RoomGracePeriod),
		ws.WithTTL(cfg.SessionTTL),
		ws.WithNotificationBuffer(cfg.NotificationBuffer),
		ws.WithMaxMessageSize(cfg.MaxMessageSize),
	)
	roomManager.StartSweeper(sweepInterval)
	defer roomManager.Close()

	apiLimiter := middleware.NewIPRateLimiter(cfg.APILimit(), int(cfg.RateLimitAPI*2))
	wsLimiter := middleware.NewIPRateLimiter(cfg.WSLimit(), int(cfg.RateLimitWS*2))
	defer apiLimiter.Stop()
	defer wsLimiter.Stop()

	handler := httpHandler.NewHandler(cfg, roomManager, deps.Generator, serverTheme(deps.ThemeStore))

	// Create server with timeouts
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      httpHandler.NewRouter(handler, cfg.StaticDir, apiLimiter, wsLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msgf("QuickMeet running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Int("rooms", roomManager.RoomCount()).Msg("Server exited gracefully")
	return nil
}
