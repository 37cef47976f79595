package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/logger"
)

// Serve listens on cfg.HTTP.Listen until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           NewHandler(cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on http://%s", cfg.HTTP.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
