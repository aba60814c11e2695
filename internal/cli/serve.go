package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencourse/opencourse/internal/httpapi"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand runs the HTTP API for remote timing desks.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	serveOpts := &ServeOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timing HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := newService(st, cmd.ErrOrStderr())
			server := &http.Server{
				Addr:              serveOpts.Addr,
				Handler:           httpapi.NewServer(st, svc).Handler(cmd.ErrOrStderr()),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", "addr", serveOpts.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return NewExitError(ExitFailure, err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return NewExitError(ExitFailure, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serveOpts.Addr, "addr", ":8080", "listen address")

	return cmd
}
