package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todo-list/internal/config"
	apperrors "todo-list/internal/errors"
	"todo-list/internal/logging"
	"todo-list/internal/services"
	"todo-list/internal/web"
)

const (
	variantSQLite   = "sqlite"
	variantTextFile = "textfile"
)

func (r *RootCommand) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the SQLite-backed to-do list",
		Long: `Serve the to-do list backed by a SQLite table.

Tasks can be added, edited, toggled and deleted, and the whole list can be
downloaded or appended to as CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, closeFn, err := r.openServices(variantSQLite)
			if err != nil {
				return r.errors.Handle("open task database", err)
			}
			defer closeFn()

			handler := web.NewTaskRouter(container.TaskService, r.webOptions())
			return r.errors.Handle("serve", r.listenAndServe(cmd.Context(), handler))
		},
	}
}

func (r *RootCommand) newServeTextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-text",
		Short: "Serve the flat-file to-do list",
		Long: `Serve the to-do list stored one task per line in a text file.

A task is identified by its line position, so edits refer to the line index
shown on the page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, closeFn, err := r.openServices(variantTextFile)
			if err != nil {
				return r.errors.Handle("open task file", err)
			}
			defer closeFn()

			handler := web.NewTextListRouter(container.TextListService, r.webOptions())
			return r.errors.Handle("serve", r.listenAndServe(cmd.Context(), handler))
		},
	}
}

// openServices wires the services for one storage variant. The returned
// func releases whatever storage was opened.
func (r *RootCommand) openServices(variant string) (*services.ServiceContainer, func() error, error) {
	noop := func() error { return nil }

	switch variant {
	case variantSQLite:
		loc, err := r.config.Location()
		if err != nil {
			return nil, noop, err
		}
		repo, err := config.CreateRepository(r.config)
		if err != nil {
			return nil, noop, err
		}
		container := &services.ServiceContainer{
			TaskService: services.NewTaskService(repo, services.SystemClock(), loc),
		}
		return container, repo.Close, nil

	case variantTextFile:
		store, err := config.CreateTextStore(r.config)
		if err != nil {
			return nil, noop, err
		}
		logging.Debugf("text store at %s", store.Path())
		container := &services.ServiceContainer{
			TextListService: services.NewTextListService(store),
		}
		return container, noop, nil
	}

	return nil, noop, apperrors.NewInvalidInputError("variant", variant, "unknown storage variant")
}

func (r *RootCommand) webOptions() web.Options {
	return web.Options{
		Logger:            r.logger,
		SerializeRequests: r.config.Limits.SerializeRequests,
		RateRPS:           r.config.Limits.RateRPS,
		RateBurst:         r.config.Limits.RateBurst,
		MaxUploadBytes:    r.config.Limits.MaxUploadBytes,
	}
}

// listenAndServe runs handler on the configured address until SIGINT or
// SIGTERM arrives.
func (r *RootCommand) listenAndServe(ctx context.Context, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", r.config.Server.Addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  r.config.Server.ReadTimeout,
		WriteTimeout: r.config.Server.WriteTimeout,
	}
	return runServer(ctx, srv, ln, r.config.Server.ShutdownTimeout, r.logger)
}

// runServer serves on ln until ctx is done, then shuts srv down, giving
// in-flight requests up to shutdownTimeout to finish.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
