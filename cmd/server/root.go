package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnavshah/shift-calendar-go/internal/app"
	"github.com/arnavshah/shift-calendar-go/internal/seed"
	"github.com/arnavshah/shift-calendar-go/pkg/auth"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Shift calendar API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSeedCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromEnv()
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			if port == "" {
				port = a.Config.Port
			}

			stopResync, err := a.Store.StartResync(a.Config.ResyncSchedule)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer stopResync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           a.Router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.Logger.Info("server starting", "port", port)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("could not run server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.Logger.Info("server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (defaults to PORT)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load employees and events from a YAML file",
		Long:  "Load employees and events from a YAML file into a user's calendar.\nThe user is taken from --owner or created from the file's user section.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromEnv()
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			f, err := seed.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			ctx := cmd.Context()
			if owner == "" {
				if f.User == nil {
					return errors.New("seed: --owner is required when the file has no user section")
				}
				owner, err = ensureUser(ctx, a.Auth, f.User.Username, f.User.Password)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}

			res, err := seed.Apply(ctx, a.Store, owner, f)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d employees and %d events for %s\n", res.Employees, res.Events, owner)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "user id that owns the seeded data")
	return cmd
}

func ensureUser(ctx context.Context, p *auth.Provider, username, password string) (string, error) {
	user, err := p.Register(ctx, username, password)
	if errors.Is(err, auth.ErrUserExists) {
		user, err = p.Lookup(ctx, username)
	}
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
