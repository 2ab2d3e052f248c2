package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"maxloyalty.com/backoffice/config"
	"maxloyalty.com/backoffice/infrastructure/devops"
	"maxloyalty.com/backoffice/logger"
	"maxloyalty.com/backoffice/security"
	"maxloyalty.com/backoffice/store/gormstore"
	"maxloyalty.com/backoffice/web"
)

const shutdownTimeout = 10 * time.Second

// ServeCommand runs the development backend.
func ServeCommand(opts *ConfigOptions) *cobra.Command {
	var addr, storeKind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development backend",
		Long: `Serves the REST API the console talks to. The memory store starts from
demo data and forgets everything on exit; the mysql store uses the
configured database and migrates its tables on start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Load(cmd.Context())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if storeKind != "" {
				cfg.Server.Store = storeKind
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from configuration, :8080)")
	cmd.Flags().StringVar(&storeKind, "store", "", "memory or mysql (default from configuration)")
	return cmd
}

func openStores(ctx context.Context, cfg *config.Config) (*web.Stores, error) {
	switch cfg.Server.Store {
	case "", "memory":
		return web.MemoryStores(web.DemoSeed(time.Now())), nil
	case "mysql":
		dsn, err := devops.ResolveDSN(ctx, nil, cfg.Database)
		if err != nil {
			return nil, err
		}
		db, err := gormstore.Connect(dsn, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := gormstore.Migrate(db); err != nil {
			return nil, err
		}
		return web.GormStores(db), nil
	}
	return nil, fmt.Errorf("unknown store %q, use memory or mysql", cfg.Server.Store)
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New("devapi", cfg.LogLevel)

	secret, err := security.DecodeSecret(cfg.Auth.SigningSecret)
	if err != nil {
		return fmt.Errorf("auth.signingSecret: %w", err)
	}
	stores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: web.NewRouter(web.Dependencies{
			Server:  cfg.Server,
			Auth:    cfg.Auth,
			Company: cfg.Report.Company,
			Secret:  secret,
			Stores:  stores,
			Logger:  log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", server.Addr, "store", cfg.Server.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// TokenCommand mints an identity token signed with the configured secret.
func TokenCommand(opts *ConfigOptions) *cobra.Command {
	identity := &security.Identity{}
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Create an API token for an operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Load(cmd.Context())
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}
			token, err := security.CreateIdentityToken(identity, cfg.Auth.SigningSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&identity.ID, "id", 1, "user id")
	flags.StringVar(&identity.UserName, "user", "admin", "user name")
	flags.StringVar(&identity.Email, "email", "", "email")
	flags.StringVar(&identity.Role, "role", "admin", "role")
	flags.DurationVar(&ttl, "ttl", 0, "lifetime (default from configuration)")
	return cmd
}
