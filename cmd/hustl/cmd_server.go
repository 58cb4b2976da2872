package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/config"
	"github.com/hustlcampus/hustl/internal/kernel"
	"github.com/hustlcampus/hustl/internal/server"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/cache"
	"github.com/hustlcampus/hustl/pkg/database"
	"github.com/hustlcampus/hustl/pkg/logger"
	"github.com/hustlcampus/hustl/pkg/session"
	"github.com/hustlcampus/hustl/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Migrate the database and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootSchema(cmd.OutOrStdout()); err != nil {
			return err
		}
		defer database.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := storage.Connect(ctx); err != nil {
			return err
		}

		defer cache.Close()

		k := kernel.NewHTTPKernel(kernel.Config{
			Services:       newServices(),
			Sessions:       sessionStore(ctx),
			SessionOptions: session.DefaultOptions(),
			Disk:           storage.Default(),
			StorageURL:     config.StorageURL(),
			RateLimit:      config.RateLimitPerMinute(),
			TrustProxy:     config.TrustProxy(),
		})
		return server.Start(":"+config.AppPort(), k.Handler())
	},
}

func newServices() *services.Services {
	user, pass := config.AdminCredentials()
	if user == "" || pass == "" || config.AppKey() == "" {
		logger.Warn("admin login disabled: set ADMIN_USERNAME, ADMIN_PASSWORD and APP_KEY")
	}
	return services.New(services.Deps{
		DB:                database.DB,
		Disk:              storage.Default(),
		AllowedExtensions: config.AllowedExtensions(),
		Tokens:            auth.NewTokens(config.AppKey(), config.SessionTTL()),
		Admin:             services.AdminCredentials{Username: user, Password: pass},
	})
}

// sessionStore uses Redis unless SESSION_DRIVER=memory or Redis is down.
func sessionStore(ctx context.Context) session.Store {
	if config.SessionDriver() == "memory" {
		return session.NewMemoryStore()
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, sessions kept in memory", "error", err)
		return session.NewMemoryStore()
	}
	return session.NewRedisStore()
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := kernel.NewHTTPKernel(kernel.Config{
			Services: services.New(services.Deps{
				Disk:   storage.NewMemoryDisk(),
				Tokens: auth.NewTokens("", 0),
			}),
			Sessions:       session.NewMemoryStore(),
			SessionOptions: session.DefaultOptions(),
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
