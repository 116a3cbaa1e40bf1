package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotforge/plotforge/internal/auth"
	"github.com/plotforge/plotforge/internal/cache"
	"github.com/plotforge/plotforge/internal/pattern"
	"github.com/plotforge/plotforge/internal/render"
	"github.com/plotforge/plotforge/internal/server"
)

const banner = `
 ___ _    ___ _____ ___ ___  ___  ___ ___
| _ \ |  / _ \_   _| __/ _ \| _ \/ __| __|
|  _/ |_| (_) || | | _| (_) |   / (_ | _|
|_| |____\___/ |_| |_| \___/|_|_\\___|___|
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the PlotForge API server",
		Long:  "Start the HTTP server that exposes chart recommendation, pattern catalog, and query endpoints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP listen port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP listen host (overrides config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	return cmd
}

func runServe(host string, port int, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	logger := newLogger(dev)

	sources, err := openSources(cfg, logger)
	if err != nil {
		return err
	}

	registry := pattern.NewDefaultRegistry()
	specs := cache.NewSpecStore(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	results := cache.NewResultCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	renderer := render.NewRegistry()

	tokens := auth.NewTokenService(cfg.Auth.Secret)
	if tokens == nil {
		logger.Warn("auth disabled: no auth.secret configured")
	}

	handler := server.NewHandler(sources, registry, specs, results, renderer, thresholdsFrom(cfg), cfg.Query.SampleRows)

	srvCfg := server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.Server.RateLimit,
	}
	srv := server.New(srvCfg, handler, sources, specs, results, tokens, logger)

	fmt.Printf("→ PlotForge\n")
	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Patterns:  %d registered\n", registry.Len())
	fmt.Printf("→ Sources:   %d connected\n", len(sources.List()))
	fmt.Printf("→ Health:    http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()

	return srv.ListenAndServe()
}
