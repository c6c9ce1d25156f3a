package cli

import (
	"context"

	"github.com/spf13/cobra"

	wfcache "github.com/matzehuels/wayfinder/pkg/cache"
	"github.com/matzehuels/wayfinder/pkg/config"
	"github.com/matzehuels/wayfinder/pkg/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		mapPath    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive planning HTTP API",
		Long: `Run the HTTP API. Clients create sessions, block nodes and edges,
adjust traffic, and request routes; the server keeps each session's
overlay isolated and invalidates its last route on every change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if mapPath != "" {
				cfg.Map.Path = mapPath
			}
			return c.runServe(withLogger(cmd.Context(), c.Logger), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&mapPath, "map", "m", "", "map file (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	topo, err := loadTopology(cfg.Map.Path)
	if err != nil {
		return err
	}
	logger.Info("loaded map", "nodes", topo.NodeCount(), "edges", topo.EdgeCount())

	cch, err := newServerCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cch.Close()

	srv := server.New(cfg, topo, cch, logger)
	return srv.Run(ctx)
}

// newServerCache builds the cache backend the config asks for.
func newServerCache(ctx context.Context, cfg config.Config) (wfcache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return wfcache.NewNullCache(), nil
	case config.CacheFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return wfcache.NewFileCache(dir)
	case config.CacheRedis:
		return wfcache.NewRedisCache(ctx, wfcache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	default:
		return wfcache.NewMemoryCache(), nil
	}
}
