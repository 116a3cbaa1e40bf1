package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/plotforge/plotforge/internal/classify"
	"github.com/plotforge/plotforge/internal/config"
	"github.com/plotforge/plotforge/internal/source"
)

// loadConfig reads the application config honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger builds the process logger. Dev mode enables debug output.
func newLogger(dev bool) *slog.Logger {
	level := slog.LevelInfo
	if dev {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openSources creates the source manager and loads the manifest when one
// is configured. Connection failures in the manifest are fatal: a server
// that silently drops sources is worse than one that refuses to start.
func openSources(cfg *config.Config, logger *slog.Logger) (*source.Manager, error) {
	manager := source.NewManager()
	if cfg.Sources.Manifest == "" {
		return manager, nil
	}
	if err := manager.LoadManifest(cfg.Sources.Manifest); err != nil {
		return nil, fmt.Errorf("loading source manifest %s: %w", cfg.Sources.Manifest, err)
	}
	logger.Info("sources loaded", "manifest", cfg.Sources.Manifest, "count", len(manager.List()))
	return manager, nil
}

// thresholdsFrom maps config values onto classifier thresholds.
func thresholdsFrom(cfg *config.Config) classify.Thresholds {
	return classify.Thresholds{
		WeakIDUnique:   cfg.Classify.WeakIDUnique,
		TextUnique:     cfg.Classify.TextUnique,
		HierarchyRatio: cfg.Classify.HierarchyRatio,
	}
}

// resolveSource returns the named source, or a one-off CSV source when
// --file is given. CSV files registered this way are named after the
// file and their single table carries the same name.
func resolveSource(manager *source.Manager, name, file string, rowCap int) (source.Source, string, error) {
	if file != "" {
		src, err := source.OpenCSV("", file, rowCap)
		if err != nil {
			return nil, "", fmt.Errorf("opening %s: %w", file, err)
		}
		return src, src.Table(), nil
	}
	if name == "" {
		return nil, "", fmt.Errorf("either --source or --file is required")
	}
	src, err := manager.Get(name)
	if err != nil {
		return nil, "", err
	}
	return src, "", nil
}
