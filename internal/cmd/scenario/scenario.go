// Package scenario parses scenario command flags and plays the demo session.
package scenario

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/crucible-games/boardroom/internal/content"
	entrypoint "github.com/crucible-games/boardroom/internal/platform/cmd"
	"github.com/crucible-games/boardroom/internal/seed"
	"github.com/crucible-games/boardroom/internal/storage/sqlite"
)

// Config holds scenario command configuration.
type Config struct {
	DBPath   string `env:"BOARDROOM_DB_PATH"    envDefault:"boardroom.db"`
	PackPath string `env:"BOARDROOM_PACK_PATH"`
	Session  string `env:"BOARDROOM_SESSION_ID" envDefault:"ses_demo"`
	Verbose  bool   `env:"BOARDROOM_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.PackPath, "pack", cfg.PackPath, "content pack YAML path (default: embedded launch pack)")
	fs.StringVar(&cfg.Session, "session", cfg.Session, "session id")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the store, loads the content pack, and plays the demo session.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	pack := content.Default()
	if path := strings.TrimSpace(cfg.PackPath); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open content pack: %w", err)
		}
		defer f.Close()
		pack, err = content.Load(f)
		if err != nil {
			return fmt.Errorf("load content pack %s: %w", path, err)
		}
	}

	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		store, err := sqlite.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Printf("close store: %v", err)
			}
		}()

		seedCfg := seed.Config{SessionID: cfg.Session, Verbose: cfg.Verbose}
		return seed.Run(ctx, store, pack, seedCfg, out, errOut)
	})
}
