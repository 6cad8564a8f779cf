package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sift/internal/cache"
	"sift/internal/driver"
	"sift/internal/manifest"
	"sift/internal/types"
)

// loadOptions builds the driver options from the persistent flags:
// the host environment from --env (through the disk cache unless
// --no-cache) layered over the built-ins, plus the diagnostics cap.
func loadOptions(cmd *cobra.Command) (driver.Options, error) {
	var opts driver.Options

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts.MaxDiagnostics = maxDiagnostics

	envPath, err := cmd.Root().PersistentFlags().GetString("env")
	if err != nil {
		return opts, fmt.Errorf("failed to get env flag: %w", err)
	}
	if envPath == "" {
		return opts, nil
	}

	noCache, _ := cmd.Root().PersistentFlags().GetBool("no-cache")
	scope, err := loadEnvironment(envPath, !noCache)
	if err != nil {
		return opts, err
	}
	opts.Scope = scope
	return opts, nil
}

func loadEnvironment(path string, cached bool) (types.Scope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Scope{}, fmt.Errorf("environment %s: %w", path, err)
	}

	var store *cache.ScopeCache
	key := cache.Key(data)
	if cached {
		// Cache failures are not fatal; resolving from scratch works.
		if store, err = cache.Open("sift"); err == nil {
			if scope, ok := store.Get(key); ok {
				return scope, nil
			}
		}
	}

	scope, err := manifest.Decode(string(data))
	if err != nil {
		return types.Scope{}, err
	}
	if store != nil {
		_ = store.Put(key, scope)
	}
	return scope, nil
}
