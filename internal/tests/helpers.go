// Package tests holds cross-package scenarios for the snapshot cache
package tests

import (
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/iTrooz/snapshot-cache/internal/cache"
	"github.com/iTrooz/snapshot-cache/internal/config"
	"github.com/iTrooz/snapshot-cache/internal/snapshot"
)

// fixture_state creates a snapshot holding a single funded account
func fixture_state(balance uint64) snapshot.State {
	return snapshot.State{
		Accounts: map[string]snapshot.Account{
			"0x0000000000000000000000000000000000000001": {Balance: balance},
		},
	}
}

// fixture_config creates a test config pointing at tempDir
func fixture_config(tempDir string) *config.Config {
	cfg := config.Default()
	cfg.Cache.Folder = tempDir
	return cfg
}

// fixture_cache creates a state cache from cfg, logging into a test hook
func fixture_cache(cfg *config.Config) (cache.Cache[snapshot.State], *logtest.Hook, error) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)

	opts, err := cfg.CacheOptions(logger)
	if err != nil {
		return nil, nil, err
	}
	return snapshot.NewCache(cfg.Cache.Folder, opts...), hook, nil
}
