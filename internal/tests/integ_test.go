package tests

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/iTrooz/snapshot-cache/internal/cache"
)

func TestSharedDirectoryIntegration(t *testing.T) {
	tempDir := t.TempDir()
	cfg := fixture_config(tempDir)

	// Two independent caches over the same folder, as two processes would have
	writer, _, err := fixture_cache(cfg)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	reader, _, err := fixture_cache(cfg)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	key := cache.Key{31: 0x01}

	t.Run("miss before write", func(t *testing.T) {
		if _, found := reader.Read(key); found {
			t.Errorf("Expected cache miss before any write")
		}
	})

	t.Run("hit from sibling", func(t *testing.T) {
		writer.Write(key, fixture_state(5))
		writer.Wait()

		state, found := reader.Read(key)
		if !found {
			t.Fatalf("Expected cache hit after write")
		}
		if got := state.Accounts["0x0000000000000000000000000000000000000001"].Balance; got != 5 {
			t.Errorf("Expected balance 5, got %d", got)
		}
	})

	t.Run("removed by sibling", func(t *testing.T) {
		reader.Remove(key)

		if _, found := writer.Read(key); found {
			t.Errorf("Expected cache miss after remove")
		}

		entries, err := os.ReadDir(tempDir)
		if err != nil {
			t.Fatalf("Failed to list cache folder: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected empty cache folder, found %d entries", len(entries))
		}
	})
}

func TestCompressionLevelsAreCompatible(t *testing.T) {
	tempDir := t.TempDir()
	key := cache.HashKey([]byte("levels"))

	for _, level := range []string{"fastest", "default", "better", "best"} {
		t.Run(level, func(t *testing.T) {
			writeCfg := fixture_config(tempDir)
			writeCfg.Cache.Compression = level
			writer, _, err := fixture_cache(writeCfg)
			if err != nil {
				t.Fatalf("Failed to create cache: %v", err)
			}

			// Reading never depends on the level used to write
			reader, _, err := fixture_cache(fixture_config(tempDir))
			if err != nil {
				t.Fatalf("Failed to create cache: %v", err)
			}

			writer.Write(key, fixture_state(42))
			writer.Wait()

			state, found := reader.Read(key)
			if !found {
				t.Fatalf("Expected cache hit for level %s", level)
			}
			if len(state.Accounts) != 1 {
				t.Errorf("Expected 1 account, got %d", len(state.Accounts))
			}
		})
	}
}

func TestExtensionMismatchIsMiss(t *testing.T) {
	tempDir := t.TempDir()
	key := cache.HashKey([]byte("ext"))

	binCfg := fixture_config(tempDir)
	binCfg.Cache.Extension = ".bin"
	writer, _, err := fixture_cache(binCfg)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	reader, hook, err := fixture_cache(fixture_config(tempDir))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	writer.Write(key, fixture_state(1))
	writer.Wait()

	if _, found := reader.Read(key); found {
		t.Errorf("Expected cache miss for a different extension")
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.DebugLevel {
		t.Errorf("Expected a debug miss record, got %v", entry)
	}
}

func TestDisabledConfig(t *testing.T) {
	c, hook, err := fixture_cache(fixture_config(""))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	key := cache.HashKey([]byte("disabled"))
	c.Write(key, fixture_state(1))
	c.Wait()
	c.Remove(key)

	if _, found := c.Read(key); found {
		t.Errorf("Expected disabled cache to always miss")
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("Expected disabled cache to log nothing, got %d records", len(hook.AllEntries()))
	}
}
