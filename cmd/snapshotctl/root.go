package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iTrooz/snapshot-cache/internal/cache"
	"github.com/iTrooz/snapshot-cache/internal/config"
	"github.com/iTrooz/snapshot-cache/internal/logging"
	"github.com/iTrooz/snapshot-cache/internal/snapshot"
)

var errDisabled = errors.New("caching is disabled: no cache folder configured")

// app is shared by every subcommand once the root pre-run has loaded the config
type app struct {
	configPath string
	dir        string

	cache cache.Cache[snapshot.State]
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "snapshotctl",
		Short:         "Inspect and manage the on-disk state snapshot cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&a.dir, "dir", "d", "", "Cache folder (overrides the config file)")

	cmd.AddCommand(a.newPutCmd(), a.newGetCmd(), a.newRmCmd(), a.newKeyCmd(), a.newPathCmd())
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if a.dir != "" {
		cfg.Cache.Folder = a.dir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.Setup(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts, err := cfg.CacheOptions(logger.WithField("component", "cache"))
	if err != nil {
		return err
	}
	a.cache = snapshot.NewCache(cfg.Cache.Folder, opts...)
	return nil
}

func (a *app) newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put",
		Short: "Store a JSON state snapshot read from stdin under its content key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := a.cache.Path(cache.Key{}); !ok {
				return errDisabled
			}
			state, key, err := readState(cmd.InOrStdin())
			if err != nil {
				return err
			}

			a.cache.Write(key, state)
			a.cache.Wait()

			if _, found := a.cache.Read(key); !found {
				return fmt.Errorf("snapshot %s was not stored, see logs", key)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
}

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the cached snapshot for a key as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cache.ParseKey(args[0])
			if err != nil {
				return err
			}
			state, found := a.cache.Read(key)
			if !found {
				return fmt.Errorf("no cached snapshot for %s", key)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}
}

func (a *app) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>...",
		Short: "Remove cached snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			keys := make([]cache.Key, 0, len(args))
			for _, arg := range args {
				key, err := cache.ParseKey(arg)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}
			for _, key := range keys {
				a.cache.Remove(key)
			}
			return nil
		},
	}
}

func (a *app) newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key",
		Short: "Print the content key of a JSON state snapshot read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, key, err := readState(cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
}

func (a *app) newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <key>",
		Short: "Print the file a key is stored in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cache.ParseKey(args[0])
			if err != nil {
				return err
			}
			path, ok := a.cache.Path(key)
			if !ok {
				return errDisabled
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

func readState(r io.Reader) (snapshot.State, cache.Key, error) {
	var state snapshot.State
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return state, cache.Key{}, fmt.Errorf("parsing snapshot JSON: %w", err)
	}
	key, err := state.Key()
	if err != nil {
		return state, cache.Key{}, err
	}
	return state, key, nil
}
