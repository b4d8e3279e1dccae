package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchRunner = runWatch

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Revalidate contracts whenever they change",
		Long: "Watch a contract file or directory and rerun validation after every " +
			"change, with a debounce so editor save bursts trigger one run.",
		Example: strings.TrimSpace(`  specroute watch --path ./specs
  specroute watch --path ./specs --validator standards --debounce 1000`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveValidateConfig(cmd)
			if err != nil {
				return err
			}
			debounce, err := resolveDebounce(cmd)
			if err != nil {
				return err
			}
			return watchRunner(cmd.Context(), cfg, debounce, cmd.OutOrStdout())
		},
	}

	addValidateFlags(cmd.Flags())
	cmd.Flags().Int("debounce", 0, "Quiet period in milliseconds before revalidating (default from config, 500)")
	return cmd
}

func resolveDebounce(cmd *cobra.Command) (time.Duration, error) {
	if cmd.Flags().Changed("debounce") {
		ms, err := cmd.Flags().GetInt("debounce")
		if err != nil {
			return 0, err
		}
		if ms <= 0 {
			return 0, newUsageError("watch: --debounce must be positive")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return 0, err
	}
	fileCfg, err := loadConfig(strings.TrimSpace(configPath))
	if err != nil {
		return 0, err
	}
	ms := fileCfg.Watch.Debounce
	if ms <= 0 {
		ms = 500
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func runWatch(ctx context.Context, cfg *ValidateConfig, debounce time.Duration, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := addWatchTargets(watcher, cfg.Path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s (debounce %s)\n", cfg.Path, debounce)
	runOnce := func() {
		if err := validateRunner(ctx, cfg, out); err != nil {
			fmt.Fprintf(out, "%v\n", err)
		}
	}
	runOnce()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories must join the watch set so files created
			// inside them keep triggering runs.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch error: %v\n", err)
		case <-timerC:
			runOnce()
		}
	}
}

// addWatchTargets registers the path and, for directories, every nested
// directory, since the watcher does not recurse on its own.
func addWatchTargets(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("watch: %v", err))
	}
	if !info.IsDir() {
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		return nil
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
		}
		return nil
	})
}
