package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opsforge/nightshift/stack"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on change.
func newWatchCmd() *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize when the config or code directory changes",
		Long: `Watch monitors the config file and the code asset directory and
re-validates and re-synthesizes the template on each change.

Examples:
    nightshift watch -c nightshift.yaml -o template.json
    nightshift watch --debounce 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			return runWatch(configPath, watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: stdout)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch monitors the config and asset directory, rebuilding on changes.
func runWatch(configPath string, opts watchOptions) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dirs, err := watchDirs(configPath)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Info().Str("dir", dir).Msg("watching")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rebuild := func() {
		cfg, err := stack.Load(configPath)
		if err != nil {
			log.Error().Err(err).Msg("config rejected")
			return
		}

		tmpl, err := stack.Synth(cfg)
		if err != nil {
			log.Error().Err(err).Msg("synthesis failed")
			return
		}

		if result := stack.Verify(cfg, tmpl); !result.Success {
			for _, msg := range result.Errors {
				log.Error().Msg(msg)
			}
			return
		}

		if err := writeTemplate(tmpl, opts.outputFormat, opts.outputFile); err != nil {
			log.Error().Err(err).Msg("writing template failed")
			return
		}
		log.Info().Int("resources", len(tmpl.Resources)).Msg("template synthesized")
	}

	log.Info().Msg("initial build")
	rebuild()

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			log.Info().Msg("change detected, rebuilding")
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watch error")

		case <-sigChan:
			log.Info().Msg("stopping watch")
			return nil
		}
	}
}

// watchDirs resolves the directories to monitor: the config file's
// directory and the configured code asset directory, when present.
func watchDirs(configPath string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) error {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
		return nil
	}

	if configPath != "" {
		if err := add(filepath.Dir(configPath)); err != nil {
			return nil, err
		}
	}

	cfg, err := stack.Load(configPath)
	if err != nil {
		return nil, err
	}
	if asset := cfg.Function.Code.Asset; asset != "" {
		if info, err := os.Stat(asset); err == nil && info.IsDir() {
			if err := add(asset); err != nil {
				return nil, err
			}
		}
	}

	if len(dirs) == 0 {
		return nil, fmt.Errorf("nothing to watch: no config file and no asset directory")
	}
	return dirs, nil
}
