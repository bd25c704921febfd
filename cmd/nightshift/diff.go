package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsforge/nightshift/internal/differ"
	"github.com/opsforge/nightshift/stack"
)

func newDiffCmd() *cobra.Command {
	var (
		outputFormat string
		exitCode     bool
	)

	cmd := &cobra.Command{
		Use:   "diff <template> [template2]",
		Short: "Compare templates",
		Long: `Diff compares the synthesized stack against a saved template file,
or two template files against each other.

Examples:
    nightshift diff template.json            # synthesis vs saved template
    nightshift diff old.json new.yaml        # file vs file
    nightshift diff template.json --exit-code`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *differ.Result
			var err error

			if len(args) == 2 {
				result, err = differ.CompareFiles(args[0], args[1])
			} else {
				var cfg stack.Config
				cfg, err = loadStackConfig(cmd)
				if err != nil {
					return err
				}
				result, err = diffAgainstSynth(cfg, args[0])
			}
			if err != nil {
				return err
			}

			if err := outputDiffResult(result, outputFormat); err != nil {
				return err
			}

			if exitCode && result.Summary.Total > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit non-zero when differences exist")

	return cmd
}

// diffAgainstSynth compares a saved template file against the current
// synthesis. The saved file is the old side.
func diffAgainstSynth(cfg stack.Config, file string) (*differ.Result, error) {
	saved, err := differ.LoadTemplate(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file, err)
	}

	current, err := stack.Synth(cfg)
	if err != nil {
		return nil, err
	}

	return differ.Compare(saved, current)
}

func outputDiffResult(result *differ.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result.Diff, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Summary.Total == 0 {
			fmt.Println("No differences.")
			return nil
		}
		for _, entry := range result.Diff.Added {
			fmt.Printf("+ %s (%s)\n", entry.Resource, entry.Type)
		}
		for _, entry := range result.Diff.Removed {
			fmt.Printf("- %s (%s)\n", entry.Resource, entry.Type)
		}
		for _, entry := range result.Diff.Modified {
			fmt.Printf("~ %s (%s)\n", entry.Resource, entry.Type)
			for _, change := range entry.Changes {
				fmt.Printf("    %s: %v -> %v\n", change.Path, change.Old, change.New)
			}
		}
		fmt.Printf("%d added, %d removed, %d modified\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
