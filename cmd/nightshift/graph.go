package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsforge/nightshift/internal/graph"
	"github.com/opsforge/nightshift/stack"
)

func newGraphCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate DOT graph of the stack's resources",
		Long: `Generate a DOT or Mermaid graph of the stack: the schedule rule, the
function it triggers, and the permission binding them.

The output can be rendered with Graphviz:
    nightshift graph | dot -Tpng -o stack.png

Or used in GitHub markdown (Mermaid format):
    nightshift graph -f mermaid`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStackConfig(cmd)
			if err != nil {
				return err
			}
			return runGraph(cfg, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")

	return cmd
}

func runGraph(cfg stack.Config, format string) error {
	tmpl, err := stack.Synth(cfg)
	if err != nil {
		return err
	}

	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	gen := &graph.Generator{Format: graphFormat}
	return gen.Generate(tmpl, os.Stdout)
}
