package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	nightshift "github.com/opsforge/nightshift"
	"github.com/opsforge/nightshift/internal/template"
	"github.com/opsforge/nightshift/stack"
)

func newBuildCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the stack's CloudFormation template",
		Long: `Build synthesizes the auto-shutdown stack into a CloudFormation template.

Examples:
    nightshift build
    nightshift build -o template.json
    nightshift build --format yaml
    nightshift build -c nightshift.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStackConfig(cmd)
			if err != nil {
				return err
			}
			return runBuild(cfg, outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(cfg stack.Config, format, outputFile string) error {
	tmpl, err := stack.Synth(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("build failed")
	}

	return writeTemplate(tmpl, format, outputFile)
}

// writeTemplate renders a template in the requested format to a file or
// stdout.
func writeTemplate(tmpl *nightshift.Template, format, outputFile string) error {
	var data []byte
	var err error

	switch format {
	case "json":
		data, err = template.ToJSON(tmpl)
	case "yaml":
		data, err = template.ToYAML(tmpl)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}
