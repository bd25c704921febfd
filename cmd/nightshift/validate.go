package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	nightshift "github.com/opsforge/nightshift"
	"github.com/opsforge/nightshift/stack"
)

// newValidateCmd creates the "validate" subcommand for checking the stack.
func newValidateCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the synthesized stack",
		Long: `Validate synthesizes the stack and checks its structure.

Checks performed:
  - Exactly one function resource and one schedule rule exist
  - The rule has exactly one target, and it is the function
  - The function timeout and rule schedule match the configuration
  - The rule holds an invoke permission for the function

Examples:
    nightshift validate
    nightshift validate --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStackConfig(cmd)
			if err != nil {
				return err
			}
			return runValidate(cfg, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runValidate(cfg stack.Config, format string) error {
	tmpl, err := stack.Synth(cfg)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := stack.Verify(cfg, tmpl)
	return outputValidateResult(result, format)
}

func outputValidateResult(result *nightshift.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success {
			fmt.Printf("Validation passed: %d resources OK\n", result.Resources)
			for _, warnMsg := range result.Warnings {
				fmt.Printf("  WARNING: %s\n", warnMsg)
			}
			return nil
		}

		fmt.Println("Validation FAILED:")
		for _, errMsg := range result.Errors {
			fmt.Printf("  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Printf("  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		os.Exit(1)
	}

	return nil
}
