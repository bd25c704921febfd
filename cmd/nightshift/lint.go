package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"
	"github.com/spf13/cobra"

	"github.com/opsforge/nightshift/internal/template"
	"github.com/opsforge/nightshift/stack"
)

// lintResult is the JSON output from `nightshift lint`.
type lintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

func newLintCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Lint the synthesized CloudFormation template",
		Long: `Lint synthesizes the stack and runs cfn-lint against the template.

This catches provider-level issues the structural validation does not,
such as invalid property combinations or deprecated runtimes.

Examples:
    nightshift lint
    nightshift lint --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStackConfig(cmd)
			if err != nil {
				return err
			}
			return runLint(cfg, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runLint(cfg stack.Config, format string) error {
	tmpl, err := stack.Synth(cfg)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	data, err := template.ToJSON(tmpl)
	if err != nil {
		return err
	}

	// cfn-lint works on files; stage the template in a temp dir.
	dir, err := os.MkdirTemp("", "nightshift-lint")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(path)
	if err != nil {
		return fmt.Errorf("linter error: %w", err)
	}

	result := lintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)
		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// Warnings are acceptable; errors are not.
	result.Passed = len(result.Errors) == 0

	return outputLintResult(result, format)
}

// formatMatch formats a cfn-lint match for display.
func formatMatch(match lint.Match) string {
	pathStr := ""
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		pathStr = strings.Join(parts, "/")
	}

	if pathStr != "" {
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, pathStr)
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}

func outputLintResult(result lintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Passed && len(result.Warnings) == 0 && len(result.Informational) == 0 {
			fmt.Println("No issues found.")
			return nil
		}
		for _, msg := range result.Errors {
			fmt.Printf("error: %s\n", msg)
		}
		for _, msg := range result.Warnings {
			fmt.Printf("warning: %s\n", msg)
		}
		for _, msg := range result.Informational {
			fmt.Printf("info: %s\n", msg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Passed {
		os.Exit(1)
	}

	return nil
}
