// Command nightshift synthesizes and manages the EC2 auto-shutdown
// CloudFormation stack: one Lambda function invoked daily at 18:00 UTC by
// an EventBridge rule.
//
// Usage:
//
//	nightshift build                 Generate the CloudFormation template
//	nightshift validate              Check the synthesized stack
//	nightshift schedule              Show upcoming fire times
//	nightshift package               Zip the function code directory
//	nightshift version               Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsforge/nightshift/stack"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nightshift",
		Short: "Synthesize the EC2 auto-shutdown CloudFormation stack",
		Long: `nightshift declares a scheduled EC2 shutdown stack and synthesizes its
CloudFormation template.

The stack contains one Lambda function with a 60 second timeout, one
EventBridge rule firing daily at 18:00 UTC, and the permission binding
them. Configuration is optional; with no config file the stack matches
the original deployment exactly:

    nightshift build --format yaml`,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Stack config file (YAML)")

	rootCmd.AddCommand(
		newBuildCmd(),
		newValidateCmd(),
		newLintCmd(),
		newDiffCmd(),
		newGraphCmd(),
		newScheduleCmd(),
		newPackageCmd(),
		newPublishCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nightshift %s\n", getVersion())
		},
	}
}

// loadStackConfig reads the stack config named by the persistent --config
// flag; with no flag it returns the default stack.
func loadStackConfig(cmd *cobra.Command) (stack.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return stack.Config{}, err
	}
	return stack.Load(path)
}
