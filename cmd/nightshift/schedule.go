package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the rule's schedule and upcoming fire times",
		Long: `Schedule prints the rule's cron expression and the next invocation
times in UTC.

Examples:
    nightshift schedule
    nightshift schedule --next 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStackConfig(cmd)
			if err != nil {
				return err
			}

			expr := cfg.Schedule()
			fmt.Printf("Schedule: %s\n", expr)

			times, err := expr.Next(time.Now(), count)
			if err != nil {
				return err
			}

			fmt.Printf("Next %d fire times (UTC):\n", count)
			for _, t := range times {
				fmt.Printf("  %s\n", t.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "next", "n", 5, "Number of upcoming fire times to show")

	return cmd
}
