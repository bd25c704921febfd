package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opsforge/nightshift/internal/artifact"
)

func newPackageCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Zip the function code directory into a deployment artifact",
		Long: `Package zips the configured code asset directory. Packaging the same
sources twice yields byte-identical artifacts.

Examples:
    nightshift package
    nightshift package -o build/shutdown.zip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStackConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.Function.Code.Asset == "" {
				return fmt.Errorf("no code asset directory configured")
			}

			out := outputFile
			if out == "" {
				out = artifact.DefaultArtifactPath(cfg.Function.Code.Key)
			}

			if err := artifact.Package(cfg.Function.Code.Asset, out); err != nil {
				return err
			}

			fmt.Printf("Packaged %s -> %s\n", cfg.Function.Code.Asset, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Artifact path (default: derived from the code key)")

	return cmd
}

func newPublishCmd() *cobra.Command {
	var (
		artifactPath string
		region       string
		endpoint     string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the packaged artifact to the stack's S3 code location",
		Long: `Publish uploads a packaged artifact to the configured S3 bucket and key.
Credentials come from the ambient AWS credential chain.

Examples:
    nightshift publish --region us-east-1
    nightshift publish --region us-east-1 --artifact build/shutdown.zip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStackConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.Function.Code.Bucket == "" {
				return fmt.Errorf("no code bucket configured; set function.code.bucket")
			}

			path := artifactPath
			if path == "" {
				path = artifact.DefaultArtifactPath(cfg.Function.Code.Key)
			}

			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

			publisher, err := artifact.NewPublisher(cmd.Context(), artifact.PublishConfig{
				Region:   region,
				Endpoint: endpoint,
			}, log)
			if err != nil {
				return err
			}

			return publisher.Publish(cmd.Context(), path, cfg.Function.Code.Bucket, cfg.Function.Code.Key)
		},
	}

	cmd.Flags().StringVar(&artifactPath, "artifact", "", "Artifact path (default: derived from the code key)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Custom S3 endpoint (for testing)")

	return cmd
}
