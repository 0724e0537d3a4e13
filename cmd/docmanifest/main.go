package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/docmanifest/internal/app"
	"github.com/quantmind-br/docmanifest/internal/config"
	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/utils"
	"github.com/quantmind-br/docmanifest/pkg/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagBindings maps root command flags to configuration keys
var flagBindings = map[string]string{
	"source-documents": "source.directory",
	"extension":        "source.extension",
	"site-root":        "site.root",
	"base-url":         "site.base_url",
	"template":         "template.path",
	"timestamp":        "snapshot.timestamp",
	"verify-existing":  "publish.verify_existing",
	"validate-pdf":     "inspect.enabled",
	"hash-cache":       "cache.enabled",
	"dry-run":          "output.dry_run",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "docmanifest",
		Short: "Publish documents under content-addressed paths and write a manifest",
		Long: `docmanifest scans a directory of documents (PDF by default), copies each
one to an immutable path derived from its SHA-256 digest below a static
site root, and writes manifest.json plus a timestamped snapshot under
manifests/.

An optional JSON or YAML template supplies descriptive metadata and the
order of entries.`,
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, cfgFile, verbose)
		},
	}

	flags := cmd.Flags()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", config.ConfigFilePath()))
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Input and output locations
	flags.String("source-documents", "", "Directory containing documents named <IDENTIFIER>.<ext> (required)")
	flags.String("site-root", "", "Published site directory (required)")
	flags.String("base-url", "", "Public base URL recorded in the manifest")
	flags.String("template", "", "JSON or YAML template with an identifiers list")
	flags.String("timestamp", "", "Snapshot timestamp override, UTC, format YYYYMMDD-HHMMSS")
	flags.String("extension", config.DefaultExtension, "Document file extension")

	// Behavior
	flags.Bool("verify-existing", false, "Re-hash already published files and replace mismatches")
	flags.Bool("validate-pdf", false, "Validate PDFs and record page counts")
	flags.Bool("hash-cache", false, "Reuse digests of files whose path, size and mtime are unchanged (a rewrite that keeps all three is not detected)")
	flags.Bool("dry-run", false, "Compute the manifest without writing files")
	flags.Bool("no-progress", false, "Disable progress bars")

	for name, key := range flagBindings {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, cfgFile string, verbose bool) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		cfg.Output.Progress = false
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := domain.DefaultCommonOptions()
	opts.Verbose = verbose
	opts.DryRun = cfg.Output.DryRun
	opts.Progress = opts.Progress && cfg.Output.Progress

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: opts,
		Config:        cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			utils.NewDefaultLogger().Info().Msg("Shutting down, no manifest will be written")
			cancel()
		case <-ctx.Done():
		}
	}()

	_, err = orchestrator.Run(ctx)
	return err
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(version.Get())
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}
