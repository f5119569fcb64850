package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"vimagination.zapto.org/inlineruntime/bundle"
	"vimagination.zapto.org/inlineruntime/config"
)

var version = "dev"

var (
	configPath      string
	outputPath      string
	removeSourceMap bool
	dryRun          bool
	verbose         bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "inlineruntime",
	Short:         "Build entry chunks and inline their runtime chunks into HTML",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lc := zap.NewProductionConfig()
		if verbose {
			lc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		l, err := lc.Build()
		if err != nil {
			return fmt.Errorf("error initialising logger: %w", err)
		}

		logger = l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run a build described by a config file",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	buildCmd.Flags().StringVarP(&configPath, "config", "c", "inlineruntime.yaml", "config file")
	buildCmd.Flags().StringVarP(&outputPath, "out", "o", "", "output directory, overriding the config")
	buildCmd.Flags().BoolVar(&removeSourceMap, "remove-source-map", false, "strip source map comments from inlined runtime chunks")
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "build without writing any files")

	rootCmd.AddCommand(buildCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if cfg.Build.Output == nil {
			cfg.Build.Output = new(bundle.OutputOptions)
		}

		cfg.Build.Output.Path = outputPath
	}

	if removeSourceMap {
		cfg.Inline.RemoveSourceMap = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	var output bundle.OutputFileSystem = bundle.OSFileSystem{}

	if dryRun {
		output = bundle.NewMemFS()
	}

	c := bundle.New(cfg.Build, bundle.OutputFS(output), bundle.Logger(logger), bundle.Plugins(cfg.Plugins()...))

	stats, err := c.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)

	for _, a := range stats.Assets {
		fmt.Fprintf(w, "%s\t%d\n", a.Name, a.Size)
	}

	fmt.Fprintf(w, "hash\t%s\n", stats.Hash)

	return w.Flush()
}
