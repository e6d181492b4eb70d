package main

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"pathsource/internal/appupdate"
	"pathsource/internal/config"
	"pathsource/internal/core"
	"pathsource/internal/filesystem"
	"pathsource/internal/styles"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

// NewRootCmd creates the root command. With no subcommand, an interactive
// terminal gets the browser and anything else gets usage.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pathsource",
		Short: "Filesystem path completion for the text before a cursor",
		Long: `pathsource resolves the text before an editing cursor into filesystem
completion candidates, the way an editor's path completion does: "../src/"
lists the sibling directory, "~/.co" lists hidden entries under your home,
and "https://" resolves to nothing at all.

Run without arguments for an interactive browser, or use the complete and
preview subcommands to drive it from scripts and editor integrations.`,
		Version:       BUILD_VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return runBrowser(cmd, args)
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.pathsource/config.yaml)")

	rootCmd.AddCommand(NewCompleteCmd())
	rootCmd.AddCommand(NewPreviewCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewUpdateCmd())
	rootCmd.AddCommand(NewTuiCmd())

	return rootCmd
}

// initialize loads configuration and builds the file logger shared by all
// subcommands.
func initialize() error {
	path := cfgFile
	if path == "" {
		path = core.ConfigFile()
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	logLevel := cfg.ZapLevel()
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	// Logs go to file only so they never interleave with completion output
	// or the Bubble Tea UI.
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	logger, err = loggerConfig.Build()
	if err != nil {
		return err
	}

	logger.Info("-------- new pathsource invocation --------", zap.Any("args", os.Args))

	notifyStartup()
	return nil
}

// notifyStartup surfaces the v0.x upgrade notice and any newer version a
// previous background check recorded. Notices go to stderr so command
// output stays machine-readable.
func notifyStartup() {
	if appupdate.IsUpgradeFromV0() {
		fmt.Fprintln(os.Stderr, appupdate.GetMigrationMessage())
	}
	if appupdate.GetLastUsedVersion() != BUILD_VERSION {
		if err := appupdate.UpdateVersionMarker(BUILD_VERSION); err != nil {
			logger.Warn("failed to update version marker", zap.Error(err))
		}
	}

	latest := appupdate.ReadLatestVersion(filesystem.DefaultFileSystem{})
	if latest != "" && newerThanBuild(latest) {
		fmt.Fprintln(os.Stderr, styles.NOTICE(
			fmt.Sprintf("pathsource %s is available, run `pathsource update`", latest)))
	}
}

// newerThanBuild reports whether version is a release newer than the running
// build. Dev builds never prompt.
func newerThanBuild(version string) bool {
	current, err := semver.NewVersion(BUILD_VERSION)
	if err != nil {
		return false
	}
	latest, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return latest.GreaterThan(current)
}
