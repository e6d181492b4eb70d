package main

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"pathsource/internal/appupdate"
	"pathsource/internal/styles"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update pathsource to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			currentSemVer, err := semver.NewVersion(BUILD_VERSION)
			if err != nil {
				fmt.Println(styles.NOTICE("running a dev build, nothing to update"))
				return nil
			}

			updater, err := appupdate.NewGitHubUpdater()
			if err != nil {
				return err
			}

			latest, found, err := updater.DetectLatest(cmd.Context(), appupdate.UpdateRepo)
			if err != nil {
				return err
			}
			if !found {
				fmt.Println(styles.NOTICE("no release found"))
				return nil
			}

			latestSemVer, err := semver.NewVersion(latest.Version())
			if err != nil {
				return err
			}
			if latestSemVer.LessThanEqual(currentSemVer) {
				fmt.Println(styles.NOTICE("already running the latest version"))
				return nil
			}

			if check {
				fmt.Printf("new version available: %s (current %s)\n", latest.Version(), BUILD_VERSION)
				return nil
			}

			exePath, err := os.Executable()
			if err != nil {
				return err
			}
			if err := updater.UpdateTo(cmd.Context(), latest.AssetURL(), latest.AssetName(), exePath); err != nil {
				return err
			}

			if err := appupdate.UpdateVersionMarker(latest.Version()); err != nil {
				return err
			}

			fmt.Printf("updated to %s\n", latest.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "only check whether a newer release exists")

	return cmd
}
