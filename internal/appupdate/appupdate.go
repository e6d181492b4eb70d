package appupdate

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"pathsource/internal/core"
	"pathsource/internal/filesystem"
)

// UpdateRepo is the GitHub slug releases are published under.
const UpdateRepo = "pathsource/pathsource"

// HandleSelfUpdate checks the remote repository for a newer release in the
// background. The returned channel delivers the newer version string if one
// exists and is closed either way.
func HandleSelfUpdate(
	currentVersion string,
	logger *zap.Logger,
	fs filesystem.FileSystem,
	updater Updater,
) chan string {
	resultChannel := make(chan string)

	currentSemVer, err := semver.NewVersion(currentVersion)
	if err != nil {
		logger.Debug("running a dev build, skipping self-update check")
		close(resultChannel)
		return resultChannel
	}

	go fetchAndSaveLatestVersion(resultChannel, logger, fs, updater, currentSemVer)

	return resultChannel
}

// ReadLatestVersion returns the most recently recorded remote version, or
// empty string when no check has completed yet.
func ReadLatestVersion(fs filesystem.FileSystem) string {
	file, err := fs.Open(core.LatestVersionFile())
	if err != nil {
		return ""
	}
	defer file.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, file)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(buf.String())
}

func fetchAndSaveLatestVersion(resultChannel chan string, logger *zap.Logger, fs filesystem.FileSystem, updater Updater, currentSemVer *semver.Version) {
	defer close(resultChannel)

	latest, found, err := updater.DetectLatest(context.Background(), UpdateRepo)
	if err != nil {
		logger.Warn("error occurred while getting latest version from remote", zap.Error(err))
		return
	}
	if !found {
		logger.Warn("latest version could not be found")
		return
	}

	latestSemVer, err := semver.NewVersion(latest.Version())
	if err != nil {
		logger.Error("failed to parse latest version", zap.Error(err))
		return
	}

	if latestSemVer.LessThanEqual(currentSemVer) {
		logger.Debug("already running the latest version")
		return
	}

	// Save the latest version so the CLI can mention it on the next run
	file, err := fs.Create(core.LatestVersionFile())
	if err != nil {
		logger.Error("failed to save latest version", zap.Error(err))
		return
	}
	defer file.Close()

	_, err = file.WriteString(latest.Version())
	if err != nil {
		logger.Error("failed to save latest version", zap.Error(err))
		return
	}

	logger.Info("new version available", zap.String("current", currentSemVer.String()), zap.String("latest", latest.Version()))
	resultChannel <- latest.Version()
}
