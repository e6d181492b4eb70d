package appupdate

import (
	"context"

	"github.com/creativeprojects/go-selfupdate"
)

// Release describes one published release of the binary.
type Release interface {
	Version() string
	AssetURL() string
	AssetName() string
}

// Updater checks for and applies binary updates.
type Updater interface {
	DetectLatest(ctx context.Context, repo string) (Release, bool, error)
	UpdateTo(ctx context.Context, assetURL, assetName, exePath string) error
}

type gitHubUpdater struct {
	updater *selfupdate.Updater
}

// NewGitHubUpdater returns an Updater backed by GitHub releases.
func NewGitHubUpdater() (Updater, error) {
	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return nil, err
	}
	return &gitHubUpdater{updater: updater}, nil
}

func (g *gitHubUpdater) DetectLatest(ctx context.Context, repo string) (Release, bool, error) {
	release, found, err := g.updater.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil || !found {
		return nil, found, err
	}
	return gitHubRelease{release: release}, true, nil
}

func (g *gitHubUpdater) UpdateTo(ctx context.Context, assetURL, assetName, exePath string) error {
	return g.updater.UpdateTo(ctx, &selfupdate.Release{
		AssetURL:  assetURL,
		AssetName: assetName,
	}, exePath)
}

type gitHubRelease struct {
	release *selfupdate.Release
}

func (g gitHubRelease) Version() string   { return g.release.Version() }
func (g gitHubRelease) AssetURL() string  { return g.release.AssetURL }
func (g gitHubRelease) AssetName() string { return g.release.AssetName }
