// Package install unpacks the Kubernetes release bundle staged on the node
// and installs the control-plane binaries into the executable path. It runs
// once per node; the installed flag in the reconciliation core keeps it from
// running again.
package install

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/logger"
	"github.com/kubelift/kubelift/pkg/runner"
	"github.com/kubelift/kubelift/pkg/status"
)

// MinBundleVersion is the oldest release bundle the rendered service
// definitions are known to work with.
var MinBundleVersion = semver.MustParse("1.6.0")

// Installer performs the one-time binary install. The directory fields
// default to the fixed node layout and are only overridden by tests.
type Installer struct {
	Runner runner.Runner
	Log    *logger.Logger
	Status status.Setter

	WorkDir    string
	BinDir     string
	MinVersion *semver.Version
	// ShowProgress drives a terminal progress bar during extraction.
	ShowProgress bool
}

// NewInstaller returns an Installer against the node's fixed layout.
func NewInstaller(run runner.Runner, log *logger.Logger, st status.Setter) *Installer {
	return &Installer{
		Runner:       run,
		Log:          log,
		Status:       st,
		WorkDir:      common.WorkDir,
		BinDir:       common.BinDir,
		MinVersion:   MinBundleVersion,
		ShowProgress: true,
	}
}

// BundlePath returns where the release bundle is expected on the node.
func (i *Installer) BundlePath() string {
	return filepath.Join(i.WorkDir, common.FilesDirName, common.BundleName)
}

// extractDir is where the bundle contents are unpacked.
func (i *Installer) extractDir() string {
	return filepath.Join(i.WorkDir, common.RenderedKubeDirName)
}

// checkBundleVersion gates on the version file shipped inside the bundle. A
// bundle without a version file installs with a warning; older bundles
// predate the file.
func (i *Installer) checkBundleVersion() error {
	raw, err := os.ReadFile(filepath.Join(i.extractDir(), common.BundleVersionFile))
	if err != nil {
		if os.IsNotExist(err) {
			i.Log.Warnf("bundle has no %s file, skipping version gate", common.BundleVersionFile)
			return nil
		}
		return errors.Wrap(err, "failed to read bundle version")
	}
	version, err := semver.NewVersion(strings.TrimSpace(string(raw)))
	if err != nil {
		return errors.Wrapf(err, "bundle version %q is not a valid version", strings.TrimSpace(string(raw)))
	}
	if version.LessThan(i.MinVersion) {
		return errors.Errorf("bundle version %s is older than minimum supported %s", version, i.MinVersion)
	}
	i.Log.Infof("bundle version %s accepted", version)
	return nil
}

// InstallBinaries unpacks the bundle and installs every control-plane
// binary. Any failure is fatal; a partial install must not be marked done.
func (i *Installer) InstallBinaries(ctx context.Context) error {
	i.Status.Set(status.Maintenance, "Installing Kubernetes master components.")

	opts := []Option{WithOverwrite(true)}
	if i.ShowProgress {
		bar := progressbar.NewOptions64(-1,
			progressbar.OptionSetDescription("extracting "+common.BundleName),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
		)
		opts = append(opts, WithProgress(func(name string, totalBytes int64) {
			_ = bar.Add(1)
		}))
	}

	if err := NewExtractor(opts...).Extract(i.BundlePath(), i.extractDir()); err != nil {
		return errors.Wrap(err, "failed to extract kubernetes bundle")
	}

	if err := i.checkBundleVersion(); err != nil {
		return err
	}

	if err := i.Runner.Mkdirp(ctx, i.BinDir); err != nil {
		return errors.Wrapf(err, "failed to create %s", i.BinDir)
	}

	for _, binary := range common.AllComponents {
		src := filepath.Join(i.extractDir(), binary)
		if err := i.Runner.InstallBinary(ctx, src, i.BinDir); err != nil {
			return errors.Wrapf(err, "failed to install %s", binary)
		}
		i.Log.Infof("installed %s", binary)
	}

	i.Log.Successf("Kubernetes master components installed.")
	return nil
}
