package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const verifyConcurrency = 4

type Installer struct {
	log *logrus.Logger
}

func New(log *logrus.Logger) *Installer {
	return &Installer{log: log}
}

// Install places exactly one verified binary for the given platform at
// target.Path(). Nothing is written to the target path unless the
// checksum matches.
func (i *Installer) Install(ctx context.Context, rel *registry.Release, target registry.InstallTarget, goos, goarch string) (string, error) {
	asset, err := rel.AssetFor(goos, goarch)
	if err != nil {
		return "", err
	}
	if target.Binary == "" {
		target.Binary = rel.Binary
	}
	if target.Binary == "" {
		return "", fmt.Errorf("no binary name configured for %s", rel.Name)
	}
	if err := os.MkdirAll(target.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create install directory: %w", err)
	}

	tmp, err := os.CreateTemp(target.Dir, "."+target.Binary+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	i.log.Infof("downloading %s (%s)", asset.FileName, asset.Platform())
	sum, err := DownloadAndVerify(ctx, asset, tmp)
	if cErr := tmp.Close(); err == nil && cErr != nil {
		err = cErr
	}
	if err != nil {
		return "", err
	}
	i.log.Debugf("verified %s sha256=%s", asset.FileName, sum)

	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return "", fmt.Errorf("failed to make binary executable: %w", err)
	}
	dest := target.Path()
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to install %s: %w", dest, err)
	}
	i.log.Infof("installed %s", dest)
	return dest, nil
}

type VerifyResult struct {
	Platform string
	FileName string
	Checksum string
	Err      error
}

// VerifyAll downloads every asset of the release and checks its checksum.
// A failing asset does not stop the others; failures are reported per platform.
func (i *Installer) VerifyAll(ctx context.Context, rel *registry.Release) []VerifyResult {
	platforms := rel.Platforms()
	results := make([]VerifyResult, len(platforms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyConcurrency)
	for idx, platform := range platforms {
		idx, platform := idx, platform
		asset := rel.Assets[platform]
		g.Go(func() error {
			sum, err := DownloadAndVerify(ctx, asset, io.Discard)
			results[idx] = VerifyResult{Platform: platform, FileName: asset.FileName, Checksum: sum, Err: err}
			if err != nil {
				i.log.Warnf("%s: %v", platform, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// InstallDir defaults to ~/.local/bin.
func InstallDir(dir string) string {
	if dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "bin")
	}
	return filepath.Join(os.TempDir(), "bin")
}
