package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRelease() *Release {
	r := &Release{Name: "gradle-build-profiler", Version: "0.1.0", Binary: "gradle-build-profiler"}
	r.AddAsset(&Asset{FileName: "gradle_build_profiler-macos-x86_64", OS: "macos", Arch: "x86_64"})
	r.AddAsset(&Asset{FileName: "gradle_build_profiler-macos-aarch64", OS: "macos", Arch: "aarch64"})
	r.AddAsset(&Asset{FileName: "gradle_build_profiler-linux-x86_64", OS: "linux", Arch: "x86_64"})
	return r
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "darwin", NormalizeOS("macOS"))
	require.Equal(t, "linux", NormalizeOS("linux"))
	require.Equal(t, "amd64", NormalizeArch("x86_64"))
	require.Equal(t, "arm64", NormalizeArch("AARCH64"))
	require.Equal(t, "386", NormalizeArch("386"))
	require.Equal(t, "darwin/arm64", PlatformKey("osx", "aarch64"))
}

func TestAssetFor(t *testing.T) {
	r := newTestRelease()
	require.Equal(t, []string{"darwin/amd64", "darwin/arm64", "linux/amd64"}, r.Platforms())

	a, err := r.AssetFor("darwin", "arm64")
	require.NoError(t, err)
	require.Equal(t, "gradle_build_profiler-macos-aarch64", a.FileName)
	require.Equal(t, "darwin/arm64", a.Platform())

	a, err = r.AssetFor("linux", "amd64")
	require.NoError(t, err)
	require.Equal(t, "gradle_build_profiler-linux-x86_64", a.FileName)

	_, err = r.AssetFor("linux", "arm64")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
	require.ErrorContains(t, err, "linux/arm64")

	_, err = (&Release{Name: "empty"}).AssetFor("linux", "amd64")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestIsPlaceholderChecksum(t *testing.T) {
	require.True(t, IsPlaceholderChecksum(""))
	require.True(t, IsPlaceholderChecksum(PlaceholderChecksum))
	require.True(t, IsPlaceholderChecksum("0911f3dd"))
	require.False(t, IsPlaceholderChecksum("3fa65313f3ee7c23d31896e7f57af67618b88dff00f6eb7c3aba2d968d6d4b32"))
}

func TestInstallTargetPath(t *testing.T) {
	target := InstallTarget{Dir: "/usr/local/bin", Binary: "gradle-build-profiler"}
	require.Equal(t, filepath.Join("/usr/local/bin", "gradle-build-profiler"), target.Path())
}
