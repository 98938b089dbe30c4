package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Chaebin-Park/GradleBuildProfiler/internal/formula"
	"github.com/Chaebin-Park/GradleBuildProfiler/internal/install"
	"github.com/Chaebin-Park/GradleBuildProfiler/internal/release"
	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
	"github.com/spf13/cobra"
)

// smokeTestExpect is what `--help` of an installed binary must print.
const smokeTestExpect = "gradle-profiler"

func newReleaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Inspect, verify and install published release binaries",
	}
	cmd.PersistentFlags().StringP("tag", "t", "latest", "release tag")
	cmd.PersistentFlags().Bool("from-formula", false, "use the bundled binary formula instead of GitHub")
	cmd.PersistentFlags().StringP("repo", "r", "", "GitHub repository (owner/repo)")

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the binary for this platform after verifying its checksum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReleaseInstall(cmd)
		},
	}
	installCmd.Flags().StringP("dir", "d", "", "install directory (default ~/.local/bin)")
	installCmd.Flags().Bool("skip-test", false, "do not run the --help smoke test")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the assets and checksums of a release",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runReleaseShow(cmd)
			},
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Download every asset of a release and verify its checksum",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runReleaseVerify(cmd)
			},
		},
		installCmd,
	)
	return cmd
}

func (a *app) resolveRelease(cmd *cobra.Command) (*registry.Release, error) {
	if must(cmd.Flags().GetBool("from-formula")) {
		formulas, err := formula.Defaults()
		if err != nil {
			return nil, err
		}
		for _, f := range formulas {
			if f.Kind == formula.KindBinary {
				return formula.ToRelease(f)
			}
		}
		return nil, fmt.Errorf("no binary formula bundled")
	}
	repo := must(cmd.Flags().GetString("repo"))
	if repo == "" {
		repo = a.cfg.Repo
	}
	tag := must(cmd.Flags().GetString("tag"))
	a.log.Infof("resolving %s@%s", repo, tag)
	rel, err := release.NewFetcher(a.cfg.CreateGitHubClient()).Get(cmd.Context(), repo, tag)
	if err != nil {
		return nil, err
	}
	if rel.Binary == "" {
		rel.Binary = "gradle-build-profiler"
	}
	return rel, nil
}

func (a *app) runReleaseShow(cmd *cobra.Command) error {
	rel, err := a.resolveRelease(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", rel.Name, rel.Version)
	for _, platform := range rel.Platforms() {
		asset := rel.Assets[platform]
		checksum := asset.Checksum
		if registry.IsPlaceholderChecksum(checksum) {
			checksum = fmt.Sprintf("MISSING (%q)", checksum)
		}
		fmt.Fprintf(out, "  %-13s %s\n  %-13s sha256: %s\n", platform, asset.URL, "", checksum)
	}
	return nil
}

func (a *app) runReleaseVerify(cmd *cobra.Command) error {
	rel, err := a.resolveRelease(cmd)
	if err != nil {
		return err
	}
	failed := make([]string, 0)
	for _, res := range install.New(a.log).VerifyAll(cmd.Context(), rel) {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
			failed = append(failed, res.Platform)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-13s %s\n", res.Platform, status)
	}
	if len(failed) > 0 {
		return fmt.Errorf("verification failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func (a *app) runReleaseInstall(cmd *cobra.Command) error {
	rel, err := a.resolveRelease(cmd)
	if err != nil {
		return err
	}
	dir := must(cmd.Flags().GetString("dir"))
	if dir == "" {
		dir = a.cfg.InstallDir
	}
	target := registry.InstallTarget{Dir: install.InstallDir(dir), Binary: rel.Binary}
	dest, err := install.New(a.log).Install(cmd.Context(), rel, target, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	if must(cmd.Flags().GetBool("skip-test")) {
		return nil
	}
	if err := install.SmokeTest(cmd.Context(), dest, smokeTestExpect); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", dest)
	return nil
}
