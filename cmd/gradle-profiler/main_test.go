package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Chaebin-Park/GradleBuildProfiler/internal/config"
	"github.com/Chaebin-Park/GradleBuildProfiler/internal/parser"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testProfile = "../../internal/parser/testdata/profile-2024-01-01-10-00-00.html"

func newTestApp() *app {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &app{
		log: log,
		cfg: &config.Config{LogLevel: "info", Output: "auto", Repo: "Chaebin-Park/GradleBuildProfiler"},
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(newTestApp())
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFile(t *testing.T) {
	out, err := execute(t, "analyze", "--file", testProfile)
	require.NoError(t, err)
	require.Contains(t, out, "📂 Reading profile: "+testProfile)
	require.Contains(t, out, "Total build time: 1m 13s")
	require.Contains(t, out, ":app:compileDebugKotlin")
	require.Contains(t, out, "Kapt takes 27.3% of build time")
	require.Contains(t, out, "  :core - 12.3s (1 tasks)")
}

func TestAnalyzeProjectDir(t *testing.T) {
	project := t.TempDir()
	dir := filepath.Join(project, parser.ProfileDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content, err := os.ReadFile(testProfile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.html"), content, 0o644))

	out, err := execute(t, "analyze", "-p", project, "-o", "json")
	require.NoError(t, err)
	require.NotContains(t, out, "Reading profile")
	require.Contains(t, out, `"totalTime": 73540`)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := execute(t, "analyze", "-p", t.TempDir())
	require.ErrorIs(t, err, parser.ErrProfileDirNotFound)

	_, err = execute(t, "analyze", "-f", testProfile, "-o", "xml")
	require.ErrorContains(t, err, "unknown output format")
}

func TestFormulaCheckDefaults(t *testing.T) {
	out, err := execute(t, "formula", "check")
	require.ErrorIs(t, err, errFormulaIssues)
	require.Contains(t, out, "[placeholder-checksum]")
	require.Contains(t, out, "[smoke-test-mismatch]")
	require.Contains(t, out, "[binary-name-mismatch]")
}

func TestFormulaCheckFile(t *testing.T) {
	_, err := execute(t, "formula", "check", "../../internal/formula/testdata/complete.yaml")
	require.NoError(t, err)
}

func TestFormulaRender(t *testing.T) {
	out, err := execute(t, "formula", "render")
	require.NoError(t, err)
	require.Contains(t, out, "class GradleBuildProfiler < Formula")
	require.Contains(t, out, "on_macos do")
}

func TestReleaseShowFromFormula(t *testing.T) {
	out, err := execute(t, "release", "show", "--from-formula")
	require.NoError(t, err)
	require.Contains(t, out, "gradle-build-profiler 0.1.0")
	require.Contains(t, out, "darwin/arm64")
	require.Contains(t, out, `MISSING ("YOUR_SHA256_HERE")`)
}

func TestReleaseInstallFromFormulaRejectsPlaceholders(t *testing.T) {
	_, err := execute(t, "release", "install", "--from-formula", "--dir", t.TempDir(), "--skip-test")
	require.Error(t, err)
}
