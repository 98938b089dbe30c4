package formula

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderSourceFormula(t *testing.T) {
	source, _ := loadDefaults(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, source))
	expected := `class GradleBuildProfiler < Formula
  desc "Analyze Gradle build profiles and provide performance insights"
  homepage "https://github.com/Chaebin-Park/GradleBuildProfiler"
  url "https://github.com/Chaebin-Park/GradleBuildProfiler/archive/refs/tags/v0.1.0.tar.gz"
  sha256 "YOUR_SHA256_HERE"
  license "MIT"

  depends_on "rust" => :build

  def install
    system "cargo", "install", "--locked", "--root", prefix, "--path", "."
  end

  test do
    assert_match "gradle-profiler", shell_output("#{bin}/gradle_build_profiler --help")
  end
end
`
	require.Equal(t, expected, buf.String())
}

func TestRenderBinaryFormula(t *testing.T) {
	_, binary := loadDefaults(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, binary))
	out := buf.String()

	require.Contains(t, out, `  version "0.1.0"`)
	require.Contains(t, out, `    bin.install Dir["*"].first => "gradle-build-profiler"`)
	require.Contains(t, out, `    system "#{bin}/gradle-build-profiler", "--help"`)
	require.NotContains(t, out, "license")

	macos := strings.Index(out, "on_macos do")
	linux := strings.Index(out, "on_linux do")
	require.True(t, macos > 0 && linux > macos)
	require.Equal(t, 2, strings.Count(out, "on_intel do"))
	require.Equal(t, 1, strings.Count(out, "on_arm do"))
	require.Contains(t, out, `      url "https://github.com/Chaebin-Park/GradleBuildProfiler/releases/download/v0.1.0/gradle_build_profiler-macos-aarch64"`)
}

func TestRubyQuote(t *testing.T) {
	require.Equal(t, `"say \"hi\" \#{x}"`, rubyQuote(`say "hi" #{x}`))
	require.Equal(t, `"a", prefix, bin`, rubyArgs([]string{"a", "$prefix", "$bin"}))
}

func TestRenderRequiresClass(t *testing.T) {
	require.Error(t, Render(&bytes.Buffer{}, &Formula{Name: "x"}))
}
