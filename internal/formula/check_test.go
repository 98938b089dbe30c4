package formula

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func issueCodes(issues []Issue) []string {
	codes := make([]string, len(issues))
	for i, issue := range issues {
		codes[i] = issue.Code
	}
	return codes
}

func TestCheckDefaultSourceFormula(t *testing.T) {
	source, _ := loadDefaults(t)
	issues := Check(source)
	require.Equal(t, []string{CodePlaceholderChecksum, CodeSmokeTestMismatch}, issueCodes(issues))
	require.Equal(t, SeverityError, issues[0].Severity)
	require.Equal(t, SeverityWarning, issues[1].Severity)
	require.Contains(t, issues[1].Message, `"gradle-profiler"`)
	require.Contains(t, issues[1].Message, `"gradle_build_profiler"`)
	require.True(t, HasErrors(issues))
}

func TestCheckDefaultBinaryFormula(t *testing.T) {
	_, binary := loadDefaults(t)
	issues := Check(binary)
	require.Equal(t, []string{CodePlaceholderChecksum, CodePlaceholderChecksum, CodePlaceholderChecksum}, issueCodes(issues))
	require.Contains(t, issues[0].Message, "darwin/amd64")
	require.Contains(t, issues[2].Message, "linux/amd64")
}

func TestCheckMissingDependency(t *testing.T) {
	source, _ := loadDefaults(t)
	source.DependsOn = nil
	require.Contains(t, issueCodes(Check(source)), CodeMissingDependency)

	source.Install.Command = nil
	require.Contains(t, issueCodes(Check(source)), CodeMissingInstall)
}

func TestCheckPlatforms(t *testing.T) {
	f, err := Load("testdata/complete.yaml")
	require.NoError(t, err)
	require.Empty(t, Check(f))

	f.Platforms = append(f.Platforms[:2], f.Platforms[0])
	f.Platforms[1].URL = ""
	issues := Check(f)
	require.ElementsMatch(t, []string{CodeMissingURL, CodeDuplicatePlatform, CodeUnsupportedPlatform}, issueCodes(issues))
}

func TestCheckVersion(t *testing.T) {
	f, err := Load("testdata/complete.yaml")
	require.NoError(t, err)
	f.Version = "v0.1"
	require.Equal(t, []string{CodeInvalidVersion}, issueCodes(Check(f)))

	f.Version = ""
	f.URL = "https://github.com/o/r/archive/refs/tags/v1.2.3-rc1.tar.gz"
	require.Equal(t, "1.2.3-rc1", f.ResolvedVersion())
	require.NotContains(t, issueCodes(Check(f)), CodeInvalidVersion)
}

func TestCheckAllReportsBinaryNameMismatch(t *testing.T) {
	formulas, err := Defaults()
	require.NoError(t, err)
	issues := CheckAll(formulas)
	last := issues[len(issues)-1]
	require.Equal(t, CodeBinaryNameMismatch, last.Code)
	require.Equal(t, "formulas install different executables: gradle-build-profiler, gradle_build_profiler", last.Message)
	require.Equal(t, "gradle-build-profiler: warning [binary-name-mismatch] formulas install different executables: gradle-build-profiler, gradle_build_profiler", last.String())
}
