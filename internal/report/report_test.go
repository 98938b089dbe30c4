package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/profile"
	"github.com/stretchr/testify/require"
)

var testAnalysis = &profile.Analysis{
	TotalTime: 73540,
	SlowestTasks: []profile.TaskSummary{
		{Name: ":app:compileDebugKotlin", Duration: 35100, Percentage: 47.73},
		{Name: ":app:kaptDebugKotlin", Duration: 20100, Percentage: 27.33},
	},
	ProjectSummary: []profile.ProjectSummary{
		{Name: ":app", TotalDuration: 55200, TaskCount: 2},
	},
	OptimizationTips: []string{"Enable Gradle parallel execution: org.gradle.parallel=true"},
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		input    uint64
		expected string
	}{
		{0, "0.0s"},
		{123, "0.1s"},
		{12345, "12.3s"},
		{60000, "60.0s"},
		{60999, "60.9s"},
		{61000, "1m 1s"},
		{73540, "1m 13s"},
		{3600000, "60m 0s"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, FormatDuration(tc.input), tc.input)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatAuto, f)
	_, err = ParseFormat("yaml")
	require.ErrorContains(t, err, "unknown output format")
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatAuto)
	require.Equal(t, FormatText, r.Format())
	require.NoError(t, r.Render(testAnalysis))

	out := buf.String()
	require.NotContains(t, out, "\x1b[")
	require.Contains(t, out, "📊 Gradle Build Profile Analysis")
	require.Contains(t, out, "Total build time: 1m 13s")
	require.Contains(t, out, "🐌 Top 10 Slowest Tasks")
	require.Contains(t, out, "% of Total")
	require.Contains(t, out, ":app:compileDebugKotlin")
	require.Contains(t, out, "47.7%")
	require.Contains(t, out, "╭")
	require.Contains(t, out, "  :app - 55.2s (2 tasks)")
	require.Contains(t, out, "  • Enable Gradle parallel execution: org.gradle.parallel=true")

	require.Less(t, bytes.Index(buf.Bytes(), []byte("Build Summary")), bytes.Index(buf.Bytes(), []byte("Project Summary")))
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatJSON).Render(testAnalysis))
	var decoded profile.Analysis
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, *testAnalysis, decoded)
}
