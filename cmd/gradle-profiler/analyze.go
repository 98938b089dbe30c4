package main

import (
	"fmt"

	"github.com/Chaebin-Park/GradleBuildProfiler/internal/analyzer"
	"github.com/Chaebin-Park/GradleBuildProfiler/internal/parser"
	"github.com/Chaebin-Park/GradleBuildProfiler/internal/report"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the latest build profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runAnalyze(cmd)
		},
	}
	cmd.Flags().StringP("project", "p", ".", "path to the Android project")
	cmd.Flags().StringP("file", "f", "", "path to a specific profile file")
	cmd.Flags().StringP("output", "o", "", "output format (auto, text, terminal, json)")
	cmd.Flags().SortFlags = false
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command) error {
	project := must(cmd.Flags().GetString("project"))
	profilePath := must(cmd.Flags().GetString("file"))
	output := must(cmd.Flags().GetString("output"))
	if output == "" {
		output = a.cfg.Output
	}
	format, err := report.ParseFormat(output)
	if err != nil {
		return err
	}

	if profilePath == "" {
		profilePath, err = parser.FindLatestProfile(project)
		if err != nil {
			return err
		}
	}

	renderer := report.New(cmd.OutOrStdout(), format)
	if renderer.Format() != report.FormatJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "📂 Reading profile: %s\n", profilePath)
	}
	a.log.Debugf("parsing %s", profilePath)

	p, err := parser.ParseHTMLFile(profilePath)
	if err != nil {
		return err
	}
	opts := a.cfg.AnalyzerOptions()
	analysis := analyzer.AnalyzeWithOptions(p, opts)
	renderer.TopN = opts.TopN
	a.log.Debugf("analyzed %d projects, total %dms", len(p.BuildProfile.Projects), analysis.TotalTime)
	return renderer.Render(analysis)
}
