package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Chaebin-Park/GradleBuildProfiler/internal/formula"
	"github.com/Chaebin-Park/GradleBuildProfiler/internal/release"
	"github.com/spf13/cobra"
)

var errFormulaIssues = errors.New("formula check failed")

func newFormulaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formula",
		Short: "Inspect the Homebrew formulas this tool is distributed with",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "check [FILE...]",
			Short: "Check formulas for placeholder checksums, missing platforms and inconsistent names",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runFormulaCheck(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "render [FILE]",
			Short: "Print a formula as Homebrew Ruby",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runFormulaRender(cmd, args)
			},
		},
		newFormulaPinCmd(a),
	)
	return cmd
}

func newFormulaPinCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin [FILE]",
		Short: "Fill a binary formula with the URLs and checksums of a published release",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFormulaPin(cmd, args)
		},
	}
	cmd.Flags().StringP("tag", "t", "latest", "release tag")
	return cmd
}

func loadFormulas(args []string) ([]*formula.Formula, error) {
	if len(args) == 0 {
		return formula.Defaults()
	}
	ret := make([]*formula.Formula, 0, len(args))
	for _, file := range args {
		f, err := formula.Load(file)
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}

func (a *app) runFormulaCheck(cmd *cobra.Command, args []string) error {
	formulas, err := loadFormulas(args)
	if err != nil {
		return err
	}
	issues := formula.CheckAll(formulas)
	for _, issue := range issues {
		fmt.Fprintln(cmd.OutOrStdout(), issue.String())
	}
	if formula.HasErrors(issues) {
		return fmt.Errorf("%w: %d issue(s)", errFormulaIssues, len(issues))
	}
	a.log.Infof("%d formula(s) checked, %d warning(s)", len(formulas), len(issues))
	return nil
}

func pickFormula(args []string, kind formula.Kind) (*formula.Formula, error) {
	formulas, err := loadFormulas(args)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		return formulas[0], nil
	}
	for _, f := range formulas {
		if f.Kind == kind {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no %s formula available", kind)
}

func (a *app) runFormulaRender(cmd *cobra.Command, args []string) error {
	f, err := pickFormula(args, formula.KindBinary)
	if err != nil {
		return err
	}
	for _, issue := range formula.Check(f) {
		a.log.Warn(issue.String())
	}
	return formula.Render(cmd.OutOrStdout(), f)
}

func (a *app) runFormulaPin(cmd *cobra.Command, args []string) error {
	f, err := pickFormula(args, formula.KindBinary)
	if err != nil {
		return err
	}
	tag := must(cmd.Flags().GetString("tag"))
	a.log.Infof("resolving %s@%s", a.cfg.Repo, tag)
	rel, err := release.NewFetcher(a.cfg.CreateGitHubClient()).Get(cmd.Context(), a.cfg.Repo, tag)
	if err != nil {
		return err
	}
	if err := formula.Pin(f, rel); err != nil {
		return err
	}
	if len(args) == 0 {
		return formula.Render(cmd.OutOrStdout(), f)
	}
	out, err := os.Create(strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".rb")
	if err != nil {
		return err
	}
	defer out.Close()
	if err := formula.Render(out, f); err != nil {
		return err
	}
	a.log.Infof("wrote %s", out.Name())
	return nil
}
