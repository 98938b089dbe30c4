package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chaebin-Park/GradleBuildProfiler/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

type app struct {
	log *logrus.Logger
	cfg *config.Config
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gradle-profiler",
		Short:         "Analyze Gradle build profiles",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if lvl := must(cmd.Flags().GetString("log-level")); lvl != "" {
				a.cfg.LogLevel = lvl
			}
			level, err := logrus.ParseLevel(a.cfg.LogLevel)
			if err != nil {
				return err
			}
			a.log.SetLevel(level)
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.AddCommand(
		newAnalyzeCmd(a),
		newFormulaCmd(a),
		newReleaseCmd(a),
	)
	return cmd
}

func newApp(stderr io.Writer) (*app, error) {
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Version = version
	log, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	log.SetOutput(stderr)
	return &app{log: log, cfg: cfg}, nil
}

func main() {
	a, err := newApp(os.Stderr)
	if err != nil {
		logrus.Fatalf("ERROR: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		a.log.Errorf("ERROR: %v", err)
		stop()
		os.Exit(1)
	}
}
