package config

import (
	"context"
	"os"

	"github.com/Chaebin-Park/GradleBuildProfiler/internal/analyzer"
	"github.com/google/go-github/v59/github"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const envPrefix = "GRADLE_PROFILER"

type Config struct {
	LogLevel            string  `envconfig:"LOG_LEVEL" default:"info"`
	GitHubToken         string  `envconfig:"GITHUB_TOKEN"`
	Repo                string  `envconfig:"REPO" default:"Chaebin-Park/GradleBuildProfiler"`
	Output              string  `envconfig:"OUTPUT" default:"auto"`
	InstallDir          string  `envconfig:"INSTALL_DIR"`
	TopTasks            int     `envconfig:"TOP_TASKS" default:"10"`
	KaptThreshold       float64 `envconfig:"KAPT_THRESHOLD" default:"20"`
	SlowKotlinCompileMs uint64  `envconfig:"SLOW_KOTLIN_COMPILE_MS" default:"30000"`
	Version             string  `ignored:"true"`
}

// NewConfigFromEnv reads GRADLE_PROFILER_* variables. A plain GITHUB_TOKEN
// is used when no prefixed token is set.
func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	return &cfg, nil
}

func (c *Config) AnalyzerOptions() analyzer.Options {
	opts := analyzer.DefaultOptions()
	if c.TopTasks > 0 {
		opts.TopN = c.TopTasks
	}
	if c.KaptThreshold > 0 {
		opts.KaptShareThreshold = c.KaptThreshold
	}
	if c.SlowKotlinCompileMs > 0 {
		opts.SlowKotlinCompile = c.SlowKotlinCompileMs
	}
	return opts
}

func (c *Config) CreateGitHubClient() *github.Client {
	if c.GitHubToken == "" {
		return github.NewClient(nil)
	}
	oauthClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.GitHubToken}))
	return github.NewClient(oauthClient)
}

func (c *Config) NewLogger() (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	return log, nil
}
