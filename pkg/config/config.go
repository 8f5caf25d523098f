// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config carries everything the issue processor needs from its environment.
// In GitHub Actions these variables come from the workflow context; locally
// a .env file can supply them.
type Config struct {
	GitHubToken  string `env:"GITHUB_TOKEN"`
	Organization string `env:"GITHUB_ORG"`
	Repository   string `env:"REPO"`
	IssueNumber  int    `env:"ISSUE_NUMBER"`
	IssueBody    string `env:"ISSUE_BODY"`
	TeamsDir     string `env:"TEAMS_DIR" envDefault:"teams"`
	TeamTemplate string `env:"TEAM_TEMPLATE" envDefault:"default_teams_config.yml"`
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first if present; a missing file is not an
// error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that the fields required for issue processing are set.
func (c *Config) Validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is required")
	}
	if c.Organization == "" {
		return fmt.Errorf("GITHUB_ORG is required")
	}
	if c.Repository == "" {
		return fmt.Errorf("REPO is required")
	}
	if c.IssueNumber <= 0 {
		return fmt.Errorf("ISSUE_NUMBER is required")
	}
	return nil
}
