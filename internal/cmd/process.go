package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrCDray/team-managment/pkg/config"
	"github.com/mrCDray/team-managment/pkg/github"
	"github.com/mrCDray/team-managment/pkg/teams"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a team-management issue",
	Long: `Process a team-management issue body from the environment.

The issue body is parsed into a create, update or remove request, the
team's YAML configuration is updated accordingly, the resulting teams are
synchronized with GitHub, and the outcome is reported back as a comment on
the originating issue. Configuration comes from the environment variables
GITHUB_TOKEN, GITHUB_ORG, REPO, ISSUE_NUMBER, ISSUE_BODY, TEAMS_DIR and
TEAM_TEMPLATE (workflow context in GitHub Actions, or a local .env file).`,
	RunE: runProcess,
}

func runProcess(_ *cobra.Command, _ []string) error {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := github.NewClient(cfg.GitHubToken, cfg.Organization, log)
	store := teams.NewStore(cfg.TeamsDir, cfg.TeamTemplate)
	engine := teams.NewEngine(store, client, log)
	syncer := github.NewSynchronizer(client, log)
	processor := teams.NewProcessor(store, engine, syncer, client, log)

	req := teams.ParseIssueBody(cfg.IssueBody)
	outcome := processor.Run(req, cfg.Repository, cfg.IssueNumber)

	fmt.Println(outcome.Message)
	if outcome.Failed {
		return fmt.Errorf("issue processing failed")
	}
	return nil
}
