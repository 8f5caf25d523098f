package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrCDray/team-managment/pkg/github"
	"github.com/mrCDray/team-managment/pkg/teams"
)

var (
	syncTeamsDir string
	syncTeamName string
	syncOrg      string
	syncToken    string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize team configurations with GitHub",
	Long: `Synchronize declarative team configurations with GitHub.

Reads every teams.yml under the teams directory (or a single team's file
with --team) and reconciles the organization's teams, memberships and
repository permissions to match. Parent teams are created or updated before
their child teams so the parent relationship can be established.

Examples:
  team-managment sync --org myorg
  team-managment sync --org myorg --team platform-core
  team-managment sync --teams-dir ./teams --org myorg`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncTeamsDir, "teams-dir", "teams", "Directory containing per-team configuration directories")
	syncCmd.Flags().StringVar(&syncTeamName, "team", "", "Synchronize only the named team")
	syncCmd.Flags().StringVar(&syncOrg, "org", "", "GitHub organization (defaults to GITHUB_ORG)")
	syncCmd.Flags().StringVar(&syncToken, "token", "", "GitHub token (defaults to GITHUB_TOKEN)")
}

func runSync(_ *cobra.Command, _ []string) error {
	log := newLogger()

	token := syncToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("GitHub token not specified: use --token or set GITHUB_TOKEN")
	}
	org := syncOrg
	if org == "" {
		org = os.Getenv("GITHUB_ORG")
	}
	if org == "" {
		return fmt.Errorf("GitHub organization not specified: use --org or set GITHUB_ORG")
	}

	store := teams.NewStore(syncTeamsDir, "")

	var configs []teams.TeamConfig
	if syncTeamName != "" {
		doc, err := store.Load(syncTeamName)
		if err != nil {
			return fmt.Errorf("failed to load team %s: %w", syncTeamName, err)
		}
		configs = append(configs, doc.Teams)
	} else {
		docs, loadErrs := store.LoadAll()
		for team, err := range loadErrs {
			log.WithError(err).WithField("team", team).Error("Failed to load team configuration")
		}
		for _, doc := range docs {
			configs = append(configs, doc.Teams)
		}
		if len(configs) == 0 {
			return fmt.Errorf("no team configurations found under %s", syncTeamsDir)
		}
	}

	client := github.NewClient(token, org, log)
	syncer := github.NewSynchronizer(client, log)

	ok, message := syncer.Sync(configs)
	fmt.Println(message)
	if !ok {
		return fmt.Errorf("team synchronization failed")
	}
	return nil
}
