package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "team-managment",
	Short: "Manage GitHub teams from declarative YAML configurations",
	Long: `team-managment keeps GitHub organization teams in sync with declarative
YAML configurations. It processes team-management issues (create, update or
remove requests), persists the resulting configuration, and reconciles the
organization's teams, memberships and repository permissions to match.`,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(syncCmd)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
