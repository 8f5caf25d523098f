package github

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mrCDray/team-managment/pkg/teams"
)

// Synchronizer drives the GitHub team API to match declarative team
// configurations. The slug<->id maps are a per-run cache of remote ground
// truth, rebuilt from scratch on every Sync call; no state survives a run.
type Synchronizer struct {
	api      TeamAPI
	log      *logrus.Logger
	slugToID map[string]int64
	idToSlug map[int64]string
}

// NewSynchronizer creates a synchronizer over the given API.
func NewSynchronizer(api TeamAPI, log *logrus.Logger) *Synchronizer {
	return &Synchronizer{api: api, log: log}
}

// Sync reconciles the organization's teams, memberships and repository
// grants with the given configurations. Parent teams are fully created or
// updated first so their numeric ids exist before any child team attaches
// to them. Individual call failures are logged and do not abort the
// remaining work; the boolean result is the conjunction of every attempt.
func (s *Synchronizer) Sync(configs []teams.TeamConfig) (bool, string) {
	s.fetchExistingTeams()

	success := true

	// First pass: parent teams.
	parentIDs := make(map[string]int64, len(configs))
	for i := range configs {
		cfg := &configs[i]
		if cfg.ParentTeam == "" {
			s.log.Warn("Team configuration missing parent_team name, skipping")
			continue
		}

		parentID, ok := s.createOrUpdateTeam(cfg.ParentTeam, cfg.Description, nil)
		if !ok {
			s.log.WithField("team", cfg.ParentTeam).Error("Failed to create/update parent team")
			success = false
			continue
		}
		parentIDs[cfg.ParentTeam] = parentID

		if !s.syncTeamMembers(teamSlug(cfg.ParentTeam), cfg.Members) {
			success = false
		}
		// Parent repositories carry the implicit parent-default permission.
		if !s.syncTeamRepos(teamSlug(cfg.ParentTeam), cfg.Repositories, teams.PermissionPull) {
			success = false
		}
	}

	// Second pass: child teams, attached to their resolved parents.
	for i := range configs {
		cfg := &configs[i]
		parentID, ok := parentIDs[cfg.ParentTeam]
		if !ok {
			continue
		}

		for j := range cfg.ChildTeams {
			child := &cfg.ChildTeams[j]
			if child.Name == "" {
				s.log.Warn("Child team missing name, skipping")
				continue
			}

			if _, ok := s.createOrUpdateTeam(child.Name, child.Description, &parentID); !ok {
				s.log.WithField("team", child.Name).Error("Failed to create/update child team")
				success = false
				continue
			}

			if !s.syncTeamMembers(teamSlug(child.Name), child.Members) {
				success = false
			}
			permission, _ := teams.NormalizePermission(child.RepositoryPermissions)
			if !s.syncTeamRepos(teamSlug(child.Name), child.Repositories, permission) {
				success = false
			}
		}
	}

	return success, syncMessage(configs, success)
}

// fetchExistingTeams rebuilds the slug<->id maps from the organization's
// current team list. A fetch failure leaves the maps empty; subsequent
// create calls then surface the real problem.
func (s *Synchronizer) fetchExistingTeams() {
	s.slugToID = make(map[string]int64)
	s.idToSlug = make(map[int64]string)

	existing, err := s.api.ListTeams()
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch existing teams")
		return
	}
	for _, team := range existing {
		s.slugToID[team.Slug] = team.ID
		s.idToSlug[team.ID] = team.Slug
	}
	s.log.WithField("count", len(existing)).Info("Fetched existing teams")
}

// createOrUpdateTeam looks a team up by its lower-cased slug, updating it
// when found and creating it otherwise, and keeps the local maps current.
// Returns the team id and whether the call succeeded.
func (s *Synchronizer) createOrUpdateTeam(name, description string, parentID *int64) (int64, bool) {
	slug := teamSlug(name)

	if id, ok := s.slugToID[slug]; ok {
		s.log.WithFields(logrus.Fields{"team": name, "id": id}).Info("Team exists, updating")
		if _, err := s.api.UpdateTeam(slug, name, description, parentID); err != nil {
			s.log.WithError(err).WithField("team", name).Error("Failed to update team")
			return 0, false
		}
		return id, true
	}

	s.log.WithField("team", name).Info("Creating new team")
	created, err := s.api.CreateTeam(name, description, parentID)
	if err != nil {
		s.log.WithError(err).WithField("team", name).Error("Failed to create team")
		return 0, false
	}
	s.slugToID[created.Slug] = created.ID
	s.idToSlug[created.ID] = created.Slug
	return created.ID, true
}

// syncTeamMembers makes a team's membership match the desired list by set
// difference. An empty desired list means "do not touch membership", not
// "remove everyone". Every add and remove is attempted even after earlier
// failures; the result is the conjunction of all of them.
func (s *Synchronizer) syncTeamMembers(slug string, desired []string) bool {
	if len(desired) == 0 {
		s.log.WithField("team", slug).Info("No members specified, skipping member sync")
		return true
	}

	desiredSet := make(map[string]bool, len(desired))
	for _, member := range desired {
		if s.api.UserExists(member) {
			desiredSet[member] = true
		} else {
			s.log.WithFields(logrus.Fields{"team": slug, "user": member}).
				Warn("User does not exist in the organization, skipping")
		}
	}

	current, err := s.api.ListTeamMembers(slug)
	if err != nil {
		s.log.WithError(err).WithField("team", slug).Error("Failed to get current team members")
		return false
	}
	currentSet := make(map[string]bool, len(current))
	for _, member := range current {
		currentSet[member] = true
	}

	success := true
	for member := range desiredSet {
		if currentSet[member] {
			continue
		}
		s.log.WithFields(logrus.Fields{"team": slug, "user": member}).Info("Adding team member")
		if err := s.api.AddTeamMembership(slug, member); err != nil {
			s.log.WithError(err).WithField("user", member).Error("Failed to add team member")
			success = false
		}
	}
	for member := range currentSet {
		if desiredSet[member] {
			continue
		}
		s.log.WithFields(logrus.Fields{"team": slug, "user": member}).Info("Removing team member")
		if err := s.api.RemoveTeamMembership(slug, member); err != nil {
			s.log.WithError(err).WithField("user", member).Error("Failed to remove team member")
			success = false
		}
	}
	return success
}

// syncTeamRepos grants the team the given permission on each repository.
// An empty list is a no-op success; unknown repositories are skipped with
// a warning.
func (s *Synchronizer) syncTeamRepos(slug string, repos []string, permission string) bool {
	if len(repos) == 0 {
		s.log.WithField("team", slug).Info("No repositories specified, skipping repo sync")
		return true
	}

	success := true
	for _, repo := range repos {
		if !s.api.RepoExists(repo) {
			s.log.WithFields(logrus.Fields{"team": slug, "repo": repo}).
				Warn("Repository does not exist in the organization, skipping")
			continue
		}
		if err := s.api.AddTeamRepo(slug, repo, permission); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"team": slug, "repo": repo}).
				Error("Failed to set repository permission")
			success = false
		}
	}
	return success
}

// teamSlug derives the lookup slug GitHub uses for a team name.
func teamSlug(name string) string {
	return strings.ToLower(name)
}

func syncMessage(configs []teams.TeamConfig, success bool) string {
	names := make([]string, 0, len(configs))
	for i := range configs {
		if configs[i].ParentTeam != "" {
			names = append(names, configs[i].ParentTeam)
		}
	}
	joined := strings.Join(names, ", ")
	if success {
		return fmt.Sprintf("Team %s synchronized successfully with GitHub.", joined)
	}
	return fmt.Sprintf("Failed to sync team %s with GitHub. Check the workflow logs for details.", joined)
}
