package teams

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ExistenceChecker answers whether users and repositories exist in the
// organization. The engine drops entries that fail these checks and records
// a warning instead of aborting the batch.
type ExistenceChecker interface {
	UserExists(username string) bool
	RepoExists(name string) bool
}

// Engine applies create/update/remove requests to team configurations. It
// never touches the remote system; it only produces new documents for the
// store and synchronizer to act on.
type Engine struct {
	store   *Store
	checker ExistenceChecker
	log     *logrus.Logger
}

// NewEngine creates a mutation engine backed by the given store and
// existence checker.
func NewEngine(store *Store, checker ExistenceChecker, log *logrus.Logger) *Engine {
	return &Engine{store: store, checker: checker, log: log}
}

// Create builds a new team configuration from the default template and the
// request. The caller must have verified that no configuration exists yet.
// Child teams are processed before members so "all" member directives see
// every child team supplied in the same request, then repositories. Any
// failure is wrapped in a ConfigCreationError.
func (e *Engine) Create(req *Request) (*Document, []string, error) {
	doc, err := e.store.LoadTemplate()
	if err != nil {
		return nil, nil, &ConfigCreationError{TeamName: req.TeamName, Cause: err}
	}

	cfg := &doc.Teams
	cfg.ParentTeam = req.TeamName
	cfg.Project = req.Project
	if req.Description != "" {
		cfg.Description = req.Description
	}

	var warnings []string
	e.applyChildTeams(cfg, req.ChildTeams, ActionCreate, &warnings)
	e.applyMembers(cfg, req.Members, ActionCreate, &warnings)
	e.applyRepos(cfg, req.Repos, ActionCreate, &warnings)

	normalized, err := e.normalize(doc, req)
	if err != nil {
		return nil, warnings, &ConfigCreationError{TeamName: req.TeamName, Cause: err}
	}
	return normalized, warnings, nil
}

// normalize round-trips the document through the serializer, substituting
// any literal template placeholders, so list/scalar typing matches what a
// later load would produce.
func (e *Engine) normalize(doc *Document, req *Request) (*Document, error) {
	data, err := MarshalDocument(doc, e.store.opts)
	if err != nil {
		return nil, err
	}
	data = substitutePlaceholders(data, req.TeamName, req.Project)
	return UnmarshalDocument(data)
}

// Update mutates an existing team configuration. A missing or malformed
// on-disk document is a returned error, not a panic. The description is
// only replaced when the request carries a non-empty value, and each entry
// list is processed only when non-empty (absent means "no change").
func (e *Engine) Update(req *Request) (*Document, []string, error) {
	doc, err := e.store.Load(req.TeamName)
	if err != nil {
		return nil, nil, err
	}

	cfg := &doc.Teams
	if req.Description != "" {
		cfg.Description = req.Description
	}

	var warnings []string
	if len(req.ChildTeams) > 0 {
		e.applyChildTeams(cfg, req.ChildTeams, ActionUpdate, &warnings)
	}
	if len(req.Members) > 0 {
		e.applyMembers(cfg, req.Members, ActionUpdate, &warnings)
	}
	if len(req.Repos) > 0 {
		e.applyRepos(cfg, req.Repos, ActionUpdate, &warnings)
	}
	return doc, warnings, nil
}

// Remove drops child teams, members, and repositories named by the request
// from an existing configuration. Removal never deletes the configuration
// itself.
func (e *Engine) Remove(req *Request) (*Document, []string, error) {
	doc, err := e.store.Load(req.TeamName)
	if err != nil {
		return nil, nil, err
	}

	cfg := &doc.Teams
	var warnings []string
	if len(req.ChildTeams) > 0 {
		e.applyChildTeams(cfg, req.ChildTeams, ActionRemove, &warnings)
	}
	if len(req.Members) > 0 {
		e.applyMembers(cfg, req.Members, ActionRemove, &warnings)
	}
	if len(req.Repos) > 0 {
		e.applyRepos(cfg, req.Repos, ActionRemove, &warnings)
	}
	return doc, warnings, nil
}

// applyChildTeams reconciles the config's child-team list against the
// request entries. For create/update a new child inherits a copy of the
// parent's current repository list; an existing child keeps its members and
// repositories, gets a new description only when one was supplied, and
// always has its permission overwritten by the parsed value. For remove the
// named entries are dropped by rebuilding the list.
func (e *Engine) applyChildTeams(cfg *TeamConfig, entries []string, action string, warnings *[]string) {
	if action == ActionRemove {
		drop := make(map[string]bool, len(entries))
		for _, entry := range entries {
			name, _, _, _ := ParseChildTeamEntry(cfg.ParentTeam, entry)
			drop[name] = true
		}
		kept := make([]ChildTeam, 0, len(cfg.ChildTeams))
		for _, child := range cfg.ChildTeams {
			if drop[child.Name] {
				e.log.WithField("team", child.Name).Info("Removing child team")
				continue
			}
			kept = append(kept, child)
		}
		cfg.ChildTeams = kept
		return
	}

	for _, entry := range entries {
		name, description, permission, permOK := ParseChildTeamEntry(cfg.ParentTeam, entry)
		if !permOK {
			*warnings = append(*warnings,
				fmt.Sprintf("Unknown permission in child team entry %q, defaulting to pull", entry))
		}

		if existing := cfg.ChildTeamByName(name); existing != nil {
			if description != "" {
				existing.Description = description
			}
			// Permission is always explicit, even when it is the default.
			existing.RepositoryPermissions = permission
			continue
		}

		repos := make([]string, len(cfg.Repositories))
		copy(repos, cfg.Repositories)
		cfg.ChildTeams = append(cfg.ChildTeams, ChildTeam{
			Name:                  name,
			Description:           description,
			RepositoryPermissions: permission,
			Members:               []string{},
			Repositories:          repos,
		})
		e.log.WithField("team", name).Info("Added child team")
	}
}

// applyMembers reconciles memberships from member entry lines.
// Precondition: child teams from the same request have already been
// reconciled, so "all" enumerates every child team the request knows about.
func (e *Engine) applyMembers(cfg *TeamConfig, entries []string, action string, warnings *[]string) {
	for _, entry := range entries {
		username, suffixes := ParseMemberEntry(entry)
		if username == "" {
			*warnings = append(*warnings, fmt.Sprintf("Malformed member entry %q, skipped", entry))
			continue
		}
		if !e.checker.UserExists(username) {
			*warnings = append(*warnings,
				fmt.Sprintf("User '%s' does not exist in the organization, entry skipped", username))
			continue
		}

		if action == ActionRemove {
			e.removeMember(cfg, username, suffixes)
			continue
		}
		e.addMember(cfg, username, suffixes)
	}
}

// addMember adds a username to the parent member list and to each targeted
// child team, never duplicating an existing entry.
func (e *Engine) addMember(cfg *TeamConfig, username string, suffixes []string) {
	if !containsString(cfg.Members, username) {
		cfg.Members = append(cfg.Members, username)
		e.log.WithField("user", username).Info("Added member to parent team")
	}
	if len(suffixes) == 0 {
		return
	}

	if containsString(suffixes, "all") {
		for i := range cfg.ChildTeams {
			child := &cfg.ChildTeams[i]
			if !containsString(child.Members, username) {
				child.Members = append(child.Members, username)
			}
		}
		return
	}

	for _, suffix := range suffixes {
		name := EnsureTeamNamePrefix(cfg.ParentTeam, suffix)
		child := cfg.ChildTeamByName(name)
		if child == nil {
			e.log.WithFields(logrus.Fields{"user": username, "team": name}).
				Warn("Member references unknown child team")
			continue
		}
		if !containsString(child.Members, username) {
			child.Members = append(child.Members, username)
		}
	}
}

// removeMember removes a username only if it is currently in the parent
// member set. No suffixes or "all" removes it from the parent and every
// child team; named suffixes remove it only from those child teams, leaving
// parent membership untouched.
func (e *Engine) removeMember(cfg *TeamConfig, username string, suffixes []string) {
	if !containsString(cfg.Members, username) {
		e.log.WithField("user", username).Info("User not in parent team, nothing to remove")
		return
	}

	if len(suffixes) == 0 || containsString(suffixes, "all") {
		cfg.Members = removeString(cfg.Members, username)
		for i := range cfg.ChildTeams {
			cfg.ChildTeams[i].Members = removeString(cfg.ChildTeams[i].Members, username)
		}
		e.log.WithField("user", username).Info("Removed member from parent and all child teams")
		return
	}

	for _, suffix := range suffixes {
		name := EnsureTeamNamePrefix(cfg.ParentTeam, suffix)
		if child := cfg.ChildTeamByName(name); child != nil {
			child.Members = removeString(child.Members, username)
		}
	}
}

// applyRepos reconciles repository lists. Surviving names are added
// (deduplicated) to the parent and every existing child team, or removed by
// set difference from the parent and every child team listing them.
func (e *Engine) applyRepos(cfg *TeamConfig, entries []string, action string, warnings *[]string) {
	for _, repo := range entries {
		if !e.checker.RepoExists(repo) {
			*warnings = append(*warnings,
				fmt.Sprintf("Repository '%s' does not exist in the organization, entry skipped", repo))
			continue
		}

		if action == ActionRemove {
			cfg.Repositories = removeString(cfg.Repositories, repo)
			for i := range cfg.ChildTeams {
				cfg.ChildTeams[i].Repositories = removeString(cfg.ChildTeams[i].Repositories, repo)
			}
			e.log.WithField("repo", repo).Info("Removed repository from parent and child teams")
			continue
		}

		if !containsString(cfg.Repositories, repo) {
			cfg.Repositories = append(cfg.Repositories, repo)
		}
		for i := range cfg.ChildTeams {
			child := &cfg.ChildTeams[i]
			if !containsString(child.Repositories, repo) {
				child.Repositories = append(child.Repositories, repo)
			}
		}
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// removeString returns a new slice without the value. The result is always
// non-nil so empty lists serialize as explicit empty sequences.
func removeString(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}
