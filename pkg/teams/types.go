package teams

// Document is the on-disk shape of a team configuration file. Every file
// holds exactly one top-level "teams" mapping.
type Document struct {
	Teams TeamConfig `yaml:"teams"`
}

// TeamConfig represents the declarative configuration for one parent team
// and its child teams. Field order here is the serialization order.
type TeamConfig struct {
	ParentTeam   string      `yaml:"parent_team"`
	Project      string      `yaml:"project,omitempty"`
	Description  string      `yaml:"description,omitempty"`
	Members      []string    `yaml:"members"`
	Repositories []string    `yaml:"repositories"`
	ChildTeams   []ChildTeam `yaml:"child_teams"`
}

// ChildTeam represents a team nested one level under the parent team.
// Names always carry the "<parent>-" prefix.
type ChildTeam struct {
	Name                  string   `yaml:"name"`
	Description           string   `yaml:"description,omitempty"`
	RepositoryPermissions string   `yaml:"repository_permissions"`
	Members               []string `yaml:"members"`
	Repositories          []string `yaml:"repositories"`
}

// ChildTeamByName returns the child team with the given (already prefixed)
// name, or nil if the config has no such child.
func (c *TeamConfig) ChildTeamByName(name string) *ChildTeam {
	for i := range c.ChildTeams {
		if c.ChildTeams[i].Name == name {
			return &c.ChildTeams[i]
		}
	}
	return nil
}

// Request is a parsed team-management request extracted from an issue body.
// List fields hold the raw entry lines; the mutation engine parses them.
type Request struct {
	Action      string
	TeamName    string
	Project     string
	Description string
	ChildTeams  []string
	Members     []string
	Repos       []string
}

// Actions accepted in a request.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionRemove = "remove"
)
