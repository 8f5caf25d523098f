package github

// TeamInfo is the remote identity of a team: the numeric id GitHub assigns
// and the slug it derives from the name.
type TeamInfo struct {
	ID   int64
	Name string
	Slug string
}

// TeamAPI defines the GitHub operations the synchronizer and processor
// depend on. The concrete client wraps the REST API; tests substitute a
// mock.
type TeamAPI interface {
	// Team operations
	ListTeams() ([]TeamInfo, error)
	CreateTeam(name, description string, parentID *int64) (*TeamInfo, error)
	UpdateTeam(slug, name, description string, parentID *int64) (*TeamInfo, error)

	// Membership operations
	ListTeamMembers(slug string) ([]string, error)
	AddTeamMembership(slug, username string) error
	RemoveTeamMembership(slug, username string) error

	// Repository access operations
	AddTeamRepo(slug, repo, permission string) error

	// Existence checks
	UserExists(username string) bool
	RepoExists(name string) bool

	// Issue feedback
	CommentOnIssue(repo string, issueNumber int, body string) error
}
