package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Client implements TeamAPI against the GitHub REST API for one
// organization. All calls flow through the rate limiter.
type Client struct {
	gh      *github.Client
	ctx     context.Context
	org     string
	limiter *rateLimiter
	log     *logrus.Logger
}

// NewClient creates a GitHub API client authenticated with the given token
// and scoped to the organization.
func NewClient(token, org string, log *logrus.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:      github.NewClient(tc),
		ctx:     ctx,
		org:     org,
		limiter: newRateLimiter(log),
		log:     log,
	}
}

// ListTeams fetches every team in the organization, 100 per page.
func (c *Client) ListTeams() ([]TeamInfo, error) {
	opts := &github.ListOptions{PerPage: 100}

	var all []TeamInfo
	for {
		var teams []*github.Team
		var resp *github.Response

		err := c.limiter.do(func() (*github.Response, error) {
			var err error
			teams, resp, err = c.gh.Teams.ListTeams(c.ctx, c.org, opts)
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list teams for %s: %w", c.org, err)
		}

		for _, team := range teams {
			all = append(all, TeamInfo{
				ID:   team.GetID(),
				Name: team.GetName(),
				Slug: team.GetSlug(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateTeam creates a team with closed visibility, optionally attached to
// a parent team by id.
func (c *Client) CreateTeam(name, description string, parentID *int64) (*TeamInfo, error) {
	newTeam := github.NewTeam{
		Name:         name,
		Privacy:      github.String("closed"),
		ParentTeamID: parentID,
	}
	if description != "" {
		newTeam.Description = github.String(description)
	}

	var created *github.Team
	err := c.limiter.do(func() (*github.Response, error) {
		var resp *github.Response
		var err error
		created, resp, err = c.gh.Teams.CreateTeam(c.ctx, c.org, newTeam)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create team %s: %w", name, err)
	}

	return &TeamInfo{ID: created.GetID(), Name: created.GetName(), Slug: created.GetSlug()}, nil
}

// UpdateTeam edits an existing team by slug, sending only the fields that
// were supplied.
func (c *Client) UpdateTeam(slug, name, description string, parentID *int64) (*TeamInfo, error) {
	team := github.NewTeam{
		Name:         name,
		ParentTeamID: parentID,
	}
	if description != "" {
		team.Description = github.String(description)
	}

	var updated *github.Team
	err := c.limiter.do(func() (*github.Response, error) {
		var resp *github.Response
		var err error
		updated, resp, err = c.gh.Teams.EditTeamBySlug(c.ctx, c.org, slug, team, false)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update team %s: %w", slug, err)
	}

	return &TeamInfo{ID: updated.GetID(), Name: updated.GetName(), Slug: updated.GetSlug()}, nil
}

// ListTeamMembers fetches the usernames of a team's current members,
// paginated.
func (c *Client) ListTeamMembers(slug string) ([]string, error) {
	opts := &github.TeamListTeamMembersOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var members []string
	for {
		var users []*github.User
		var resp *github.Response

		err := c.limiter.do(func() (*github.Response, error) {
			var err error
			users, resp, err = c.gh.Teams.ListTeamMembersBySlug(c.ctx, c.org, slug, opts)
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list members of team %s: %w", slug, err)
		}

		for _, user := range users {
			members = append(members, user.GetLogin())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return members, nil
}

// AddTeamMembership adds (or re-confirms) a user as a member of a team.
func (c *Client) AddTeamMembership(slug, username string) error {
	opts := &github.TeamAddTeamMembershipOptions{Role: "member"}

	err := c.limiter.do(func() (*github.Response, error) {
		_, resp, err := c.gh.Teams.AddTeamMembershipBySlug(c.ctx, c.org, slug, username, opts)
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("failed to add %s to team %s: %w", username, slug, err)
	}
	return nil
}

// RemoveTeamMembership removes a user from a team.
func (c *Client) RemoveTeamMembership(slug, username string) error {
	err := c.limiter.do(func() (*github.Response, error) {
		resp, err := c.gh.Teams.RemoveTeamMembershipBySlug(c.ctx, c.org, slug, username)
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s from team %s: %w", username, slug, err)
	}
	return nil
}

// AddTeamRepo grants a team the given permission on an organization
// repository. The permission must already be canonical.
func (c *Client) AddTeamRepo(slug, repo, permission string) error {
	opts := &github.TeamAddTeamRepoOptions{Permission: permission}

	err := c.limiter.do(func() (*github.Response, error) {
		resp, err := c.gh.Teams.AddTeamRepoBySlug(c.ctx, c.org, slug, c.org, repo, opts)
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("failed to set %s permission for team %s on %s: %w", permission, slug, repo, err)
	}
	return nil
}

// UserExists reports whether the user is a member of the organization.
// Errors are logged and treated as "does not exist".
func (c *Client) UserExists(username string) bool {
	var member bool
	err := c.limiter.do(func() (*github.Response, error) {
		var resp *github.Response
		var err error
		member, resp, err = c.gh.Organizations.IsMember(c.ctx, c.org, username)
		return resp, err
	})
	if err != nil {
		c.log.WithError(err).WithField("user", username).Error("Failed to check organization membership")
		return false
	}
	return member
}

// RepoExists reports whether a repository exists in the organization.
func (c *Client) RepoExists(name string) bool {
	err := c.limiter.do(func() (*github.Response, error) {
		_, resp, err := c.gh.Repositories.Get(c.ctx, c.org, name)
		return resp, err
	})
	if err != nil {
		if ghErr, ok := err.(*github.ErrorResponse); !ok || ghErr.Response.StatusCode != 404 {
			c.log.WithError(err).WithField("repo", name).Error("Failed to check repository existence")
		}
		return false
	}
	return true
}

// CommentOnIssue posts a comment on an issue. repo is the "owner/name"
// form GitHub Actions supplies in the REPO variable.
func (c *Client) CommentOnIssue(repo string, issueNumber int, body string) error {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return fmt.Errorf("invalid repository %q: want owner/name", repo)
	}

	comment := &github.IssueComment{Body: github.String(body)}
	err := c.limiter.do(func() (*github.Response, error) {
		_, resp, err := c.gh.Issues.CreateComment(c.ctx, owner, name, issueNumber, comment)
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("failed to comment on issue %s#%d: %w", repo, issueNumber, err)
	}
	return nil
}
