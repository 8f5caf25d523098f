package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIssueBody_CreateRequest(t *testing.T) {
	body := `### Action

create

### Team Name

platform-core

### Project Name

Platform

### Team Description

Core platform engineering team

### Child Teams

- developers : Day-to-day committers : write
- admins : : admin

### Members

- @alice (all)
- @bob (developers)

### Repositories

- platform-api
- platform-web
`

	req := ParseIssueBody(body)

	assert.Equal(t, ActionCreate, req.Action)
	assert.Equal(t, "platform-core", req.TeamName)
	assert.Equal(t, "Platform", req.Project)
	assert.Equal(t, "Core platform engineering team", req.Description)
	assert.Equal(t, []string{
		"- developers : Day-to-day committers : write",
		"- admins : : admin",
	}, req.ChildTeams)
	assert.Equal(t, []string{"- @alice (all)", "- @bob (developers)"}, req.Members)
	assert.Equal(t, []string{"platform-api", "platform-web"}, req.Repos)
}

func TestParseIssueBody_NoResponsePlaceholders(t *testing.T) {
	body := `### Action

update

### Team Name

platform-core

### Project Name

_No response_

### Team Description

_No response_
`

	req := ParseIssueBody(body)

	assert.Equal(t, ActionUpdate, req.Action)
	assert.Equal(t, "platform-core", req.TeamName)
	assert.Empty(t, req.Project)
	assert.Empty(t, req.Description)
}

func TestParseIssueBody_EmptyBody(t *testing.T) {
	req := ParseIssueBody("")

	assert.Empty(t, req.Action)
	assert.Empty(t, req.TeamName)
	assert.Nil(t, req.ChildTeams)
	assert.Nil(t, req.Members)
	assert.Nil(t, req.Repos)
}

func TestParseChildTeamEntry(t *testing.T) {
	tests := []struct {
		name           string
		entry          string
		wantName       string
		wantDesc       string
		wantPermission string
		wantOK         bool
	}{
		{
			name:           "full entry with alias permission",
			entry:          "- developers : Day-to-day committers : write",
			wantName:       "platform-core-developers",
			wantDesc:       "Day-to-day committers",
			wantPermission: PermissionPush,
			wantOK:         true,
		},
		{
			name:           "name only defaults to pull",
			entry:          "- developers",
			wantName:       "platform-core-developers",
			wantPermission: PermissionPull,
			wantOK:         true,
		},
		{
			name:           "empty permission defaults to pull",
			entry:          "- admins : Administrators :",
			wantName:       "platform-core-admins",
			wantDesc:       "Administrators",
			wantPermission: PermissionPull,
			wantOK:         true,
		},
		{
			name:           "already prefixed name is untouched",
			entry:          "- platform-core-developers : : maintain",
			wantName:       "platform-core-developers",
			wantPermission: PermissionMaintain,
			wantOK:         true,
		},
		{
			name:           "unknown permission falls back to pull",
			entry:          "- developers : : owner",
			wantName:       "platform-core-developers",
			wantPermission: PermissionPull,
			wantOK:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, desc, permission, ok := ParseChildTeamEntry("platform-core", tt.entry)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantDesc, desc)
			assert.Equal(t, tt.wantPermission, permission)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseMemberEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        string
		wantUsername string
		wantSuffixes []string
	}{
		{
			name:         "bare username",
			entry:        "- @alice",
			wantUsername: "alice",
		},
		{
			name:         "username with single team",
			entry:        "- @bob (developers)",
			wantUsername: "bob",
			wantSuffixes: []string{"developers"},
		},
		{
			name:         "username with multiple teams",
			entry:        "- @carol (developers, admins)",
			wantUsername: "carol",
			wantSuffixes: []string{"developers", "admins"},
		},
		{
			name:         "all token",
			entry:        "- @dave (all)",
			wantUsername: "dave",
			wantSuffixes: []string{"all"},
		},
		{
			name:  "missing at-sign is rejected",
			entry: "- alice",
		},
		{
			name:  "not a list entry",
			entry: "alice (developers)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, suffixes := ParseMemberEntry(tt.entry)
			assert.Equal(t, tt.wantUsername, username)
			assert.Equal(t, tt.wantSuffixes, suffixes)
		})
	}
}
