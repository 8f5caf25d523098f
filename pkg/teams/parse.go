package teams

import (
	"regexp"
	"strings"
)

// noResponseSentinel is what GitHub issue forms emit for a skipped field.
const noResponseSentinel = "_No response_"

// memberEntryPattern matches "- @username" optionally followed by a
// parenthesized comma-separated list of team suffixes.
var memberEntryPattern = regexp.MustCompile(`^-\s*@([A-Za-z0-9-]+)(?:\s*\(([^)]*)\))?\s*$`)

// ParseIssueBody extracts a Request from a team-management issue body. The
// body is a sequence of "### <Heading>" sections; single-value sections take
// the first non-blank line, list sections collect their "- " entries.
func ParseIssueBody(body string) *Request {
	req := &Request{}
	section := ""

	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.Contains(line, "### Action"):
			section = "action"
			continue
		case strings.Contains(line, "### Team Name"):
			section = "team_name"
			continue
		case strings.Contains(line, "### Project Name"):
			section = "project"
			continue
		case strings.Contains(line, "### Team Description"):
			section = "description"
			continue
		case strings.Contains(line, "### Child Teams"):
			section = "child_teams"
			continue
		case strings.Contains(line, "### Members"):
			section = "members"
			continue
		case strings.Contains(line, "### Repositories"):
			section = "repositories"
			continue
		}

		value := strings.TrimSpace(line)
		if section == "" || value == "" {
			continue
		}

		switch section {
		case "action":
			if req.Action == "" {
				req.Action = value
			}
		case "team_name":
			if req.TeamName == "" {
				req.TeamName = value
			}
		case "project":
			if req.Project == "" {
				req.Project = value
			}
		case "description":
			if req.Description == "" {
				req.Description = value
			}
		case "child_teams":
			if strings.HasPrefix(value, "- ") {
				req.ChildTeams = append(req.ChildTeams, value)
			}
		case "members":
			if strings.HasPrefix(value, "- @") {
				req.Members = append(req.Members, value)
			}
		case "repositories":
			if strings.HasPrefix(value, "- ") {
				req.Repos = append(req.Repos, strings.TrimSpace(value[2:]))
			}
		}
	}

	if isNoResponse(req.Project) {
		req.Project = ""
	}
	if isNoResponse(req.Description) {
		req.Description = ""
	}

	return req
}

// isNoResponse reports whether a field value is the issue-form placeholder
// for a skipped input.
func isNoResponse(value string) bool {
	return strings.TrimSpace(value) == noResponseSentinel
}

// ParseChildTeamEntry parses a child-team entry line of the form
// "- name[:description[:permission]]". The name is normalized with the
// parent prefix and the permission mapped to its canonical value; an
// unrecognized permission falls back to pull and is reported via
// permissionOK so the caller can warn.
func ParseChildTeamEntry(parentTeam, entry string) (name, description, permission string, permissionOK bool) {
	entry = strings.TrimSpace(entry)
	entry = strings.TrimPrefix(entry, "- ")

	parts := strings.SplitN(entry, ":", 3)
	name = EnsureTeamNamePrefix(parentTeam, strings.TrimSpace(parts[0]))

	if len(parts) > 1 {
		description = strings.TrimSpace(parts[1])
	}

	rawPermission := ""
	if len(parts) > 2 {
		rawPermission = strings.TrimSpace(parts[2])
	}
	if rawPermission == "" {
		return name, description, PermissionPull, true
	}

	permission, permissionOK = NormalizePermission(rawPermission)
	return name, description, permission, permissionOK
}

// ParseMemberEntry parses a member entry line of the form
// "- @username (suffix, suffix, ...)". The team list may be empty, and the
// bare token "all" targets the parent and every child team. An entry that
// does not match the grammar yields an empty username.
func ParseMemberEntry(entry string) (username string, teamSuffixes []string) {
	match := memberEntryPattern.FindStringSubmatch(strings.TrimSpace(entry))
	if match == nil {
		return "", nil
	}

	username = match[1]
	if match[2] != "" {
		for _, suffix := range strings.Split(match[2], ",") {
			if suffix = strings.TrimSpace(suffix); suffix != "" {
				teamSuffixes = append(teamSuffixes, suffix)
			}
		}
	}
	return username, teamSuffixes
}
