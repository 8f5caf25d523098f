package teams

import "strings"

// EnsureTeamNamePrefix returns the child team name carrying the
// "<parent>-" prefix. A name that already has the prefix is returned
// unchanged, so the operation is idempotent and never double-prefixes.
func EnsureTeamNamePrefix(parentTeam, childTeam string) string {
	prefix := parentTeam + "-"
	if strings.HasPrefix(childTeam, prefix) {
		return childTeam
	}
	return prefix + childTeam
}
