package teams

// Canonical GitHub repository permission values. Configs at rest only ever
// contain these; the user-facing aliases read/write are mapped at parse time.
const (
	PermissionPull     = "pull"
	PermissionPush     = "push"
	PermissionAdmin    = "admin"
	PermissionMaintain = "maintain"
	PermissionTriage   = "triage"
)

// permissionAliases maps user-facing permission names to the GitHub API
// vocabulary. Canonical names map to themselves.
var permissionAliases = map[string]string{
	"read":     PermissionPull,
	"write":    PermissionPush,
	"pull":     PermissionPull,
	"push":     PermissionPush,
	"admin":    PermissionAdmin,
	"maintain": PermissionMaintain,
	"triage":   PermissionTriage,
}

// NormalizePermission maps a user-supplied permission to its canonical
// GitHub value. Unknown values fall back to pull; the second return reports
// whether the input was recognized so callers can warn.
func NormalizePermission(permission string) (string, bool) {
	if canonical, ok := permissionAliases[permission]; ok {
		return canonical, true
	}
	return PermissionPull, false
}
