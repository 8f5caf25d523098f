package teams

import "fmt"

// ValidateRequest checks a parsed request for completeness and legality
// before any mutation is attempted. It returns every violation found so the
// caller can report a complete list, and has no side effects.
func ValidateRequest(req *Request) []string {
	var errs []string

	switch req.Action {
	case "":
		errs = append(errs, "Missing required field: Action")
	case ActionCreate, ActionUpdate, ActionRemove:
	default:
		errs = append(errs, fmt.Sprintf("Invalid action %q: must be one of create, update, remove", req.Action))
	}

	if req.TeamName == "" {
		errs = append(errs, "Missing required field: Team Name")
	}

	if req.Action == ActionCreate && req.Project == "" {
		errs = append(errs, "Missing required field: Project Name (required for create)")
	}

	return errs
}
