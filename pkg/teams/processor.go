package teams

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Commenter posts the run outcome back to the requester. The issue comment
// is the only user-visible output channel of a run.
type Commenter interface {
	CommentOnIssue(repo string, issueNumber int, body string) error
}

// Syncer reconciles a declarative configuration against the remote system
// and reports success plus a human-readable result line.
type Syncer interface {
	Sync(configs []TeamConfig) (bool, string)
}

// Outcome is the result of processing one request: the comment body posted
// to the issue and whether the run should exit non-zero.
type Outcome struct {
	Message string
	Failed  bool
}

// Processor sequences validate -> mutate -> persist -> synchronize ->
// report for one team-management request.
type Processor struct {
	store     *Store
	engine    *Engine
	syncer    Syncer
	commenter Commenter
	log       *logrus.Logger
}

// NewProcessor wires a processor from its collaborators.
func NewProcessor(store *Store, engine *Engine, syncer Syncer, commenter Commenter, log *logrus.Logger) *Processor {
	return &Processor{store: store, engine: engine, syncer: syncer, commenter: commenter, log: log}
}

// Run processes a request end to end and posts the outcome as a comment on
// the originating issue. Partial application is possible: a saved config
// whose synchronization fails is still reported as saved, with the sync
// failure in its own section, and the run is marked failed.
func (p *Processor) Run(req *Request, issueRepo string, issueNumber int) Outcome {
	if errs := ValidateRequest(req); len(errs) > 0 {
		outcome := Outcome{
			Message: "⚠️ " + strings.Join(errs, "\n⚠️ "),
			Failed:  true,
		}
		p.comment(issueRepo, issueNumber, outcome.Message)
		return outcome
	}

	doc, warnings, err := p.apply(req)
	if err != nil {
		outcome := Outcome{Message: fmt.Sprintf("❌ %v", err), Failed: true}
		p.comment(issueRepo, issueNumber, outcome.Message)
		return outcome
	}

	if err := p.store.Save(req.TeamName, doc); err != nil {
		outcome := Outcome{Message: fmt.Sprintf("❌ %v", err), Failed: true}
		p.comment(issueRepo, issueNumber, outcome.Message)
		return outcome
	}

	syncOK, syncMsg := p.syncer.Sync([]TeamConfig{doc.Teams})

	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s", successLine(req))
	for _, warning := range warnings {
		fmt.Fprintf(&b, "\n⚠️ %s", warning)
	}
	if syncMsg != "" {
		fmt.Fprintf(&b, "\n\n### GitHub Team Sync\n%s", syncMsg)
	}

	outcome := Outcome{Message: b.String(), Failed: !syncOK}
	p.comment(issueRepo, issueNumber, outcome.Message)
	return outcome
}

// apply dispatches the request to the mutation engine, enforcing the
// create-only-once precondition.
func (p *Processor) apply(req *Request) (*Document, []string, error) {
	switch req.Action {
	case ActionCreate:
		if p.store.Exists(req.TeamName) {
			return nil, nil, fmt.Errorf("%w: %s", ErrConfigExists, req.TeamName)
		}
		return p.engine.Create(req)
	case ActionUpdate:
		return p.engine.Update(req)
	case ActionRemove:
		return p.engine.Remove(req)
	default:
		return nil, nil, fmt.Errorf("unsupported action %q", req.Action)
	}
}

func successLine(req *Request) string {
	switch req.Action {
	case ActionCreate:
		return fmt.Sprintf("Team configuration for %s created successfully", req.TeamName)
	case ActionRemove:
		return fmt.Sprintf("Requested items removed from team configuration for %s successfully", req.TeamName)
	default:
		return fmt.Sprintf("Team configuration for %s updated successfully", req.TeamName)
	}
}

// comment posts best effort: a failed comment is logged, never fatal, so
// the run result is still reflected in the exit code.
func (p *Processor) comment(repo string, issueNumber int, body string) {
	if p.commenter == nil || repo == "" || issueNumber == 0 {
		return
	}
	if err := p.commenter.CommentOnIssue(repo, issueNumber, body); err != nil {
		p.log.WithError(err).Error("Failed to comment on issue")
	}
}
