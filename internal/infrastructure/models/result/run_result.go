package result

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeReconciled Outcome = "reconciled"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
)

type ProjectResult struct {
	ProjectName    string
	TeamId         int
	TeamCreated    bool
	Added          []int
	Invited        []string
	InviteFailures []string
	Labeled        bool
}

type IssueOutcome struct {
	IssueNumber int
	Title       string
	Outcome     Outcome
	Project     *ProjectResult
	Err         error
	Retryable   bool
}

type RunReport struct {
	RunId      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Issues     []*IssueOutcome
}

func (r *RunReport) Count(outcome Outcome) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Outcome == outcome {
			n++
		}
	}
	return n
}
