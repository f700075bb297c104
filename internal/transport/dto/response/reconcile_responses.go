package response

import (
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
)

type ProjectResponse struct {
	ProjectName    string   `json:"project_name"`
	TeamId         int      `json:"team_id"`
	TeamCreated    bool     `json:"team_created"`
	Added          []int    `json:"added_user_ids"`
	Invited        []string `json:"invited"`
	InviteFailures []string `json:"invite_failures,omitempty"`
	Labeled        bool     `json:"labeled"`
}

type IssueResponse struct {
	IssueNumber int              `json:"issue_number"`
	Title       string           `json:"title"`
	Outcome     string           `json:"outcome"`
	Project     *ProjectResponse `json:"project,omitempty"`
	Error       string           `json:"error,omitempty"`
	Retryable   bool             `json:"retryable,omitempty"`
}

type RunReportResponse struct {
	RunId      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Reconciled int              `json:"reconciled"`
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	Issues     []*IssueResponse `json:"issues"`
}

func NewProjectResponse(res *result.ProjectResult) *ProjectResponse {
	if res == nil {
		return nil
	}
	return &ProjectResponse{
		ProjectName:    res.ProjectName,
		TeamId:         res.TeamId,
		TeamCreated:    res.TeamCreated,
		Added:          res.Added,
		Invited:        res.Invited,
		InviteFailures: res.InviteFailures,
		Labeled:        res.Labeled,
	}
}

func NewIssueResponse(outcome *result.IssueOutcome) *IssueResponse {
	resp := &IssueResponse{
		IssueNumber: outcome.IssueNumber,
		Title:       outcome.Title,
		Outcome:     string(outcome.Outcome),
		Project:     NewProjectResponse(outcome.Project),
		Retryable:   outcome.Retryable,
	}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}
	return resp
}

func NewRunReportResponse(report *result.RunReport) *RunReportResponse {
	issues := make([]*IssueResponse, 0, len(report.Issues))
	for _, outcome := range report.Issues {
		issues = append(issues, NewIssueResponse(outcome))
	}
	return &RunReportResponse{
		RunId:      report.RunId.String(),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Reconciled: report.Count(result.OutcomeReconciled),
		Skipped:    report.Count(result.OutcomeSkipped),
		Failed:     report.Count(result.OutcomeFailed),
		Issues:     issues,
	}
}
