package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v55/github"
	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
	"golang.org/x/oauth2"
)

const issuesPerPage = 100

// NewGitHubClient клиент GitHub с bearer токеном. Пустой baseURL - публичный API.
func NewGitHubClient(ctx context.Context, token, baseURL string, timeout time.Duration) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = timeout

	client := github.NewClient(httpClient)
	if baseURL == "" {
		return client, nil
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing github api url %q: %w", baseURL, err)
	}
	client.BaseURL = u
	return client, nil
}

type IssueRepository struct {
	client  *github.Client
	owner   string
	repo    string
	timeout time.Duration
}

func NewIssueRepository(client *github.Client, owner, repo string, timeout time.Duration) *IssueRepository {
	return &IssueRepository{
		client:  client,
		owner:   owner,
		repo:    repo,
		timeout: timeout,
	}
}

// ListByLabel возвращает issues с меткой, постранично. Pull requests отбрасываются.
func (r *IssueRepository) ListByLabel(ctx context.Context, d *dto.ListIssuesDTO) ([]*domain.Issue, error) {
	state := d.State
	if state == "" {
		state = "open"
	}

	opts := &github.IssueListByRepoOptions{
		State:       state,
		Labels:      []string{d.Label},
		ListOptions: github.ListOptions{PerPage: issuesPerPage},
	}

	var issues []*domain.Issue
	for {
		page, resp, err := r.listPage(ctx, opts)
		if err != nil {
			return nil, handleAPIError(err)
		}

		for _, is := range page {
			if is.IsPullRequest() {
				continue
			}
			issues = append(issues, issueFromGitHub(is))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

func (r *IssueRepository) AddLabel(ctx context.Context, d *dto.AddLabelDTO) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, _, err := r.client.Issues.AddLabelsToIssue(ctx, r.owner, r.repo, d.IssueNumber, []string{d.Label})
	return handleAPIError(err)
}

func (r *IssueRepository) listPage(ctx context.Context, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.client.Issues.ListByRepo(ctx, r.owner, r.repo, opts)
}

func issueFromGitHub(is *github.Issue) *domain.Issue {
	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.GetName())
	}
	return &domain.Issue{
		Number: is.GetNumber(),
		Title:  is.GetTitle(),
		Labels: labels,
		URL:    is.GetURL(),
		Body:   is.GetBody(),
	}
}

// IssueFromEvent переводит issue из webhook payload в доменную модель
func IssueFromEvent(is *github.Issue) *domain.Issue {
	return issueFromGitHub(is)
}
