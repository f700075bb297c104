package service

import (
	"context"
	"strings"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

type IssueRepository interface {
	ListByLabel(ctx context.Context, d *dto.ListIssuesDTO) ([]*domain.Issue, error)
	AddLabel(ctx context.Context, d *dto.AddLabelDTO) error
}

type IntakeService struct {
	repo   IssueRepository
	label  string
	marker string
	log    *zap.Logger
}

func NewIntakeService(repo IssueRepository, label, marker string, log *zap.Logger) *IntakeService {
	return &IntakeService{
		repo:   repo,
		label:  label,
		marker: marker,
		log:    log,
	}
}

func (s *IntakeService) Label() string {
	return s.label
}

// ListOnboardingIssues открытые issues с меткой онбординга
func (s *IntakeService) ListOnboardingIssues(ctx context.Context) ([]*domain.Issue, error) {
	issues, err := s.repo.ListByLabel(ctx, &dto.ListIssuesDTO{
		Label: s.label,
		State: "open",
	})
	if err != nil {
		s.log.Error("failed to list onboarding issues",
			zap.String("label", s.label),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	s.log.Info("onboarding issues fetched",
		zap.String("label", s.label),
		zap.Int("count", len(issues)),
	)
	return issues, nil
}

// ExtractProjectName имя проекта - текст после маркера, без пробелов по краям
func (s *IntakeService) ExtractProjectName(title string) (string, error) {
	_, name, found := strings.Cut(title, s.marker)
	if !found {
		return "", ErrTitleWithoutMarker
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyProjectName
	}
	return name, nil
}

func (s *IntakeService) MarkProcessed(ctx context.Context, issueNumber int, label string) error {
	err := s.repo.AddLabel(ctx, &dto.AddLabelDTO{
		IssueNumber: issueNumber,
		Label:       label,
	})
	if err != nil {
		s.log.Error("failed to label issue",
			zap.Int("issue", issueNumber),
			zap.String("label", label),
			zap.Error(err),
		)
		return mapRepositoryError(err)
	}

	s.log.Info("issue labeled",
		zap.Int("issue", issueNumber),
		zap.String("label", label),
	)
	return nil
}
