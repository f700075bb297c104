package service

import (
	"context"
	"errors"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/config"
	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/niklvrr/FossaOnboarding/internal/metrics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type OnboardingConfig struct {
	SpreadsheetId  string
	ProcessedLabel string
	LabelPolicy    config.LabelPolicy
	Workers        int
}

// OnboardingService прогон сверки: issues -> проекты -> команды
type OnboardingService struct {
	roster   *RosterService
	intake   *IntakeService
	teams    *TeamService
	invites  *InviteService
	teamRepo TeamRepository
	userRepo UserRepository
	cfg      OnboardingConfig
	locks    *projectLocks
	log      *zap.Logger
}

func NewOnboardingService(
	roster *RosterService,
	intake *IntakeService,
	teams *TeamService,
	invites *InviteService,
	teamRepo TeamRepository,
	userRepo UserRepository,
	cfg OnboardingConfig,
	log *zap.Logger,
) *OnboardingService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.LabelPolicy == "" {
		cfg.LabelPolicy = config.LabelOnCreate
	}
	return &OnboardingService{
		roster:   roster,
		intake:   intake,
		teams:    teams,
		invites:  invites,
		teamRepo: teamRepo,
		userRepo: userRepo,
		cfg:      cfg,
		locks:    newProjectLocks(),
		log:      log,
	}
}

func (s *OnboardingService) NewSession() *Session {
	return NewSession(s.teamRepo, s.userRepo)
}

// Run один проход по всем открытым issues онбординга. Ошибка возвращается
// только если не удалось получить таблицу или список issues; сбои
// отдельных issues попадают в отчет.
func (s *OnboardingService) Run(ctx context.Context) (*result.RunReport, error) {
	sess := s.NewSession()
	report := &result.RunReport{RunId: sess.Id, StartedAt: time.Now()}

	s.log.Info("reconciliation run started", zap.String("session_id", sess.Id.String()))

	roster, err := s.roster.GetRoster(ctx, s.cfg.SpreadsheetId)
	if err != nil {
		return nil, err
	}

	issues, err := s.intake.ListOnboardingIssues(ctx)
	if err != nil {
		return nil, err
	}

	report.Issues = make([]*result.IssueOutcome, len(issues))
	p := pool.New().WithMaxGoroutines(s.cfg.Workers)
	for i, issue := range issues {
		p.Go(func() {
			report.Issues[i] = s.processIssue(ctx, sess, roster, issue)
		})
	}
	p.Wait()

	report.FinishedAt = time.Now()
	s.log.Info("reconciliation run finished",
		zap.String("session_id", sess.Id.String()),
		zap.Int("issues", len(issues)),
		zap.Int("reconciled", report.Count(result.OutcomeReconciled)),
		zap.Int("skipped", report.Count(result.OutcomeSkipped)),
		zap.Int("failed", report.Count(result.OutcomeFailed)),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// HandleIssue сверка одного issue в собственной сессии (webhook)
func (s *OnboardingService) HandleIssue(ctx context.Context, issue *domain.Issue) (*result.IssueOutcome, error) {
	roster, err := s.roster.GetRoster(ctx, s.cfg.SpreadsheetId)
	if err != nil {
		return nil, err
	}
	return s.processIssue(ctx, s.NewSession(), roster, issue), nil
}

// ReconcileProject сверка проекта по имени, без issue и без меток
func (s *OnboardingService) ReconcileProject(ctx context.Context, projectName string) (*result.ProjectResult, error) {
	roster, err := s.roster.GetRoster(ctx, s.cfg.SpreadsheetId)
	if err != nil {
		return nil, err
	}

	maintainers := roster[projectName]
	if len(maintainers) == 0 {
		s.log.Warn("no maintainers for project", zap.String("project", projectName))
		return nil, ErrNoMaintainers
	}

	return s.reconcile(ctx, s.NewSession(), projectName, maintainers)
}

func (s *OnboardingService) processIssue(ctx context.Context, sess *Session, roster domain.Roster, issue *domain.Issue) *result.IssueOutcome {
	outcome := &result.IssueOutcome{
		IssueNumber: issue.Number,
		Title:       issue.Title,
	}
	defer func() {
		metrics.IssuesProcessed.WithLabelValues(string(outcome.Outcome)).Inc()
	}()

	log := s.log.With(
		zap.String("session_id", sess.Id.String()),
		zap.Int("issue", issue.Number),
	)

	projectName, err := s.intake.ExtractProjectName(issue.Title)
	if err != nil {
		log.Warn("skipping issue: cannot extract project name",
			zap.String("title", issue.Title),
			zap.Error(err),
		)
		outcome.Outcome = result.OutcomeSkipped
		outcome.Err = err
		return outcome
	}

	maintainers := roster[projectName]
	if len(maintainers) == 0 {
		log.Warn("skipping issue: no maintainers for project", zap.String("project", projectName))
		outcome.Outcome = result.OutcomeSkipped
		outcome.Err = ErrNoMaintainers
		return outcome
	}

	res, err := s.reconcile(ctx, sess, projectName, maintainers)
	outcome.Project = res
	if res != nil && s.shouldLabel(res, err) {
		if issue.HasLabel(s.cfg.ProcessedLabel) {
			res.Labeled = true
		} else if lerr := s.intake.MarkProcessed(ctx, issue.Number, s.cfg.ProcessedLabel); lerr != nil {
			err = errors.Join(err, lerr)
		} else {
			res.Labeled = true
		}
	}

	if err != nil {
		log.Error("issue reconciliation failed",
			zap.String("project", projectName),
			zap.Error(err),
		)
		outcome.Outcome = result.OutcomeFailed
		outcome.Err = err
		outcome.Retryable = IsRetryable(err)
		return outcome
	}

	outcome.Outcome = result.OutcomeReconciled
	return outcome
}

// shouldLabel on-create: только если команда создана в этом прогоне,
// даже если участники потом не добавились; on-success: после полной сверки
func (s *OnboardingService) shouldLabel(res *result.ProjectResult, err error) bool {
	switch s.cfg.LabelPolicy {
	case config.LabelOnSuccess:
		return err == nil
	default:
		return res.TeamCreated
	}
}

// reconcile EnsureTeam -> SyncMembers -> Invite строго по порядку.
// Результат не nil, если команда найдена или создана.
func (s *OnboardingService) reconcile(ctx context.Context, sess *Session, projectName string, maintainers []domain.Maintainer) (*result.ProjectResult, error) {
	unlock := s.locks.Lock(projectName)
	defer unlock()

	ensured, err := s.teams.EnsureTeam(ctx, sess, projectName)
	if err != nil {
		return nil, err
	}

	res := &result.ProjectResult{
		ProjectName: projectName,
		TeamId:      ensured.Team.Id,
		TeamCreated: ensured.Created,
		Added:       []int{},
		Invited:     []string{},
	}

	synced, err := s.teams.SyncMembers(ctx, sess, ensured.Team, maintainers)
	if err != nil {
		if ensured.Created {
			var attempted []int
			if synced != nil {
				attempted = synced.Attempted
			}
			return res, newPartialApplicationError(projectName, ensured.Team.Id, attempted, err)
		}
		return res, err
	}
	res.Added = synced.Added

	invited, err := s.invites.Invite(ctx, synced.InviteQueue)
	res.Invited = invited.Sent
	res.InviteFailures = invited.Failed
	if err != nil {
		// приглашения без повторов: сбой фиксируется в отчете, сверка успешна
		s.log.Warn("some invitations were not sent",
			zap.String("session_id", sess.Id.String()),
			zap.String("project", projectName),
			zap.Strings("failed", invited.Failed),
			zap.Error(err),
		)
	}

	return res, nil
}
