package service

import (
	"context"
	"errors"
	"sync"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/repository"
	"github.com/niklvrr/FossaOnboarding/internal/metrics"
	"go.uber.org/zap"
)

type AuditSink interface {
	Emit(event domain.AuditEvent)
}

// TeamService сверка команды проекта: TEAM_MISSING -> TEAM_EXISTS -> MEMBERS_SYNCED
type TeamService struct {
	repo     TeamRepository
	identity *IdentityService
	audit    AuditSink
	roleId   int
	log      *zap.Logger

	// команды, созданные этим процессом; видны прогонам, загрузившим кэш раньше
	created sync.Map
}

func NewTeamService(repo TeamRepository, identity *IdentityService, audit AuditSink, roleId int, log *zap.Logger) *TeamService {
	if roleId == 0 {
		roleId = domain.RoleTeamAdmin
	}
	return &TeamService{
		repo:     repo,
		identity: identity,
		audit:    audit,
		roleId:   roleId,
		log:      log,
	}
}

// EnsureTeam находит команду по точному имени или создает ее
func (s *TeamService) EnsureTeam(ctx context.Context, sess *Session, projectName string) (*result.EnsureTeamResult, error) {
	team, found, err := sess.teams.Find(ctx, func(t *domain.Team) bool {
		return t.Name == projectName
	})
	if err != nil {
		s.log.Error("failed to load platform teams",
			zap.String("session_id", sess.Id.String()),
			zap.String("project", projectName),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	if !found {
		if v, ok := s.created.Load(projectName); ok {
			team, found = v.(*domain.Team), true
			sess.teams.Append(team)
		}
	}

	if found {
		s.log.Info("team already exists",
			zap.String("session_id", sess.Id.String()),
			zap.String("project", projectName),
			zap.Int("team_id", team.Id),
		)
		return &result.EnsureTeamResult{Team: team, State: domain.StateTeamExists}, nil
	}

	s.log.Info("team missing, creating",
		zap.String("session_id", sess.Id.String()),
		zap.String("project", projectName),
		zap.String("state", string(domain.StateTeamMissing)),
	)

	team, err = s.repo.Create(ctx, &dto.CreateTeamDTO{
		TeamName:      projectName,
		DefaultRoleId: s.roleId,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return s.adoptExisting(ctx, sess, projectName, err)
	}
	if err != nil {
		s.log.Error("failed to create team",
			zap.String("session_id", sess.Id.String()),
			zap.String("project", projectName),
			zap.Int("default_role_id", s.roleId),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	sess.teams.Append(team)
	s.created.Store(projectName, team)
	metrics.TeamsCreated.Inc()

	s.audit.Emit(domain.AuditEvent{
		EventType: domain.EventTypeFossa,
		Action:    domain.ActionTeamCreated,
		Payload: map[string]any{
			"session_id": sess.Id.String(),
			"id":         team.Id,
			"name":       team.Name,
		},
	})

	s.log.Info("team created",
		zap.String("session_id", sess.Id.String()),
		zap.String("project", projectName),
		zap.Int("team_id", team.Id),
		zap.String("state", string(domain.StateTeamExists)),
	)

	return &result.EnsureTeamResult{Team: team, Created: true, State: domain.StateTeamExists}, nil
}

// adoptExisting команду создали между выборкой и POST: перечитываем список
func (s *TeamService) adoptExisting(ctx context.Context, sess *Session, projectName string, createErr error) (*result.EnsureTeamResult, error) {
	sess.teams.Invalidate()

	team, found, err := sess.teams.Find(ctx, func(t *domain.Team) bool {
		return t.Name == projectName
	})
	if err != nil {
		s.log.Error("failed to reload platform teams after create conflict",
			zap.String("session_id", sess.Id.String()),
			zap.String("project", projectName),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}
	if !found {
		s.log.Error("team create conflicted but team is not listed",
			zap.String("session_id", sess.Id.String()),
			zap.String("project", projectName),
			zap.Int("teams", sess.teams.Len()),
			zap.Error(createErr),
		)
		return nil, mapRepositoryError(createErr)
	}

	s.log.Warn("team created concurrently, using existing",
		zap.String("session_id", sess.Id.String()),
		zap.String("project", projectName),
		zap.Int("team_id", team.Id),
		zap.Int("teams", sess.teams.Len()),
	)
	return &result.EnsureTeamResult{Team: team, State: domain.StateTeamExists}, nil
}

// SyncMembers добавляет недостающих мейнтейнеров одним запросом и
// возвращает email без аккаунта для приглашения. При ошибке добавления
// результат не nil: Attempted содержит отправленные id.
func (s *TeamService) SyncMembers(ctx context.Context, sess *Session, team *domain.Team, roster []domain.Maintainer) (*result.SyncMembersResult, error) {
	partition, err := s.identity.Partition(ctx, sess, roster, team)
	if err != nil {
		return nil, err
	}

	res := &result.SyncMembersResult{
		TeamId:      team.Id,
		Added:       []int{},
		Attempted:   partition.Resolved,
		InviteQueue: partition.Unresolved,
		State:       domain.StateMembersSynced,
	}

	if len(partition.Resolved) == 0 {
		s.log.Info("team membership up to date",
			zap.String("session_id", sess.Id.String()),
			zap.String("team", team.Name),
			zap.Int("team_id", team.Id),
			zap.Int("unresolved", len(partition.Unresolved)),
		)
		return res, nil
	}

	err = s.repo.AddMembers(ctx, &dto.AddMembersDTO{
		TeamId:  team.Id,
		UserIds: partition.Resolved,
		RoleId:  s.roleId,
	})
	if err != nil {
		s.log.Error("failed to add team members",
			zap.String("session_id", sess.Id.String()),
			zap.String("team", team.Name),
			zap.Int("team_id", team.Id),
			zap.Ints("user_ids", partition.Resolved),
			zap.Int("role_id", s.roleId),
			zap.Error(err),
		)
		return res, mapRepositoryError(err)
	}

	team.AddMembers(partition.Resolved...)
	res.Added = partition.Resolved
	metrics.MembersAdded.Add(float64(len(res.Added)))

	s.audit.Emit(domain.AuditEvent{
		EventType: domain.EventTypeFossa,
		Action:    domain.ActionTeamMembershipUpdate,
		Payload: map[string]any{
			"session_id": sess.Id.String(),
			"team_id":    team.Id,
			"team_name":  team.Name,
			"added":      res.Added,
			"role_id":    s.roleId,
		},
	})

	s.log.Info("team members added",
		zap.String("session_id", sess.Id.String()),
		zap.String("team", team.Name),
		zap.Int("team_id", team.Id),
		zap.Ints("user_ids", res.Added),
		zap.String("state", string(domain.StateMembersSynced)),
	)

	return res, nil
}
