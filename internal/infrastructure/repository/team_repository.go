package repository

import (
	"context"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/fossa"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
)

type TeamRepository struct {
	client  *fossa.Client
	timeout time.Duration
}

func NewTeamRepository(client *fossa.Client, timeout time.Duration) *TeamRepository {
	return &TeamRepository{
		client:  client,
		timeout: timeout,
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	payloads, err := r.client.ListTeams(ctx)
	if err != nil {
		return nil, handleAPIError(err)
	}

	teams := make([]*domain.Team, 0, len(payloads))
	for _, p := range payloads {
		teams = append(teams, teamFromPayload(p))
	}
	return teams, nil
}

func (r *TeamRepository) Create(ctx context.Context, d *dto.CreateTeamDTO) (*domain.Team, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := r.client.CreateTeam(ctx, fossa.CreateTeamRequest{
		Name:          d.TeamName,
		AutoAddUsers:  false,
		DefaultRoleId: d.DefaultRoleId,
	})
	if err != nil {
		return nil, handleAPIError(err)
	}

	team := teamFromPayload(*payload)
	// Некоторые ответы FOSSA не содержат имя
	if team.Name == "" {
		team.Name = d.TeamName
	}
	return team, nil
}

// AddMembers добавляет пользователей одним запросом
func (r *TeamRepository) AddMembers(ctx context.Context, d *dto.AddMembersDTO) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	users := make([]fossa.TeamUserPayload, 0, len(d.UserIds))
	for _, id := range d.UserIds {
		users = append(users, fossa.TeamUserPayload{Id: id, RoleId: d.RoleId})
	}

	err := r.client.UpdateTeamUsers(ctx, d.TeamId, fossa.UpdateTeamUsersRequest{
		Action: fossa.ActionAdd,
		Users:  users,
	})
	return handleAPIError(err)
}

func teamFromPayload(p fossa.TeamPayload) *domain.Team {
	team := &domain.Team{
		Id:        p.Id,
		Name:      p.Name,
		MemberIds: make([]int, 0, len(p.Users)),
	}
	for _, u := range p.Users {
		team.MemberIds = append(team.MemberIds, u.Id)
	}
	return team
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
