package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/niklvrr/FossaOnboarding/internal/cache"
	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
)

// Интерфейсы репозиториев платформы
type TeamRepository interface {
	List(ctx context.Context) ([]*domain.Team, error)
	Create(ctx context.Context, d *dto.CreateTeamDTO) (*domain.Team, error)
	AddMembers(ctx context.Context, d *dto.AddMembersDTO) error
}

type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	Invite(ctx context.Context, d *dto.InviteDTO) error
}

// Session состояние одного прогона сверки: кэши пользователей и команд
// платформы. Создается на прогон и выбрасывается после него.
type Session struct {
	Id    uuid.UUID
	users *cache.Collection[*domain.User]
	teams *cache.Collection[*domain.Team]
}

func NewSession(teams TeamRepository, users UserRepository) *Session {
	return &Session{
		Id:    uuid.New(),
		users: cache.NewCollection[*domain.User](users.List),
		teams: cache.NewCollection[*domain.Team](teams.List),
	}
}

// projectLocks сериализует сверку одного проекта между прогонами
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*projectLock
}

type projectLock struct {
	mu   sync.Mutex
	refs int
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*projectLock)}
}

func (p *projectLocks) Lock(project string) (unlock func()) {
	p.mu.Lock()
	l, ok := p.locks[project]
	if !ok {
		l = &projectLock{}
		p.locks[project] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, project)
		}
		p.mu.Unlock()
	}
}
