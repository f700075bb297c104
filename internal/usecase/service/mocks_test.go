package service

import (
	"context"
	"sync"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
	"github.com/stretchr/testify/mock"
)

// MockTeamRepository мок репозитория команд
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) Create(ctx context.Context, d *dto.CreateTeamDTO) (*domain.Team, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) AddMembers(ctx context.Context, d *dto.AddMembersDTO) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockUserRepository мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) Invite(ctx context.Context, d *dto.InviteDTO) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockIssueRepository мок репозитория issues
type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) ListByLabel(ctx context.Context, d *dto.ListIssuesDTO) ([]*domain.Issue, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Issue), args.Error(1)
}

func (m *MockIssueRepository) AddLabel(ctx context.Context, d *dto.AddLabelDTO) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockRosterRepository мок таблицы мейнтейнеров
type MockRosterRepository struct {
	mock.Mock
}

func (m *MockRosterRepository) Rows(ctx context.Context, d *dto.GetRowsDTO) ([][]string, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

// recordingAudit собирает события в памяти
type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordingAudit) Emit(event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

// rosterRow строка листа: проект в колонке 1, имя в 2, email в 5
func rosterRow(project, name, email string) []string {
	return []string{"", project, name, "", "", email}
}
