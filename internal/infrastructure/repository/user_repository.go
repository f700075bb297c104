package repository

import (
	"context"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/fossa"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
)

type UserRepository struct {
	client  *fossa.Client
	timeout time.Duration
}

func NewUserRepository(client *fossa.Client, timeout time.Duration) *UserRepository {
	return &UserRepository{
		client:  client,
		timeout: timeout,
	}
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	payloads, err := r.client.ListUsers(ctx)
	if err != nil {
		return nil, handleAPIError(err)
	}

	users := make([]*domain.User, 0, len(payloads))
	for _, p := range payloads {
		users = append(users, &domain.User{
			Id:       p.Id,
			Email:    p.Email,
			Username: p.Username,
		})
	}
	return users, nil
}

func (r *UserRepository) Invite(ctx context.Context, d *dto.InviteDTO) error {
	if len(d.Emails) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return handleAPIError(r.client.Invite(ctx, d.Emails))
}
