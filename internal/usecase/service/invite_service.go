package service

import (
	"context"

	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/niklvrr/FossaOnboarding/internal/metrics"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// InviteService рассылает приглашения на платформу. Повторов нет,
// дубликаты приглашений платформа отсекает сама.
type InviteService struct {
	repo UserRepository
	log  *zap.Logger
}

func NewInviteService(repo UserRepository, log *zap.Logger) *InviteService {
	return &InviteService{
		repo: repo,
		log:  log,
	}
}

// Invite отправляет по одному приглашению на email. Ошибка одного
// приглашения не останавливает остальные, все ошибки собираются вместе.
func (s *InviteService) Invite(ctx context.Context, emails []string) (*result.InviteResult, error) {
	res := &result.InviteResult{
		Sent:   []string{},
		Failed: []string{},
	}

	var errs error
	for _, email := range emails {
		if err := s.repo.Invite(ctx, &dto.InviteDTO{Emails: []string{email}}); err != nil {
			s.log.Error("failed to send invitation",
				zap.String("email", email),
				zap.Error(err),
			)
			metrics.Invitations.WithLabelValues("failed").Inc()
			res.Failed = append(res.Failed, email)
			errs = multierr.Append(errs, mapRepositoryError(err))
			continue
		}

		metrics.Invitations.WithLabelValues("sent").Inc()
		res.Sent = append(res.Sent, email)
	}

	if len(emails) > 0 {
		s.log.Info("invitations dispatched",
			zap.Strings("sent", res.Sent),
			zap.Strings("failed", res.Failed),
		)
	}

	return res, errs
}
