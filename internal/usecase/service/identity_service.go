package service

import (
	"context"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

type IdentityService struct {
	log *zap.Logger
}

func NewIdentityService(log *zap.Logger) *IdentityService {
	return &IdentityService{log: log}
}

// ResolveUser ищет пользователя платформы по email (с учетом регистра).
// Не найден - (nil, false, nil); ошибка только при загрузке кэша.
func (s *IdentityService) ResolveUser(ctx context.Context, sess *Session, email string) (*domain.User, bool, error) {
	user, found, err := sess.users.Find(ctx, func(u *domain.User) bool {
		return u.Email == email
	})
	if err != nil {
		s.log.Error("failed to load platform users",
			zap.String("session_id", sess.Id.String()),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, false, mapRepositoryError(err)
	}
	return user, found, nil
}

type resolution struct {
	maintainer domain.Maintainer
	user       *domain.User
	found      bool
	err        error
}

// Partition делит мейнтейнеров на найденных пользователей, которых еще
// нет в команде, и email без аккаунта. Участники команды отбрасываются.
func (s *IdentityService) Partition(ctx context.Context, sess *Session, maintainers []domain.Maintainer, team *domain.Team) (*result.PartitionResult, error) {
	// Загружаем кэш до параллельного поиска
	if err := sess.users.Warm(ctx); err != nil {
		s.log.Error("failed to load platform users",
			zap.String("session_id", sess.Id.String()),
			zap.Int("team_id", team.Id),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	resolved := iter.Map(maintainers, func(m *domain.Maintainer) resolution {
		user, found, err := s.ResolveUser(ctx, sess, m.Email)
		return resolution{maintainer: *m, user: user, found: found, err: err}
	})

	res := &result.PartitionResult{
		Resolved:   []int{},
		Unresolved: []string{},
	}
	taken := make(map[int]bool)
	for _, r := range resolved {
		switch {
		case r.err != nil:
			return nil, r.err
		case !r.found:
			res.Unresolved = append(res.Unresolved, r.maintainer.Email)
		case team.HasMember(r.user.Id), taken[r.user.Id]:
			// уже в команде
		default:
			taken[r.user.Id] = true
			res.Resolved = append(res.Resolved, r.user.Id)
		}
	}

	s.log.Debug("maintainers partitioned",
		zap.String("session_id", sess.Id.String()),
		zap.Int("team_id", team.Id),
		zap.Int("maintainers", len(maintainers)),
		zap.Ints("resolved", res.Resolved),
		zap.Strings("unresolved", res.Unresolved),
	)

	return res, nil
}
