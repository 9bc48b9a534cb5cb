package sqlite

import (
	"context"
	"time"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store/drivers/sqlite/gen"
)

type loginChallengesRepo struct {
	q *gen.Queries
}

func (r *loginChallengesRepo) CreateLoginChallenge(ctx context.Context, c domain.LoginChallenge) error {
	return mapConstraint(r.q.CreateLoginChallenge(ctx, gen.CreateLoginChallengeParams{
		ID:        c.ID,
		AdminID:   c.AdminID,
		CreatedAt: utc(c.CreatedAt),
		ExpiresAt: utc(c.ExpiresAt),
	}))
}

func (r *loginChallengesRepo) GetLoginChallenge(ctx context.Context, id string, now time.Time) (domain.LoginChallenge, error) {
	row, err := r.q.GetLoginChallenge(ctx, gen.GetLoginChallengeParams{
		ID:        id,
		ExpiresAt: utc(now),
	})
	if err != nil {
		return domain.LoginChallenge{}, mapNotFound(err)
	}
	return mapLoginChallenge(row), nil
}

func (r *loginChallengesRepo) IncrementLoginChallengeAttempts(ctx context.Context, id string) (domain.LoginChallenge, error) {
	row, err := r.q.IncrementLoginChallengeAttempts(ctx, id)
	if err != nil {
		return domain.LoginChallenge{}, mapNotFound(err)
	}
	return mapLoginChallenge(row), nil
}

func (r *loginChallengesRepo) DeleteLoginChallenge(ctx context.Context, id string) error {
	return r.q.DeleteLoginChallenge(ctx, id)
}

func (r *loginChallengesRepo) DeleteExpiredLoginChallenges(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredLoginChallenges(ctx, utc(now))
}
