// Package admin holds administrative operations. Role mutation lives here
// and nowhere else.
package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// UpdateUserRole assigns a new role. The caller must already have passed an
// ADMIN guard check; tokens issued before the change keep their stale
// advisory claim, which is harmless because the guard re-reads storage.
func (uc *UseCase) UpdateUserRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown role")
	}
	if err := uc.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return uc.users.GetByID(ctx, userID)
}
