package adaptor

import (
	"context"

	"store-rating/internal/data/entity"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
)

// principalFromContext reads the authenticated principal set by the session
// middleware.
func principalFromContext(ctx context.Context) (uuid.UUID, entity.UserRole, bool) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", false
	}

	role, ok := utils.GetRoleFromContext(ctx)
	if !ok {
		return uuid.Nil, "", false
	}

	return userID, entity.UserRole(role), true
}
