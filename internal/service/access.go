package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/famiglia/internal/auth"
	"github.com/mmynk/famiglia/internal/middleware"
	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/internal/storage"
)

// guard resolves the caller's rights on a group.
// Reads need a member row linked to the caller; mutations need the owner.
type guard struct {
	groups storage.GroupStore
}

func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

func (g guard) member(ctx context.Context, groupID string) (*models.Group, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, newValidationError("group_id", "required")
	}

	group, err := g.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID == userID {
		return group, nil
	}

	ok, err := g.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

func (g guard) owner(ctx context.Context, groupID string) (*models.Group, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, newValidationError("group_id", "required")
	}

	group, err := g.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID == userID {
		return group, nil
	}

	// Members and outsiders are both denied, with different reasons.
	ok, err := g.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
}
