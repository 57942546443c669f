package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/internal/storage"
	"github.com/mmynk/famiglia/pkg/api"
	"github.com/mmynk/famiglia/pkg/api/apiconnect"
)

// ownerFallbackName names the owner's member row when the account has no display name.
const ownerFallbackName = "Me"

// GroupService implements the Connect GroupService
type GroupService struct {
	store  storage.Store
	guard  guard
	logger *slog.Logger
}

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:  store,
		guard:  guard{groups: store},
		logger: logger,
	}
}

// CreateGroup creates a group owned by the caller, together with the caller's member row.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroup request received", "user_id", userID, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, newValidationError("name", "required"))
	}

	ownerName := ownerFallbackName
	user, err := s.store.GetUserByID(ctx, userID)
	switch {
	case err == nil && strings.TrimSpace(user.DisplayName) != "":
		ownerName = user.DisplayName
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, toConnectError(ctx, s.logger, "CreateGroup", err)
	}

	group := &models.Group{Name: name, OwnerID: userID}
	owner := &models.Member{
		UserID:       userID,
		Name:         ownerName,
		QuotaPercent: models.DefaultOwnerQuota,
	}
	if err := s.store.CreateGroup(ctx, group, owner); err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateGroup", err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "owner_member_id", owner.ID)
	return connect.NewResponse(&api.CreateGroupResponse{
		Group: toAPIGroup(group),
		Owner: toAPIMember(owner),
	}), nil
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListGroups", err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	s.logger.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroup retrieves a group and its members.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "GetGroup", err)
	}

	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "GetGroup", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:   toAPIGroup(group),
		Members: toAPIMembers(members),
	}), nil
}

// DeleteGroup removes a group and everything it owns.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteGroup", err)
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteGroup", err)
	}

	s.logger.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListMembers", err)
	}

	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListMembers", err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(members)}), nil
}

// AddMember adds a member with a quota. The group's quota sum may not exceed 110%.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "AddMember", err)
	}

	member := &models.Member{
		GroupID:      group.ID,
		Name:         strings.TrimSpace(req.Msg.Name),
		QuotaPercent: req.Msg.QuotaPercent,
	}
	if member.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, newValidationError("name", "required"))
	}

	if email := strings.TrimSpace(req.Msg.UserEmail); email != "" {
		user, err := s.store.GetUserByEmail(ctx, email)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errors.New("no account registered with that email"))
		}
		if err != nil {
			return nil, toConnectError(ctx, s.logger, "AddMember", err)
		}

		already, err := s.store.IsMember(ctx, group.ID, user.ID)
		if err != nil {
			return nil, toConnectError(ctx, s.logger, "AddMember", err)
		}
		if already {
			return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("account is already a member of this group"))
		}
		member.UserID = user.ID
	}

	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, toConnectError(ctx, s.logger, "AddMember", err)
	}

	s.logger.Info("Member added", "group_id", group.ID, "member_id", member.ID, "quota", member.QuotaPercent)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// UpdateMember renames a member and changes their quota.
func (s *GroupService) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateMember", err)
	}

	member := &models.Member{
		ID:           req.Msg.MemberID,
		GroupID:      group.ID,
		Name:         strings.TrimSpace(req.Msg.Name),
		QuotaPercent: req.Msg.QuotaPercent,
	}
	var errs ValidationErrors
	if member.ID == "" {
		errs.Add("member_id", "required")
	}
	if member.Name == "" {
		errs.Add("name", "required")
	}
	if err := errs.Err(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.UpdateMember(ctx, member); err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateMember", err)
	}

	s.logger.Info("Member updated", "group_id", group.ID, "member_id", member.ID, "quota", member.QuotaPercent)
	return connect.NewResponse(&api.UpdateMemberResponse{Member: toAPIMember(member)}), nil
}

// RemoveMember deletes a member and their settlement payments.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "RemoveMember", err)
	}

	if err := s.store.RemoveMember(ctx, group.ID, req.Msg.MemberID); err != nil {
		return nil, toConnectError(ctx, s.logger, "RemoveMember", err)
	}

	s.logger.Info("Member removed", "group_id", group.ID, "member_id", req.Msg.MemberID)
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}
