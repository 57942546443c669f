package api

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
	// Owner is the caller's member row, created with a 100% quota.
	Owner *Member `json:"owner"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group   *Group    `json:"group"`
	Members []*Member `json:"members"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type ListMembersRequest struct {
	GroupID string `json:"groupId"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type AddMemberRequest struct {
	GroupID      string  `json:"groupId"`
	Name         string  `json:"name"`
	QuotaPercent float64 `json:"quotaPercent"`
	// UserEmail optionally links the member to a registered account,
	// which grants that account read access to the group.
	UserEmail string `json:"userEmail,omitempty"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type UpdateMemberRequest struct {
	GroupID      string  `json:"groupId"`
	MemberID     string  `json:"memberId"`
	Name         string  `json:"name"`
	QuotaPercent float64 `json:"quotaPercent"`
}

type UpdateMemberResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"groupId"`
	MemberID string `json:"memberId"`
}

type RemoveMemberResponse struct{}
