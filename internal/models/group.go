package models

// Group represents a household whose members share expenses.
// Deleting a group removes everything it owns.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Casa", "Famiglia Rossi").
	Name string

	// OwnerID is the user who created the group. Only the owner may mutate it.
	OwnerID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the group.
	UpdatedAt int64
}

// Member represents one participant in a group.
// A member need not correspond to a registered account.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// GroupID is the group this member belongs to.
	GroupID string

	// UserID links the member to a registered account. Empty when the member has no account.
	UserID string

	// Name is the display name of the member.
	Name string

	// QuotaPercent is the member's share of the monthly total, nominally 0-100.
	// The sum across a group may reach QuotaCeiling.
	QuotaPercent float64

	// CreatedAt is the Unix timestamp when the member was added.
	CreatedAt int64
}

// DefaultOwnerQuota is the quota assigned to the owner's member row when a group is created.
const DefaultOwnerQuota = 100.0
