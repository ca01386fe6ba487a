package groups

import "time"

// Group is a named customer segment. MemberCount is derived, never stored.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	MemberCount int       `json:"member_count"`
}

// CreateGroupRequest carries fields for a new group.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
}

// UpdateGroupRequest patches name/description; nil fields are untouched.
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Description *string `json:"description,omitempty"`
}

// MembersRequest adds or removes a set of customers.
type MembersRequest struct {
	CustomerIDs []int64 `json:"customer_ids" validate:"required,min=1"`
}

// MergeRequest folds the source groups into the target and deletes them.
type MergeRequest struct {
	SourceIDs []int64 `json:"source_ids" validate:"required,min=1"`
	TargetID  int64   `json:"target_id" validate:"required,gt=0"`
}
