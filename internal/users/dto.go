package users

// CreateUserRequest carries the fields needed to create a team member.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Password  string `json:"password" validate:"required,min=8"`
	RoleID    int64  `json:"role_id" validate:"required,gt=0"`
	Team      string `json:"team" validate:"max=100"`
}

// UpdateUserRequest carries partial updates; nil fields are left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8"`
	RoleID    *int64  `json:"role_id,omitempty" validate:"omitempty,gt=0"`
	Team      *string `json:"team,omitempty" validate:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// ListLoginsRequest filters login history by year and optionally month.
type ListLoginsRequest struct {
	UserID int64
	Year   int `validate:"omitempty,gte=2000,lte=2100"`
	Month  int `validate:"omitempty,gte=1,lte=12"`
}
