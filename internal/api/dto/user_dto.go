package dto

// UpdateProfileRequest edits the caller's account; omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=50"`
	Phone      *string  `json:"phone" validate:"omitempty,max=40"`
	Bio        *string  `json:"bio" validate:"omitempty,max=500"`
	Location   *string  `json:"location" validate:"omitempty,max=100"`
	Skills     []string `json:"skills" validate:"omitempty,dive,max=50"`
	Experience *string  `json:"experience" validate:"omitempty,max=2000"`
	Education  *string  `json:"education" validate:"omitempty,max=2000"`
	Website    *string  `json:"website" validate:"omitempty,url"`
}

// SetUserStatusRequest activates or deactivates an account.
type SetUserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
