package dto

type CreateUserRequest struct {
	Username      string  `json:"username"       validate:"required,min=1,max=150"`
	Email         string  `json:"email"          validate:"omitempty,email,max=254"`
	Password      string  `json:"password"       validate:"required,min=8,max=128"`
	FirstName     string  `json:"first_name"     validate:"max=150"`
	LastName      string  `json:"last_name"      validate:"max=150"`
	Role          string  `json:"role"           validate:"omitempty,oneof=ADMIN SUPERVISOR EMPLOYEE"`
	IDNumber      *string `json:"id_number"      validate:"omitempty,max=50"`
	Phone         *string `json:"phone"          validate:"omitempty,max=20"`
	FingerprintID *string `json:"fingerprint_id" validate:"omitempty,max=100"`
	IsSuperuser   bool    `json:"is_superuser"`
	IsStaff       bool    `json:"is_staff"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateUserRequest is used for PUT and PATCH alike: absent fields keep their
// stored value.
type UpdateUserRequest struct {
	Username      *string `json:"username"       validate:"omitempty,min=1,max=150"`
	Email         *string `json:"email"          validate:"omitempty,email,max=254"`
	Password      *string `json:"password"       validate:"omitempty,min=8,max=128"`
	FirstName     *string `json:"first_name"     validate:"omitempty,max=150"`
	LastName      *string `json:"last_name"      validate:"omitempty,max=150"`
	Role          *string `json:"role"           validate:"omitempty,oneof=ADMIN SUPERVISOR EMPLOYEE"`
	IDNumber      *string `json:"id_number"      validate:"omitempty,max=50"`
	Phone         *string `json:"phone"          validate:"omitempty,max=20"`
	FingerprintID *string `json:"fingerprint_id" validate:"omitempty,max=100"`
	IsSuperuser   *bool   `json:"is_superuser"`
	IsStaff       *bool   `json:"is_staff"`
	IsActive      *bool   `json:"is_active"`
}

type UserResponse struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Role          string  `json:"role"`
	IDNumber      *string `json:"id_number"`
	Phone         *string `json:"phone"`
	FingerprintID *string `json:"fingerprint_id"`
	IsSuperuser   bool    `json:"is_superuser"`
	IsStaff       bool    `json:"is_staff"`
	IsActive      bool    `json:"is_active"`
	DateJoined    string  `json:"date_joined"`
}
