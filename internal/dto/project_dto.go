package dto

type CreateProjectRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Location    string  `json:"location"    validate:"required,max=255"`
	StartDate   string  `json:"start_date"  validate:"required,datetime=2006-01-02"`
	Description *string `json:"description"`
	Manager     *string `json:"manager"`
	Status      string  `json:"status"      validate:"max=50"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=255"`
	Location    *string `json:"location"    validate:"omitempty,min=1,max=255"`
	StartDate   *string `json:"start_date"  validate:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description"`
	Manager     *string `json:"manager"`
	Status      *string `json:"status"      validate:"omitempty,max=50"`
}

type ProjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	StartDate   string  `json:"start_date"`
	Description *string `json:"description"`
	Manager     *string `json:"manager"`
	ManagerName *string `json:"manager_name"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
