package dto

// CreateAccessLogRequest has no timestamp: the server stamps it.
type CreateAccessLogRequest struct {
	Employee          *string `json:"employee"`
	AccessType        string  `json:"access_type"          validate:"required,oneof=ENTRADA SALIDA"`
	Area              string  `json:"area"                 validate:"required,max=100"`
	Notes             *string `json:"notes"`
	HealthStatusOrRFC *string `json:"health_status_or_rfc" validate:"omitempty,max=255"`
}

type UpdateAccessLogRequest struct {
	Employee          *string `json:"employee"`
	AccessType        *string `json:"access_type"          validate:"omitempty,oneof=ENTRADA SALIDA"`
	Area              *string `json:"area"                 validate:"omitempty,min=1,max=100"`
	Notes             *string `json:"notes"`
	HealthStatusOrRFC *string `json:"health_status_or_rfc" validate:"omitempty,max=255"`
}

type AccessLogResponse struct {
	ID                string  `json:"id"`
	Employee          string  `json:"employee"`
	EmployeeName      *string `json:"employee_name"`
	AccessType        string  `json:"access_type"`
	Timestamp         string  `json:"timestamp"`
	Area              string  `json:"area"`
	Notes             *string `json:"notes"`
	HealthStatusOrRFC *string `json:"health_status_or_rfc"`
}
