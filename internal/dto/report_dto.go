package dto

type GenerateReportRequest struct {
	ReportType string  `json:"report_type" validate:"required,oneof=production personnel project"`
	Title      string  `json:"title"       validate:"max=200"`
	Project    *string `json:"project"`
	StartDate  *string `json:"start_date"  validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date"    validate:"omitempty,datetime=2006-01-02"`
}

type ReportResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	ReportType      string  `json:"report_type"`
	Project         *string `json:"project"`
	ProjectName     *string `json:"project_name"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	Status          string  `json:"status"`
	RetryCount      int     `json:"retry_count"`
	LastError       *string `json:"last_error"`
	RequestedBy     string  `json:"requested_by"`
	RequestedByName *string `json:"requested_by_name"`
	CreatedAt       string  `json:"created_at"`
}
