package dto

import "github.com/shopspring/decimal"

type CreateProductionRecordRequest struct {
	Project      string          `json:"project"       validate:"required,uuid"`
	Employee     *string         `json:"employee"`
	Date         string          `json:"date"          validate:"required,datetime=2006-01-02"`
	MaterialType string          `json:"material_type" validate:"required,max=100"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"min=0"`
	Unit         string          `json:"unit"          validate:"required,max=50"`
	Quality      *string         `json:"quality"       validate:"omitempty,max=50"`
	Observations *string         `json:"observations"`
}

type UpdateProductionRecordRequest struct {
	Project      *string          `json:"project"`
	Employee     *string          `json:"employee"`
	Date         *string          `json:"date"          validate:"omitempty,datetime=2006-01-02"`
	MaterialType *string          `json:"material_type" validate:"omitempty,min=1,max=100"`
	Quantity     *decimal.Decimal `json:"quantity"      validate:"omitempty,min=0"`
	Unit         *string          `json:"unit"          validate:"omitempty,min=1,max=50"`
	Quality      *string          `json:"quality"       validate:"omitempty,max=50"`
	Observations *string          `json:"observations"`
}

type ProductionRecordResponse struct {
	ID           string          `json:"id"`
	Project      string          `json:"project"`
	ProjectName  *string         `json:"project_name"`
	Employee     *string         `json:"employee"`
	EmployeeName *string         `json:"employee_name"`
	Date         string          `json:"date"`
	MaterialType string          `json:"material_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Quality      *string         `json:"quality"`
	Observations *string         `json:"observations"`
}
