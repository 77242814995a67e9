package dto

import "github.com/shopspring/decimal"

type CreateWorkFrontRequest struct {
	Name             string           `json:"name"               validate:"required,max=255"`
	Location         string           `json:"location"           validate:"required,max=255"`
	Status           string           `json:"status"             validate:"omitempty,oneof=ACTIVO PAUSADO FINALIZADO PLANIFICADO"`
	StartDate        string           `json:"start_date"         validate:"required,datetime=2006-01-02"`
	EstimatedEndDate string           `json:"estimated_end_date" validate:"required,datetime=2006-01-02"`
	Workers          int              `json:"workers"            validate:"min=0"`
	Description      *string          `json:"description"`
	Progress         *decimal.Decimal `json:"progress"           validate:"omitempty,min=0,max=100"`
	Project          *string          `json:"project"`
	Supervisor       *string          `json:"supervisor"`
}

type UpdateWorkFrontRequest struct {
	Name             *string          `json:"name"               validate:"omitempty,min=1,max=255"`
	Location         *string          `json:"location"           validate:"omitempty,min=1,max=255"`
	Status           *string          `json:"status"             validate:"omitempty,oneof=ACTIVO PAUSADO FINALIZADO PLANIFICADO"`
	StartDate        *string          `json:"start_date"         validate:"omitempty,datetime=2006-01-02"`
	EstimatedEndDate *string          `json:"estimated_end_date" validate:"omitempty,datetime=2006-01-02"`
	Workers          *int             `json:"workers"            validate:"omitempty,min=0"`
	Description      *string          `json:"description"`
	Progress         *decimal.Decimal `json:"progress"           validate:"omitempty,min=0,max=100"`
	Project          *string          `json:"project"`
	Supervisor       *string          `json:"supervisor"`
}

type WorkFrontResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Location         string          `json:"location"`
	Status           string          `json:"status"`
	StartDate        string          `json:"start_date"`
	EstimatedEndDate string          `json:"estimated_end_date"`
	Workers          int             `json:"workers"`
	Description      *string         `json:"description"`
	Progress         decimal.Decimal `json:"progress"`
	Project          *string         `json:"project"`
	ProjectName      *string         `json:"project_name"`
	Supervisor       *string         `json:"supervisor"`
	SupervisorName   *string         `json:"supervisor_name"`
}
