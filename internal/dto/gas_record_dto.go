package dto

import "github.com/shopspring/decimal"

// Time accepts HH:MM or HH:MM:SS and is always returned as HH:MM:SS.
// recorded_by is not accepted: it is always the caller.
type CreateGasRecordRequest struct {
	Date         string          `json:"date"         validate:"required,datetime=2006-01-02"`
	Time         string          `json:"time"         validate:"required,max=8"`
	Location     string          `json:"location"     validate:"required,max=255"`
	GasType      string          `json:"gas_type"     validate:"required,oneof=METANO CO CO2 H2S"`
	Level        decimal.Decimal `json:"level"        validate:"min=0"`
	Unit         string          `json:"unit"         validate:"required,oneof=% PPM"`
	Status       string          `json:"status"       validate:"required,max=50"`
	Observations *string         `json:"observations"`
}

type UpdateGasRecordRequest struct {
	Date         *string          `json:"date"         validate:"omitempty,datetime=2006-01-02"`
	Time         *string          `json:"time"         validate:"omitempty,max=8"`
	Location     *string          `json:"location"     validate:"omitempty,min=1,max=255"`
	GasType      *string          `json:"gas_type"     validate:"omitempty,oneof=METANO CO CO2 H2S"`
	Level        *decimal.Decimal `json:"level"        validate:"omitempty,min=0"`
	Unit         *string          `json:"unit"         validate:"omitempty,oneof=% PPM"`
	Status       *string          `json:"status"       validate:"omitempty,min=1,max=50"`
	Observations *string          `json:"observations"`
}

type GasRecordResponse struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Location       string          `json:"location"`
	GasType        string          `json:"gas_type"`
	Level          decimal.Decimal `json:"level"`
	Unit           string          `json:"unit"`
	Status         string          `json:"status"`
	RecordedBy     *string         `json:"recorded_by"`
	RecordedByName *string         `json:"recorded_by_name"`
	Observations   *string         `json:"observations"`
}
