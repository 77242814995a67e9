// Package dto holds the JSON request and response shapes of the REST API.
// Reference fields carry the referenced id; an empty string detaches the
// reference on update.
package dto

// Wire formats for date-only and time-of-day fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ListFilter is the optional narrowing accepted by list endpoints. Resources
// without a project or date column ignore the matching parameter.
type ListFilter struct {
	Project string `form:"project" validate:"omitempty,uuid"`
	From    string `form:"from"    validate:"omitempty,datetime=2006-01-02"`
	To      string `form:"to"      validate:"omitempty,datetime=2006-01-02"`
}
