package dto

import "github.com/shopspring/decimal"

// ─── Inventory items ─────────────────────────────────────────────────────────

type CreateInventoryItemRequest struct {
	Name     string          `json:"name"     validate:"required,max=255"`
	Quantity decimal.Decimal `json:"quantity" validate:"min=0"`
	Unit     string          `json:"unit"     validate:"required,max=50"`
	Location string          `json:"location" validate:"required,max=255"`
	Status   string          `json:"status"   validate:"required,max=50"`
}

type UpdateInventoryItemRequest struct {
	Name     *string          `json:"name"     validate:"omitempty,min=1,max=255"`
	Quantity *decimal.Decimal `json:"quantity" validate:"omitempty,min=0"`
	Unit     *string          `json:"unit"     validate:"omitempty,min=1,max=50"`
	Location *string          `json:"location" validate:"omitempty,min=1,max=255"`
	Status   *string          `json:"status"   validate:"omitempty,min=1,max=50"`
}

type InventoryItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Location    string          `json:"location"`
	LastUpdated string          `json:"last_updated"`
	Status      string          `json:"status"`
}

// ─── Tools ───────────────────────────────────────────────────────────────────

type CreateToolRequest struct {
	Name             string  `json:"name"               validate:"required,max=255"`
	Category         string  `json:"category"           validate:"required,max=100"`
	Description      *string `json:"description"`
	Quantity         int     `json:"quantity"           validate:"min=0"`
	Status           string  `json:"status"             validate:"required,max=50"`
	LastRevisionDate *string `json:"last_revision_date" validate:"omitempty,datetime=2006-01-02"`
	Location         string  `json:"location"           validate:"required,max=255"`
	Observations     *string `json:"observations"`
	AssignedTo       *string `json:"assigned_to"`
}

type UpdateToolRequest struct {
	Name             *string `json:"name"               validate:"omitempty,min=1,max=255"`
	Category         *string `json:"category"           validate:"omitempty,min=1,max=100"`
	Description      *string `json:"description"`
	Quantity         *int    `json:"quantity"           validate:"omitempty,min=0"`
	Status           *string `json:"status"             validate:"omitempty,min=1,max=50"`
	LastRevisionDate *string `json:"last_revision_date" validate:"omitempty,datetime=2006-01-02"`
	Location         *string `json:"location"           validate:"omitempty,min=1,max=255"`
	Observations     *string `json:"observations"`
	AssignedTo       *string `json:"assigned_to"`
}

type ToolResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Description      *string `json:"description"`
	Quantity         int     `json:"quantity"`
	Status           string  `json:"status"`
	LastRevisionDate *string `json:"last_revision_date"`
	Location         string  `json:"location"`
	Observations     *string `json:"observations"`
	AssignedTo       *string `json:"assigned_to"`
	AssignedToName   *string `json:"assigned_to_name"`
}
