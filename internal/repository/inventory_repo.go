package repository

import (
	"koalgroup/internal/model"

	"gorm.io/gorm"
)

type InventoryItemRepository interface {
	Repository[model.InventoryItem]
}

func NewInventoryItemRepository(db *gorm.DB) InventoryItemRepository {
	return newScoped[model.InventoryItem](db, table{
		scope: byColumn("", ""),
		order: "name ASC",
	})
}

type ToolRepository interface {
	Repository[model.Tool]
}

func NewToolRepository(db *gorm.DB) ToolRepository {
	return newScoped[model.Tool](db, table{
		scope:   byColumn("", ""),
		order:   "name ASC",
		preload: []string{"AssignedTo"},
	})
}
