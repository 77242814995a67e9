package infra

import (
	"fmt"
	"strings"

	"koalgroup/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// NewDatabase opens a GORM connection. DSNs starting with sqlite:// use the
// embedded SQLite driver (local runs and tests); anything else is handed to
// the postgres driver.
func NewDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		return openSQLite(strings.TrimPrefix(dsn, sqlitePrefix), cfg)
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	return db, nil
}

func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := gorm.Open(sqlite.Open(path+sep+"_foreign_keys=on"), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection also keeps
	// shared-cache in-memory databases alive for the process lifetime.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// RunMigrations creates or updates every table, then applies the indexes
// AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL. Statements use IF NOT EXISTS so
// re-running on an already-patched DB is a no-op on both engines.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE INDEX IF NOT EXISTS idx_gas_records_date_time ON gas_records (date DESC, time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_pending_retry ON reports (next_retry_at) WHERE status = 'pending'`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
