package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
)

// AutoMigrateAll creates every directory table, including the many2many join tables
// declared on the root models.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(directory.Models()...)
}

// EnsureDirectoryIndexes adds the indexes AutoMigrate cannot express: reverse lookups on
// join tables (term → owners) used by relational filters.
func EnsureDirectoryIndexes(db *gorm.DB) error {
	for _, owner := range []directory.OwnerKind{directory.OwnerOrg, directory.OwnerCampus, directory.OwnerProgram} {
		for _, r := range directory.Relations(owner) {
			stmt := fmt.Sprintf(
				`CREATE INDEX IF NOT EXISTS idx_%s_term ON %s (term_id, owner_id)`,
				r.JoinTable, r.JoinTable,
			)
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create idx_%s_term: %w", r.JoinTable, err)
			}
		}
	}
	if db.Dialector.Name() == "postgres" {
		// Case-insensitive search is compiled to lower(col) LIKE lower(?).
		for _, stmt := range []string{
			`CREATE INDEX IF NOT EXISTS idx_rehab_org_lower_name ON rehab_org (lower(name))`,
			`CREATE INDEX IF NOT EXISTS idx_rehab_campus_lower_name ON rehab_campus (lower(name))`,
			`CREATE INDEX IF NOT EXISTS idx_rehab_program_lower_name ON rehab_program (lower(name))`,
		} {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create lower(name) index: %w", err)
			}
		}
	}
	return nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating directory tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureDirectoryIndexes(s.db); err != nil {
		s.log.Error("Directory index migration failed", "error", err)
		return err
	}
	return nil
}
