package migrations

import (
	"fmt"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/pkg/migration"
	"gorm.io/gorm"
)

// The create steps adopt databases created before the ledger existed. A
// missing table is created from the model. An existing table only gains
// the columns and non-unique indexes it lacks; existing columns are never
// altered and unknown legacy columns such as users.role are left alone.
func init() {
	migration.Register("20240101000000_create_users", migration.Migration{
		Up: func(db *gorm.DB) error {
			return adopt(db, &models.User{}, backfill{
				"user_type":   models.UserTypeBuyer,
				"is_verified": 0,
			})
		},
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable("users") },
	})
	migration.Register("20240101000001_create_market_items", migration.Migration{
		Up: func(db *gorm.DB) error {
			return adopt(db, &models.Listing{}, backfill{
				"title":   "",
				"image":   models.DefaultImage,
				"is_sold": 0,
			})
		},
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable("market_items") },
	})
	migration.Register("20240101000002_create_lost_items", migration.Migration{
		Up: func(db *gorm.DB) error {
			return adopt(db, &models.LostItem{}, backfill{
				"title":        "",
				"description":  "",
				"location":     "",
				"custody":      "",
				"is_recovered": 0,
			})
		},
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable("lost_items") },
	})
	migration.Register("20240101000003_create_claim_requests", migration.Migration{
		Up: func(db *gorm.DB) error {
			return adopt(db, &models.ClaimRequest{}, backfill{
				"requester_email": "",
				"proof_details":   "",
				"status":          models.ClaimPending,
			})
		},
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable("claim_requests") },
	})
}

// backfill maps a column to the value written into legacy rows that hold
// NULL there.
type backfill map[string]any

func adopt(db *gorm.DB, model any, fill backfill) error {
	m := db.Migrator()
	if !m.HasTable(model) {
		return m.CreateTable(model)
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return err
	}
	table := stmt.Schema.Table

	// ColumnTypes matches names exactly; sqlite's HasColumn would take
	// seller_brand for brand.
	types, err := m.ColumnTypes(model)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	have := make(map[string]bool, len(types))
	for _, ct := range types {
		have[ct.Name()] = true
	}

	for _, name := range stmt.Schema.DBNames {
		if have[name] {
			continue
		}
		if err := m.AddColumn(model, name); err != nil {
			return fmt.Errorf("add %s.%s: %w", table, name, err)
		}
	}

	for _, idx := range stmt.Schema.ParseIndexes() {
		if idx.Class == "UNIQUE" || m.HasIndex(model, idx.Name) {
			continue
		}
		if err := m.CreateIndex(model, idx.Name); err != nil {
			return fmt.Errorf("index %s: %w", idx.Name, err)
		}
	}

	for column, value := range fill {
		err := db.Table(table).Where(column + " IS NULL").Update(column, value).Error
		if err != nil {
			return fmt.Errorf("backfill %s.%s: %w", table, column, err)
		}
	}
	return nil
}
