// Package migration runs versioned schema changes and records each applied
// version in a ledger table, so running the migrations again only applies
// what is new.
//
// Migrations register themselves from init functions:
//
//	func init() {
//	    migration.Register("20240101000000_create_users", migration.Migration{
//	        Up:   func(db *gorm.DB) error { return db.AutoMigrate(&models.User{}) },
//	        Down: func(db *gorm.DB) error { return db.Migrator().DropTable("users") },
//	    })
//	}
package migration

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/hustlcampus/hustl/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one reversible schema change.
type Migration struct {
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

var (
	regMu    sync.Mutex
	registry []entry
)

// Register adds a migration. Names must sort chronologically; a duplicate
// name panics at init time.
func Register(name string, m Migration) {
	regMu.Lock()
	defer regMu.Unlock()
	for _, e := range registry {
		if e.name == name {
			panic("migration: duplicate name " + name)
		}
	}
	registry = append(registry, entry{name: name, m: m})
}

func registered() []entry {
	regMu.Lock()
	out := append([]entry(nil), registry...)
	regMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Status is one row of the migration ledger report.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner applies and reverts registered migrations against db.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New returns a Runner. Progress lines go to out; pass io.Discard to
// silence them.
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure ledger: %w", err)
	}
	return nil
}

func (r *Runner) applied() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read ledger: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies every pending migration as one batch and returns how many ran.
// Each migration and its ledger row commit together.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.applied()
	if err != nil {
		return 0, err
	}

	var pending []entry
	for _, e := range registered() {
		if _, ok := done[e.name]; !ok {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	batch++

	for _, e := range pending {
		fmt.Fprintf(r.out, "  migrating: %s\n", e.name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		fmt.Fprintf(r.out, "  migrated:  %s\n", e.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverts the most recent batch, newest first.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration)
	for _, e := range registered() {
		byName[e.name] = e.m
	}

	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok || m.Down == nil {
			return 0, fmt.Errorf("migration: cannot roll back %s: no down step registered", row.Name)
		}
		fmt.Fprintf(r.out, "  rolling back: %s\n", row.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
	}

	logger.Info("migration: rolled back", "batch", batch, "count", len(rows))
	return len(rows), nil
}

// Status reports every registered migration and whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.applied()
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, e := range registered() {
		row, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max struct{ Max int }
	if err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return max.Max, nil
}
