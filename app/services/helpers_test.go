package services_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	_ "github.com/hustlcampus/hustl/database/migrations"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/database"
	"github.com/hustlcampus/hustl/pkg/migration"
	"github.com/hustlcampus/hustl/pkg/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db   *gorm.DB
	disk *storage.MemoryDisk
	svc  *services.Services
}

var admin = auth.Principal{Email: "admin", Caps: []auth.Capability{auth.CapModerate}}

func newEnv(t *testing.T) *env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", "file:"+name+"?mode=memory&cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	_, err = migration.New(db, io.Discard).Run()
	require.NoError(t, err)

	disk := storage.NewMemoryDisk()
	svc := services.New(services.Deps{
		DB:                db,
		Disk:              disk,
		AllowedExtensions: []string{"png", "jpg", "jpeg", "gif"},
		Tokens:            auth.NewTokens("test-key", time.Hour),
		Admin:             services.AdminCredentials{Username: "admin", Password: "s3cret"},
	})
	return &env{db: db, disk: disk, svc: svc}
}

func str(s string) *string { return &s }

// user inserts a user row directly.
func (e *env) user(t *testing.T, u models.User) *models.User {
	t.Helper()
	if u.UserType == "" {
		u.UserType = models.UserTypeBuyer
	}
	require.NoError(t, e.db.Create(&u).Error)
	return &u
}

func (e *env) verifiedSeller(t *testing.T, email string) *models.User {
	t.Helper()
	return e.user(t, models.User{
		Email:       email,
		UserType:    models.UserTypeSeller,
		DisplayName: str("Dorm Deals"),
		RegNumber:   str("REG-1"),
		Whatsapp:    str("+100"),
		IsVerified:  1,
	})
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// afterUpdate runs fn after every UPDATE statement on table.
func (e *env) afterUpdate(t *testing.T, table string, fn func(tx *gorm.DB)) {
	t.Helper()
	err := e.db.Callback().Update().After("gorm:update").Register("test:after_update_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			fn(tx)
		}
	})
	require.NoError(t, err)
}

// changedRowsOnly makes updates on table report zero affected rows, the
// way MySQL does when the new values equal the old ones.
func (e *env) changedRowsOnly(t *testing.T, table string) {
	t.Helper()
	e.afterUpdate(t, table, func(tx *gorm.DB) { tx.RowsAffected = 0 })
}

func png(name string) *services.Upload {
	return &services.Upload{Filename: name, Body: strings.NewReader("\x89PNG fake")}
}

var bg = context.Background()
