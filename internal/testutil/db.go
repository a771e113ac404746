// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the application owns, in dependency order
func Models() []interface{} {
	return []interface{}{
		&entity.User{},
		&entity.HospitalProfile{},
		&entity.MedicalHistory{},
		&entity.Appointment{},
		&entity.Prescription{},
		&entity.AuditLog{},
	}
}

// NewDB opens a private in-memory SQLite database with the schema applied.
// A single connection keeps transactions serialized the way row locks do on PostgreSQL.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

// CreateUser inserts a user with a derived ID and a placeholder password hash
func CreateUser(t *testing.T, db *gorm.DB, name, phone string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:       entity.DeriveUserID(name, phone),
		Name:     name,
		Phone:    phone,
		Role:     role,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
