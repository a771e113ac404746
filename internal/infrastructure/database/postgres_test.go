package database

import (
	"testing"

	"hospital-frontdesk/config"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	got := MigrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "postgres",
		Password: "p@ss word",
		Name:     "healthcare",
		SSLMode:  "disable",
	})
	assert.Equal(t, "pgx5://postgres:p%40ss%20word@db:5432/healthcare?sslmode=disable", got)
}
