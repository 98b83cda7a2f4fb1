package db

import (
	"testing"

	"Tunebox/config"

	"github.com/stretchr/testify/assert"
)

func TestMySQLDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "root", DBPassword: "secret", DBHost: "127.0.0.1", DBPort: "3306", DBName: "tunebox"}

	dsn := MySQLDSN(cfg)

	assert.Contains(t, dsn, "root:secret@tcp(127.0.0.1:3306)/tunebox?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "postgres", DBPassword: "pw", DBHost: "db", DBPort: "5432", DBName: "tunebox"}

	assert.Equal(t, "host=db port=5432 user=postgres password=pw dbname=tunebox sslmode=disable TimeZone=UTC", PostgresDSN(cfg))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)

	d, err := dialector(&config.Config{DBDriver: "postgres"})
	assert.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}
