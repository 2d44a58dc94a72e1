//go:build integration
// +build integration

// Package pgtest starts throwaway Postgres containers for integration tests.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	image    = "postgres:15-alpine"
	dbName   = "canteenpulse"
	user     = "postgres"
	password = "postgres"
)

// Container is a running Postgres reachable at Host:Port.
type Container struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	DSN      string
}

// Start runs a Postgres container that is terminated when t finishes.
func Start(t testing.TB) *Container {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       dbName,
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port.Port(), user, password, dbName)
		}).WithStartupTimeout(60 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	return &Container{
		Host:     host,
		Port:     port.Int(),
		User:     user,
		Password: password,
		DBName:   dbName,
		DSN:      fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName),
	}
}

// OpenMigrated connects to the container and applies db/migrations with goose.
// The connection is closed when t finishes.
func (c *Container) OpenMigrated(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", c.DSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	if err := goose.Up(db, migrationsDir()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	return db
}

// migrationsDir resolves db/migrations from this file's location so callers
// in any package share the same path.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "migrations")
}
