//go:build integration
// +build integration

// Package pgtest starts a throwaway Postgres container for integration tests
// and applies the goose migrations under db/migrations.
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
	user     = "postgres"
	password = "postgres"
	dbName   = "gastos"
)

// Instance is a migrated database. Container and connection are released by
// t.Cleanup.
type Instance struct {
	DB       *sql.DB
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Start runs a Postgres container, waits until it accepts queries and
// migrates it to the latest schema version.
func Start(t *testing.T) *Instance {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       dbName,
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return dsn(host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	inst := &Instance{
		DSN:      dsn(host, port.Port()),
		Host:     host,
		Port:     port.Int(),
		User:     user,
		Password: password,
		Name:     dbName,
	}
	inst.DB, err = sql.Open("postgres", inst.DSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = inst.DB.Close() })
	if err := inst.DB.PingContext(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.UpContext(ctx, inst.DB, migrationsDir()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	return inst
}

func dsn(host, port string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbName)
}

// migrationsDir resolves db/migrations from this file so callers in any
// package share the same path.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations")
}
