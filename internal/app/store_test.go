package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/guttosm/canteenpulse/config"
)

func TestOpenStore_Drivers(t *testing.T) {
	oldPG, oldMongo := postgresOpener, mongoOpener
	t.Cleanup(func() { postgresOpener, mongoOpener = oldPG, oldMongo })

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	postgresOpener = func(context.Context, config.Config) (*sql.DB, error) { return db, nil }
	mongoOpener = func(context.Context, config.Config) (*mongo.Database, error) { return nil, errors.New("no mongo") }

	cases := []struct {
		driver  string
		wantErr string
	}{
		{driver: config.DriverPostgres},
		{driver: ""},
		{driver: config.DriverMongo, wantErr: "failed to initialize mongo"},
		{driver: "sqlite", wantErr: `unknown store driver "sqlite"`},
	}
	for _, tc := range cases {
		t.Run("driver="+tc.driver, func(t *testing.T) {
			s, err := OpenStore(context.Background(), config.Config{Store: config.StoreConfig{Driver: tc.driver}})
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("want %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || s == nil {
				t.Fatalf("OpenStore: s=%v err=%v", s, err)
			}
		})
	}
}

func TestOpenStore_PostgresFailure(t *testing.T) {
	old := postgresOpener
	postgresOpener = func(context.Context, config.Config) (*sql.DB, error) { return nil, errors.New("refused") }
	t.Cleanup(func() { postgresOpener = old })

	_, err := OpenStore(context.Background(), config.Config{Store: config.StoreConfig{Driver: config.DriverPostgres}})
	if err == nil || !strings.Contains(err.Error(), "failed to initialize postgres") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
