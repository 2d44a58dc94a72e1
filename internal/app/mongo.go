package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/guttosm/canteenpulse/config"
)

// mongoConnector is an indirection for unit testing; defaults to mongo.Connect
var mongoConnector = mongo.Connect

// InitMongo connects to cfg.Mongo.URI, verifies the connection with a ping
// and returns the configured database.
func InitMongo(ctx context.Context, cfg config.Config) (*mongo.Database, error) {
	client, err := mongoConnector(ctx, options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client.Database(cfg.Mongo.DBName), nil
}
