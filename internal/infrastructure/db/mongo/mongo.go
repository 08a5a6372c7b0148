package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout  = 10 * time.Second
	appName         = "library-admin"
	defaultDatabase = "library_audit"
	maxPoolSize     = 20
)

// Config points at the database holding the loan history.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect opens the loan-history client and returns it with its audit
// database. The server must answer a ping before the deadline.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.database(), err)
	}

	return client, client.Database(cfg.database()), nil
}

// clientOptions tags connections with the service name.
func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetMaxPoolSize(maxPoolSize).
		SetServerSelectionTimeout(cfg.timeout())
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return connectTimeout
	}
	return c.Timeout
}

func (c Config) database() string {
	if c.Database == "" {
		return defaultDatabase
	}
	return c.Database
}
