package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/webmoto/storefront/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultPingTimeout     = 5 * time.Second
	defaultConnectTimeout  = 10 * time.Second
	defaultSelectTimeout   = 10 * time.Second
	defaultMaxPoolSize     = 25
	defaultMinPoolSize     = 2
	defaultMaxConnIdleTime = 2 * time.Minute
)

// Open connects to MongoDB, verifies the connection and returns the client
// together with the configured database.
func Open(ctx context.Context, cfg config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(defaultConnectTimeout).
		SetServerSelectionTimeout(defaultSelectTimeout).
		SetMaxPoolSize(defaultMaxPoolSize).
		SetMinPoolSize(defaultMinPoolSize).
		SetMaxConnIdleTime(defaultMaxConnIdleTime)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(cfg.Mongo.Database), nil
}

// MigrationURL returns the connection string expected by the migrate
// mongodb driver: the configured URI with the database name as its path.
func MigrationURL(cfg config.Config) (string, error) {
	u, err := url.Parse(cfg.Mongo.URI)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if strings.TrimSpace(cfg.Mongo.Database) == "" {
		return "", fmt.Errorf("mongo database is required")
	}
	u.Path = "/" + cfg.Mongo.Database
	return u.String(), nil
}
