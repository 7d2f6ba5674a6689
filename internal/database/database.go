// file: internal/database/database.go
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coursehub/internal/config"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DB is the global database manager instance
var DB *Manager

// initMutex prevents concurrent initialization
var initMutex sync.Mutex

// Manager wraps the Mongo client and database handle together with the
// configuration that produced them.
type Manager struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.DatabaseConfig
	logger *zap.Logger
}

// InitDB initializes the global database manager, connecting with retry and
// ensuring the collection indexes exist.
func InitDB(cfg *config.Config, logger *zap.Logger) error {
	initMutex.Lock()
	defer initMutex.Unlock()

	if DB != nil {
		logger.Info("Database manager already initialized")
		return nil
	}

	manager, err := NewManager(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()
	if err := manager.EnsureIndexes(ctx); err != nil {
		manager.Close()
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	DB = manager
	logger.Info("Database initialized",
		zap.String("database", cfg.Database.Name),
		zap.Uint64("max_pool_size", cfg.Database.MaxPoolSize),
	)
	return nil
}

// NewManager connects to the document store, retrying transient failures with
// exponential backoff.
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	var client *mongo.Client
	connect := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()

		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(ctx)
			return err
		}
		client = c
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cfg.MaxRetryAttempts))
	notify := func(err error, next time.Duration) {
		logger.Warn("Database connection failed, retrying",
			zap.Error(err),
			zap.Duration("next_attempt_in", next),
		)
	}
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	return &Manager{
		client: client,
		db:     client.Database(cfg.Name),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// GetDB returns the global database manager.
func GetDB() *Manager { return DB }

// Database returns the underlying database handle.
func (m *Manager) Database() *mongo.Database { return m.db }

// Collection returns a handle to the named collection.
func (m *Manager) Collection(name string) *mongo.Collection { return m.db.Collection(name) }

// SlowOpThreshold returns the configured slow-operation threshold.
func (m *Manager) SlowOpThreshold() time.Duration { return m.cfg.SlowOpThreshold }

// Ping verifies connectivity to the primary.
func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Manager) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Close shuts down the global manager.
func Close() error {
	initMutex.Lock()
	defer initMutex.Unlock()
	if DB == nil {
		return nil
	}
	err := DB.Close()
	DB = nil
	return err
}
