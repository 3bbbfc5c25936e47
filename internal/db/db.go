package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"manometer-backend/config"
	"manometer-backend/internal/model"
)

const (
	MaxPoolSize    = 10
	ConnectTimeout = 5 * time.Second
	// QueryTimeout bounds every store operation.
	QueryTimeout = 45 * time.Second
)

// ConnectionError wraps a failed attempt to reach the database.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s database: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Connector establishes one database handle and hands the same handle to
// every caller. A failed dial is remembered and not retried.
type Connector struct {
	cfg    config.DatabaseConfig
	log    *zap.Logger
	dialFn func(ctx context.Context) (*gorm.DB, error)

	once sync.Once
	db   *gorm.DB
	err  error
}

// NewConnector creates a Connector for the given configuration.
func NewConnector(cfg config.DatabaseConfig, log *zap.Logger) *Connector {
	c := &Connector{cfg: cfg, log: log}
	c.dialFn = c.dial
	return c
}

// Get returns the shared handle, dialing on first use. The dial ignores the
// caller's cancellation; ConnectTimeout bounds it instead.
func (c *Connector) Get(ctx context.Context) (*gorm.DB, error) {
	c.once.Do(func() {
		c.db, c.err = c.dialFn(context.WithoutCancel(ctx))
		if c.err != nil {
			c.log.Error("database connection failed", zap.String("driver", driverName(c.cfg.DSN)), zap.Error(c.err))
			return
		}
		c.log.Info("database connected", zap.String("driver", driverName(c.cfg.DSN)))
	})
	return c.db, c.err
}

// Close releases the pool if one was established.
func (c *Connector) Close() error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Connector) dial(ctx context.Context) (*gorm.DB, error) {
	driver := driverName(c.cfg.DSN)

	logLevel := logger.Warn
	if c.cfg.Development {
		logLevel = logger.Info
	}

	dial, err := dialector(c.cfg.DSN)
	if err != nil {
		return nil, &ConnectionError{Driver: driver, Err: err}
	}

	// The bounded PingContext below is the only ping.
	gdb, err := gorm.Open(dial, &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, &ConnectionError{Driver: driver, Err: err}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, &ConnectionError{Driver: driver, Err: fmt.Errorf("failed to get sql.DB: %w", err)}
	}
	sqlDB.SetMaxOpenConns(MaxPoolSize)
	sqlDB.SetMaxIdleConns(MaxPoolSize)

	pingCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, &ConnectionError{Driver: driver, Err: err}
	}
	return gdb, nil
}

// Migrate creates or updates the gauges table.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&model.Gauge{}); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func isSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, "sqlite:") || strings.HasPrefix(dsn, "file:")
}

func driverName(dsn string) string {
	if isSQLite(dsn) {
		return "sqlite"
	}
	return "postgres"
}

// dialector picks the driver for dsn. Postgres connections carry
// ConnectTimeout so a server that never answers cannot stall the dial.
func dialector(dsn string) (gorm.Dialector, error) {
	if isSQLite(dsn) {
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), nil
	}

	pgCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	pgCfg.ConnectTimeout = ConnectTimeout

	return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*pgCfg)}), nil
}
