package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Driver       string // sqlite, mysql, postgres
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

func dialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "", "sqlite":
		return sqlite.Open(opts.DSN), nil
	case "mysql":
		return mysql.Open(opts.DSN), nil
	case "postgres":
		return postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}
}

// Connect opens the database and applies pool limits. Queries slower than
// a second and all errors go to zl.
func Connect(opts Options, zl zerolog.Logger) (*gorm.DB, error) {
	d, err := dialector(opts)
	if err != nil {
		return nil, err
	}

	gl := logger.New(&zl, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	gdb, err := gorm.Open(d, &gorm.Config{Logger: gl, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	return gdb, nil
}

// Migrate creates missing tables and indexes; it never drops anything.
func Migrate(gdb *gorm.DB, models ...any) error {
	return gdb.AutoMigrate(models...)
}
