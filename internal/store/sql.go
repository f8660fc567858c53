package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite" // Pure Go SQLite driver
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"medminder/internal/config"
)

// KVEntry is one row of the key-value table
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte `gorm:"size:4294967295"` // longblob on mysql
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// SQLBackend stores blobs in a relational table through gorm
type SQLBackend struct {
	db *gorm.DB
}

// OpenSQL connects to the configured database and migrates the table.
func OpenSQL(cfg config.DatabaseConfig) (*SQLBackend, error) {
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	}

	var db *gorm.DB
	var err error
	switch cfg.Driver {
	case "mysql":
		db, err = gorm.Open(mysql.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	case "sqlite":
		sqliteDB, err := sql.Open("sqlite", sqliteDSN(cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// a single writer keeps sqlite free of lock errors
		sqliteDB.SetMaxOpenConns(1)
		db, err = gorm.Open(sqlite.Dialector{Conn: sqliteDB}, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	return NewSQLBackend(db)
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// NewSQLBackend wraps an open gorm handle.
func NewSQLBackend(db *gorm.DB) (*SQLBackend, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &SQLBackend{db: db}, nil
}

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry KVEntry
	result := b.db.WithContext(ctx).Where("`key` = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return entry.Value, true, nil
}

func (b *SQLBackend) Put(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	return b.db.WithContext(ctx).Where("`key` = ?", key).Delete(&KVEntry{}).Error
}

// Close releases the underlying connection pool
func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
