// Package session remembers client state between runs, such as the id of
// the project last opened. Entries live in a small key/value table in
// SQLite by default or in MySQL.
package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	sqlmysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
)

// ProjectIDKey is the entry holding the current project id.
const ProjectIDKey = "devbrain_project_id"

// Entry is one remembered value.
type Entry struct {
	Key       string `gorm:"column:name;primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName overrides the gorm default.
func (Entry) TableName() string { return "devbrain_session" }

// Store reads and writes session entries.
type Store struct {
	db *gorm.DB
}

// DSN builds the MySQL DSN for cfg.
func DSN(cfg config.SessionConfig) string {
	c := sqlmysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.ParseTime = true
	return c.FormatDSN()
}

// Open connects to the configured database and migrates the entry table.
func Open(cfg config.SessionConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.Path)
	case "mysql":
		dialector = mysql.Open(DSN(cfg))
	default:
		return nil, fmt.Errorf("session: unknown driver %q", cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", cfg.Driver, err)
	}
	return New(db)
}

// New wraps an open connection.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("session: auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("session: close: %w", err)
	}
	return sqlDB.Close()
}

// Get returns the value stored under key, or "" when there is none.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e Entry
	err := s.db.WithContext(ctx).First(&e, "name = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: get %s: %w", key, err)
	}
	return e.Value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e)
	if result.Error != nil {
		return fmt.Errorf("session: set %s: %w", key, result.Error)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Entry{}, "name = ?", key).Error; err != nil {
		return fmt.Errorf("session: delete %s: %w", key, err)
	}
	return nil
}

// ProjectID returns the remembered project id.
func (s *Store) ProjectID(ctx context.Context) (string, error) {
	return s.Get(ctx, ProjectIDKey)
}

// SaveProjectID remembers id as the current project.
func (s *Store) SaveProjectID(ctx context.Context, id string) error {
	return s.Set(ctx, ProjectIDKey, id)
}

// ClearProjectID forgets the current project.
func (s *Store) ClearProjectID(ctx context.Context) error {
	return s.Delete(ctx, ProjectIDKey)
}
