package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
)

// SchemaVersion is bumped whenever a table layout changes. A mismatch wipes the
// database; it is a local cache with no migration path.
const SchemaVersion = 4

// schemaMeta stores the layout version of the database file.
type schemaMeta struct {
	ID      uint `gorm:"primaryKey;autoIncrement:false"`
	Version int
}

func (schemaMeta) TableName() string { return "schema_meta" }

func allModels() []interface{} {
	return []interface{}{
		&model.Task{},
		&model.Expense{},
		&model.Note{},
		&model.Goal{},
		&model.Preference{},
		&model.Reminder{},
	}
}

// NewDB opens a SQLite database and brings its schema to SchemaVersion.
func NewDB(dsn string, log *logger.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "life_dashboard.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := gormlogger.New(
		log.StdLog(),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	// SQLite allows a single writer; one connection keeps reads and writes ordered.
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(db, log); err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(db *gorm.DB, log *logger.Logger) error {
	if err := db.AutoMigrate(&schemaMeta{}); err != nil {
		return fmt.Errorf("migrate schema meta: %w", err)
	}

	var meta schemaMeta
	err := db.Limit(1).Find(&meta, 1).Error
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if meta.Version != SchemaVersion {
		if meta.Version != 0 {
			log.Warnw("schema version changed, resetting local data", "from", meta.Version, "to", SchemaVersion)
		}
		if err := db.Migrator().DropTable(allModels()...); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}

	if meta.Version != SchemaVersion {
		if err := db.Save(&schemaMeta{ID: 1, Version: SchemaVersion}).Error; err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
