package utils

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"learning_platform/backend/config"
	"learning_platform/backend/models"
)

// InitDB opens the configured store. Timestamps are always written in UTC.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	}

	level := gormLogger.Warn
	if cfg.Env == "test" {
		level = gormLogger.Silent
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.DBDriver)
	}

	if cfg.DBDriver != "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite handle")
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// SQLiteDSN appends the pragma that turns on foreign key enforcement.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(models.All()...), "auto migrate")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikeContains is a case-insensitive substring match on column. The column
// name must come from code, never from a request.
func LikeContains(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}

// ContainsPattern lowercases s and escapes LIKE wildcards for LikeContains.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
