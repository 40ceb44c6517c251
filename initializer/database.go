package initializer

import (
	"fmt"
	"time"

	"newsfeed/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectToDB opens Postgres when a URL is configured and a local SQLite file
// otherwise and runs migrations when SHOULD_MIGRATE is set.
func ConnectToDB(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if cfg.UsesPostgres() {
		logger.Info("connecting to database", zap.String("driver", "postgres"))
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig(logger))
	} else {
		logger.Info("connecting to database", zap.String("driver", "sqlite"), zap.String("path", cfg.SQLitePath))
		db, err = OpenSQLite(cfg.SQLitePath, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Info("connected to database")

	if cfg.ShouldMigrate {
		if err := Migrate(db, logger); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// OpenSQLite opens a SQLite database with a single connection so writers
// serialize instead of failing with SQLITE_BUSY.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("running DB migrations")

	if err := db.AutoMigrate(&models.UserModel{}, &models.CommentModel{}, &models.SavedArticleModel{}); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	logger.Info("DB migrations completed")
	return nil
}

// gormConfig sends GORM's warnings and errors to the zap logger. Lookups that
// find nothing are expected (the save path probes for duplicates) and are not
// logged.
func gormConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logger),
	}
}

func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	if logger == nil {
		logger = zap.NewNop()
	}
	writer, err := zap.NewStdLogAt(logger.Named("gorm").WithOptions(zap.AddCallerSkip(2)), zapcore.WarnLevel)
	if err != nil {
		return gormlogger.Discard
	}
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
