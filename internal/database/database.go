package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"draftline/internal/config"
	"draftline/internal/middleware"
	"draftline/internal/models"
)

// DB is the global database handle.
var DB *gorm.DB

// CustomGormLogger routes GORM logs through the application's structured logger.
type CustomGormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

func NewGormLogger() *CustomGormLogger {
	return &CustomGormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormlogger.Warn,
	}
}

func (l *CustomGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *CustomGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		middleware.Logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		middleware.Logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		middleware.Logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && err != gorm.ErrRecordNotFound && l.LogLevel >= gormlogger.Error:
		middleware.Logger.ErrorContext(ctx, "database query failed",
			"error", err, "sql", sql, "rows", rows, "elapsed", elapsed)
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= gormlogger.Warn:
		middleware.Logger.WarnContext(ctx, "slow database query",
			"sql", sql, "rows", rows, "elapsed", elapsed)
	case l.LogLevel >= gormlogger.Info:
		middleware.Logger.InfoContext(ctx, "database query",
			"sql", sql, "rows", rows, "elapsed", elapsed)
	}
}

// Connect opens the Postgres connection, tunes the pool, and in non-production
// environments runs migrations automatically.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if cfg.Env != "production" {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	DB = db
	return db, nil
}

// Migrate runs schema migrations for all application models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.SamplePost{},
		&models.Document{},
		&models.ExtractedImage{},
		&models.ContentAnalysis{},
		&models.GeneratedPost{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
