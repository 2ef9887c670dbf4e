package config

import (
	"fmt"

	"foodgram/global"
	"foodgram/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenDatabase opens a gorm connection for the given driver name.
func OpenDatabase(driver, dsn string, opts *gorm.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if opts == nil {
		opts = &gorm.Config{}
	}
	opts.TranslateError = true
	return gorm.Open(dialector, opts)
}

func InitDB() error {
	dbCfg := AppConfig.Database
	db, err := OpenDatabase(dbCfg.Driver, dbCfg.Dsn, &gorm.Config{
		Logger: logger.NewGormLogger(global.Logger, logger.GormLevel(dbCfg.LogLevel), dbCfg.SlowThreshold),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to configure database: %w", err)
	}
	sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	if dbCfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	global.Db = db
	global.Logger.Info("Database initialized", zap.String("driver", dbCfg.Driver))
	return nil
}
