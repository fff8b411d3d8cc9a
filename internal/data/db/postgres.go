package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/rehabdir-backend/internal/platform/envutil"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string
	// DSN overrides the POSTGRES_* parts when set. For sqlite it is the file path or URI.
	DSN           string
	SlowThreshold time.Duration
}

// LoadConfig reads DB_DRIVER, DATABASE_DSN and the POSTGRES_* variables.
func LoadConfig(logg *logger.Logger) Config {
	driver := strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres, logg))
	dsn := envutil.String("DATABASE_DSN", "", logg)
	if dsn == "" && driver == DriverPostgres {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			envutil.String("POSTGRES_USER", "postgres", logg),
			envutil.String("POSTGRES_PASSWORD", "", logg),
			envutil.String("POSTGRES_HOST", "localhost", logg),
			envutil.String("POSTGRES_PORT", "5432", logg),
			envutil.String("POSTGRES_NAME", "rehabdir", logg),
			envutil.String("POSTGRES_SSLMODE", "disable", logg),
		)
	}
	if dsn == "" && driver == DriverSQLite {
		dsn = "file:rehabdir.db?_foreign_keys=on"
	}
	return Config{
		Driver:        driver,
		DSN:           dsn,
		SlowThreshold: envutil.Seconds("DB_SLOW_QUERY_SECONDS", time.Second, logg),
	}
}

type DatabaseService struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

func NewDatabaseService(logg *logger.Logger, cfg Config) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService", "driver", cfg.Driver)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// One writer keeps sqlite from returning "database is locked" under concurrent requests.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	serviceLog.Info("Database connected")
	return &DatabaseService{db: db, driver: cfg.Driver, log: serviceLog}, nil
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
