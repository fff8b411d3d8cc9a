package app

import (
	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/db"
	"github.com/yungbote/rehabdir-backend/internal/platform/envutil"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	CORSOrigins []string
	// AutoMigrate runs AutoMigrate and the index DDL at startup.
	AutoMigrate bool

	JoinPolicy aggregates.JoinPolicy

	DB    db.Config
	Cache cache.Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:        envutil.String("PORT", "8080", log),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "rehabdir-api", log),
		Environment: envutil.String("APP_ENV", "development", log),
		CORSOrigins: envutil.List("CORS_ORIGINS", nil, log),
		AutoMigrate: envutil.Bool("DB_AUTO_MIGRATE", true),
		JoinPolicy:  aggregates.ParseJoinPolicy(envutil.String("JOIN_POLICY", string(aggregates.JoinAppend), log)),
		DB:          db.LoadConfig(log),
		Cache:       cache.LoadConfig(log),
	}
}
