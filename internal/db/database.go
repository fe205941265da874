package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/draftwell/grantdocs/internal/logger"
	"github.com/draftwell/grantdocs/internal/types"
	"github.com/draftwell/grantdocs/internal/utils"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New connects to Postgres when POSTGRES_HOST is set and falls back to a
// local SQLite file otherwise, which is how dev environments run.
func New(baseLog *logger.Logger) (*Service, error) {
	serviceLog := baseLog.With("service", "DatabaseService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "", baseLog)
	if postgresHost == "" {
		path := utils.GetEnv("SQLITE_PATH", "grantdocs.db", baseLog)
		serviceLog.Info("POSTGRES_HOST not set, using SQLite", "path", path)
		gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect to sqlite: %w", err)
		}
		return &Service{db: gdb, log: serviceLog}, nil
	}

	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", baseLog)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", baseLog)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", baseLog)
	postgresName := utils.GetEnv("POSTGRES_NAME", "grantdocs", baseLog)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(&types.DocumentBuild{}); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
