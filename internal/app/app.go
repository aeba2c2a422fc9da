package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/repository/mongodb"
	"github.com/mamadbah2/hatchery/internal/repository/postgres"
	"github.com/mamadbah2/hatchery/internal/repository/supabase"
	"github.com/mamadbah2/hatchery/internal/service/datasheet"
	"github.com/mamadbah2/hatchery/internal/service/sheet"
)

// CloseFunc releases a source's connections.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// OpenSource connects to the backend selected by DATA_SOURCE.
func OpenSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datasheet.Source, CloseFunc, error) {
	switch cfg.Source.Kind {
	case config.SourceSupabase:
		return supabase.NewRepository(cfg.Supabase, logger.Named("repo.supabase")), noopClose, nil
	case config.SourcePostgres:
		repo, err := postgres.NewRepository(ctx, cfg.Postgres.DSN, logger.Named("repo.postgres"))
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case config.SourceMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named("repo.mongodb"))
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported data source %q", cfg.Source.Kind)
	}
}

// Location resolves the configured reporting time zone.
func Location(cfg *config.Config) (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Display.Timezone, err)
	}
	return loc, nil
}

// NewEngine builds the sheet engine from the display settings.
func NewEngine(cfg *config.Config) (*sheet.Engine, *time.Location, error) {
	loc, err := Location(cfg)
	if err != nil {
		return nil, nil, err
	}
	engine, err := sheet.NewEngine(sheet.Options{Locale: cfg.Display.Locale, Location: loc})
	if err != nil {
		return nil, nil, err
	}
	return engine, loc, nil
}
