package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kingjoe/internal/bootstrap/config"
	"kingjoe/internal/bootstrap/database"
	"kingjoe/internal/bootstrap/logging"
	"kingjoe/internal/errs"
	"kingjoe/internal/infrastructure/persistence/schema"
	"kingjoe/internal/infrastructure/persistence/sql/model"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
}

func New(ctx context.Context, configFile string) (*App, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "loading application config", slog.String("config_file", configFile))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	logging.Info(logCtx, "application bootstrap completed", slog.String("database_driver", cfg.Database.Driver))

	return &App{
		Config: cfg,
		DB:     db,
	}, nil
}

// InitSchema creates the inspection tables. The ERP planning and catalog
// tables are only created when database.migrate_reference is set.
func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if a == nil || a.DB == nil {
		return errors.New("app database is not initialized")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration", slog.Bool("migrate_reference", a.Config.Database.MigrateReference))

	db := a.DB.WithContext(ctx)
	if a.Config.Database.MigrateReference {
		if err := db.AutoMigrate(model.ReferenceModels()...); err != nil {
			return errs.Wrap(err, "auto migrate reference schema")
		}
	}

	models := append([]any{&schema.SchemaMeta{}}, model.InspectionModels()...)
	if err := db.AutoMigrate(models...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	meta := schema.SchemaMeta{Key: schema.VersionKey, Value: schema.CurrentVersion}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error; err != nil {
		return errs.Wrap(err, "record schema version")
	}

	logging.Info(logCtx, "schema migration completed", slog.String("schema_version", schema.CurrentVersion))
	return nil
}

func (a *App) SchemaVersion(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	var meta schema.SchemaMeta
	err := a.DB.WithContext(ctx).Where("key = ?", schema.VersionKey).Take(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errs.Wrap(err, "read schema version")
	}
	return meta.Value, nil
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}
