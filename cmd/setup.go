package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set gateway.base_url (and credentials if the gateway requires them)\n")
	r.writePlain("2. Run 'wrlog update --progress' to record a baseline\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	storage := r.config.Storage
	if storage.Driver != shared.DriverSQLite {
		r.logger.Warn("storage.driver is not sqlite, the database will not be used until it is", "driver", storage.Driver)
	}

	r.logger.Info("initializing database", "path", storage.DatabasePath)

	db, err := shared.NewDatabase(storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, storage.MaxOpenConns, storage.MaxIdleConns)

	switch {
	case cmd.Bool("status"):
		return r.printMigrationStatus(db)
	case cmd.Bool("rollback"):
		r.logger.Warn("rolling back the most recent migration")
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		return r.printMigrationStatus(db)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", storage.DatabasePath)
	return nil
}

func (r *Runner) printMigrationStatus(db *sql.DB) error {
	status, err := shared.GetMigrationStatus(db)
	if err != nil {
		return err
	}
	if status.Current < 0 {
		r.writePlain("Schema version: none\n")
	} else {
		r.writePlain("Schema version: %d\n", status.Current)
	}
	r.writePlain("Pending migrations: %d\n", len(status.Pending))
	return nil
}
