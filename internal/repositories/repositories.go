// package repositories provides persistence for snapshots and the changelist.
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
)

// Store loads and saves the two persisted collections.
type Store interface {
	LoadSnapshots() (models.Snapshots, error)
	SaveSnapshots(models.Snapshots) error
	LoadChangelist() (models.Changelist, error)
	SaveChangelist(models.Changelist) error
	Close() error
}

// NewStore opens the store selected by cfg.Driver.
func NewStore(cfg shared.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case shared.DriverJSON, "":
		return NewFileStore(cfg.SnapshotsPath, cfg.ChangelistPath), nil
	case shared.DriverSQLite:
		db, err := shared.NewDatabase(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}

// encodeVerified marshals v and checks that the result decodes back into a T.
func encodeVerified[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize: %w", err)
	}

	var check T
	if err := json.Unmarshal(data, &check); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCorruptData, err)
	}
	return data, nil
}

// IsNotFound reports whether err means the collection was never saved.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
