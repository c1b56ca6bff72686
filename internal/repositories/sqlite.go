package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
)

const (
	snapshotsCollection  = "snapshots"
	changelistCollection = "changelist"
)

// SQLiteStore keeps both collections in a SQLite database migrated with [shared.RunMigrations].
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an open, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) LoadSnapshots() (models.Snapshots, error) {
	if err := s.ensureSaved(snapshotsCollection); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT data FROM snapshots ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := models.Snapshots{}
	for rows.Next() {
		var snap models.LevelSnapshot
		if err := scanJSON(rows, &snap); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// SaveSnapshots replaces every stored snapshot in one transaction.
func (s *SQLiteStore) SaveSnapshots(snapshots models.Snapshots) error {
	encoded := make([][]byte, len(snapshots))
	for i, snap := range snapshots {
		data, err := encodeVerified(snap)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", snap.LeaderboardName, err)
		}
		encoded[i] = data
	}

	return s.replace(snapshotsCollection, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM snapshots"); err != nil {
			return err
		}
		stmt, err := tx.Prepare("INSERT INTO snapshots (position, leaderboard_name, mode, data) VALUES (?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, snap := range snapshots {
			if _, err := stmt.Exec(i, snap.LeaderboardName, snap.Mode.String(), string(encoded[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) LoadChangelist() (models.Changelist, error) {
	if err := s.ensureSaved(changelistCollection); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT data FROM changelist ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query changelist: %w", err)
	}
	defer rows.Close()

	changelist := models.Changelist{}
	for rows.Next() {
		var entry models.ChangelistEntry
		if err := scanJSON(rows, &entry); err != nil {
			return nil, err
		}
		changelist = append(changelist, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate changelist: %w", err)
	}
	return changelist, nil
}

// SaveChangelist replaces the stored changelist in one transaction.
func (s *SQLiteStore) SaveChangelist(changelist models.Changelist) error {
	encoded := make([][]byte, len(changelist))
	for i, entry := range changelist {
		data, err := encodeVerified(entry)
		if err != nil {
			return fmt.Errorf("changelist entry %d: %w", i, err)
		}
		encoded[i] = data
	}

	return s.replace(changelistCollection, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM changelist"); err != nil {
			return err
		}
		stmt, err := tx.Prepare("INSERT INTO changelist (id, map_name, mode, fetch_time, data) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, entry := range changelist {
			if _, err := stmt.Exec(i+1, entry.MapName, entry.Mode, entry.FetchTime, string(encoded[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSaved(collection string) error {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM collections WHERE name = ?)", collection).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", collection, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, collection)
	}
	return nil
}

func (s *SQLiteStore) replace(collection string, write func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := write(tx); err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}

	_, err = tx.Exec(
		"INSERT INTO collections (name, updated_at) VALUES (?, CURRENT_TIMESTAMP) ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP",
		collection,
	)
	if err != nil {
		return fmt.Errorf("failed to mark %s saved: %w", collection, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", collection, err)
	}
	return nil
}

func scanJSON(rows *sql.Rows, v any) error {
	var data string
	if err := rows.Scan(&data); err != nil {
		return fmt.Errorf("failed to scan row: %w", err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCorruptData, err)
	}
	return nil
}
