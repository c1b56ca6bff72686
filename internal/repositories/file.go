package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/klauspost/compress/zstd"
)

const (
	filePerm       os.FileMode = 0644
	compressedExt              = ".zst"
)

// FileStore keeps each collection in its own JSON file.
//
// Paths ending in ".zst" hold zstd-compressed JSON.
type FileStore struct {
	snapshotsPath  string
	changelistPath string

	// beforeReplace runs after the temporary file is written and before it replaces the target.
	beforeReplace func(tmpPath string) error
}

// NewFileStore creates a store over the two file paths.
func NewFileStore(snapshotsPath, changelistPath string) *FileStore {
	return &FileStore{snapshotsPath: snapshotsPath, changelistPath: changelistPath}
}

func (s *FileStore) LoadSnapshots() (models.Snapshots, error) {
	var snapshots models.Snapshots
	if err := loadFile(s.snapshotsPath, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (s *FileStore) SaveSnapshots(snapshots models.Snapshots) error {
	if snapshots == nil {
		snapshots = models.Snapshots{}
	}
	return saveFile(s.snapshotsPath, snapshots, s.beforeReplace)
}

func (s *FileStore) LoadChangelist() (models.Changelist, error) {
	var changelist models.Changelist
	if err := loadFile(s.changelistPath, &changelist); err != nil {
		return nil, err
	}
	return changelist, nil
}

func (s *FileStore) SaveChangelist(changelist models.Changelist) error {
	if changelist == nil {
		changelist = models.Changelist{}
	}
	return saveFile(s.changelistPath, changelist, s.beforeReplace)
}

// Close is a no-op; files are not held open between calls.
func (s *FileStore) Close() error {
	return nil
}

func loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", shared.ErrNotFound, path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if isCompressed(path) {
		if data, err = decompress(data); err != nil {
			return fmt.Errorf("%w: %s: %v", shared.ErrCorruptData, path, err)
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrCorruptData, path, err)
	}
	return nil
}

// saveFile replaces path with the serialized form of v.
//
// The data is written to a temporary file in the target's directory and renamed over the target, so
// an interrupted save leaves the previous file untouched.
func saveFile[T any](path string, v T, beforeReplace func(string) error) error {
	data, err := encodeVerified(v)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if isCompressed(path) {
		compressed, err := compress(data)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", path, err)
		}
		if roundTrip, err := decompress(compressed); err != nil || len(roundTrip) != len(data) {
			return fmt.Errorf("%w: %s: compressed data does not round-trip", shared.ErrCorruptData, path)
		}
		data = compressed
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if beforeReplace != nil {
		if err := beforeReplace(tmpPath); err != nil {
			return err
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true

	if err := os.Chmod(path, filePerm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}

func isCompressed(path string) bool {
	return strings.HasSuffix(path, compressedExt)
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
