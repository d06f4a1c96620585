package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/walletkeeper/internal/tier"
)

const walletExt = ".cwt"

// utf8BOM is prepended for proper display in Windows editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileStore keeps one .cwt JSON file per identity in a directory.
type FileStore struct {
	dir    string
	medium tier.Medium
}

// NewFileStore creates dir (0700) if needed.
func NewFileStore(dir string, medium tier.Medium) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("wallet directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create wallet directory: %w", err)
	}
	if medium == "" {
		medium = tier.MediumLocal
	}
	return &FileStore{dir: dir, medium: medium}, nil
}

// path maps an identity to a file name that cannot escape dir.
func (s *FileStore) path(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+walletExt)
}

// Save writes to a temp file, syncs it and renames it over the old record.
func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fileData, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet record: %w", err)
	}
	fileDataWithBOM := append(append([]byte{}, utf8BOM...), fileData...)

	tmp, err := os.CreateTemp(s.dir, ".wallet-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if _, err := tmp.Write(fileDataWithBOM); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(rec.Identity)); err != nil {
		return fmt.Errorf("failed to replace wallet file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, identity string) (*Record, error) {
	if err := checkIdentity(identity); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileData, err := os.ReadFile(s.path(identity))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileData) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidRecord)
	}
	fileData = bytes.TrimPrefix(fileData, utf8BOM)

	var rec Record
	if err := json.Unmarshal(fileData, &rec); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal wallet file: %v", ErrInvalidRecord, err)
	}
	if rec.Identity != identity {
		return nil, fmt.Errorf("%w: identity mismatch", ErrInvalidRecord)
	}
	return &rec, nil
}

func (s *FileStore) Exists(ctx context.Context, identity string) (bool, error) {
	if err := checkIdentity(identity); err != nil {
		return false, err
	}
	// A present but unreadable file still counts; Load reports the corruption.
	if _, err := os.Stat(s.path(identity)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// Clear removes the record. Clearing a missing record is not an error.
func (s *FileStore) Clear(ctx context.Context, identity string) error {
	if err := checkIdentity(identity); err != nil {
		return err
	}
	if err := os.Remove(s.path(identity)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove wallet file: %w", err)
	}
	return nil
}

func (s *FileStore) Medium() tier.Medium { return s.medium }

func (s *FileStore) Close() error { return nil }
