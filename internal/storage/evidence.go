package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// EvidenceStore keeps uploaded proof-of-payment files on disk, one file per
// transaction, named <txID>.<ext>. In-flight writes live in a sibling
// directory that is never served, so a blob is only ever visible complete.
type EvidenceStore struct {
	dir    string
	tmpDir string
	logger zerolog.Logger
}

var ErrEmptyEvidence = errors.New("empty evidence payload")

var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"pdf":  {},
}

func AllowedExtension(ext string) bool {
	_, ok := allowedExtensions[strings.ToLower(ext)]
	return ok
}

func NewEvidenceStore(dir string, logger zerolog.Logger) (*EvidenceStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	// Same filesystem as dir, so the final rename stays atomic.
	tmpDir := dir + ".tmp"
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload staging directory: %w", err)
	}
	return &EvidenceStore{dir: dir, tmpDir: tmpDir, logger: logger}, nil
}

func (s *EvidenceStore) Dir() string {
	return s.dir
}

// Save writes the payload and returns the stored file name. The blob is
// written to a temporary file first and only renamed into place once fully
// on disk, so a reference handed to callers always points at a complete file.
func (s *EvidenceStore) Save(txID, ext string, payload io.Reader) (string, error) {
	name := txID + "." + strings.ToLower(ext)

	tmp, err := os.CreateTemp(s.tmpDir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create evidence file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, payload)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}
	if n == 0 {
		os.Remove(tmpName)
		return "", ErrEmptyEvidence
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to store evidence file: %w", err)
	}

	s.logger.Info().Str("transaction_id", txID).Str("file", name).Msg("Evidence stored")
	return name, nil
}

// Remove deletes a stored blob. Used to clean up when the ledger insert that
// would reference the file fails.
func (s *EvidenceStore) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}
