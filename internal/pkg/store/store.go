package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	DefaultCredentialFile  = "api_key.txt"
	DefaultSetupMarkerFile = "setup_complete.txt"

	setupSentinel = "done\n"
)

// Store holds the two configuration flags. Only existence of each marker is
// meaningful to callers.
type Store interface {
	HasCredential() (bool, error)
	HasSetupCompleted() (bool, error)
	WriteCredential(value string) error
	MarkSetupComplete() error
}

type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type FileStore struct {
	dir            string
	credentialPath string
	setupPath      string
}

// NewFileStore keeps its markers in dir. Empty file names fall back to the
// defaults.
func NewFileStore(dir, credentialFile, setupFile string) *FileStore {
	if dir == "" {
		dir = "."
	}
	if credentialFile == "" {
		credentialFile = DefaultCredentialFile
	}
	if setupFile == "" {
		setupFile = DefaultSetupMarkerFile
	}
	return &FileStore{
		dir:            dir,
		credentialPath: filepath.Join(dir, credentialFile),
		setupPath:      filepath.Join(dir, setupFile),
	}
}

func (s *FileStore) CredentialPath() string { return s.credentialPath }
func (s *FileStore) SetupPath() string      { return s.setupPath }

func (s *FileStore) HasCredential() (bool, error) {
	return exists(s.credentialPath)
}

func (s *FileStore) HasSetupCompleted() (bool, error) {
	return exists(s.setupPath)
}

func (s *FileStore) WriteCredential(value string) error {
	return s.write(s.credentialPath, []byte(value), 0o600)
}

func (s *FileStore) MarkSetupComplete() error {
	return s.write(s.setupPath, []byte(setupSentinel), 0o644)
}

func (s *FileStore) write(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &StoreError{Op: "mkdir", Path: s.dir, Err: err}
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return &StoreError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &StoreError{Op: "stat", Path: path, Err: err}
}
