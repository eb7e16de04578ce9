package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

// Target stores backup documents by name.
type Target interface {
	Put(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Backup exports records and stores them on target under Filename(now).
// It returns the name used.
func Backup(ctx context.Context, target Target, records []subscription.Record, now time.Time) (string, error) {
	data, err := Export(records)
	if err != nil {
		return "", err
	}
	name := Filename(now)
	if err := target.Put(ctx, name, data); err != nil {
		return "", err
	}
	return name, nil
}

// Restore reads the named backup from target and validates it like Import.
func Restore(ctx context.Context, target Target, name string) ([]subscription.Record, error) {
	rc, err := target.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return Import(rc)
}

// ValidateName rejects names that are empty or could escape the target root.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// LocalTarget keeps backups as files in a single directory.
type LocalTarget struct {
	baseDir string
}

// NewLocalTarget resolves dir to an absolute path and creates it if needed.
func NewLocalTarget(dir string) (*LocalTarget, error) {
	if dir == "" {
		return nil, ErrInvalidConfig
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	return &LocalTarget{baseDir: absDir}, nil
}

// Dir returns the absolute backup directory.
func (t *LocalTarget) Dir() string {
	return t.baseDir
}

func (t *LocalTarget) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(t.baseDir, name), data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}
	return nil
}

func (t *LocalTarget) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(t.baseDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToRead, err)
	}
	return f, nil
}
