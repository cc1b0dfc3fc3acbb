package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSlots keeps each slot in its own <name>.json file inside a directory.
// Writes go to a temp file that is renamed over the slot, so a crash never
// leaves a half-written record behind.
type FileSlots struct {
	dir string
}

var _ SlotBackend = (*FileSlots)(nil)

// NewFileSlots uses dir for slot files, creating it if needed.
func NewFileSlots(dir string) (*FileSlots, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return &FileSlots{dir: dir}, nil
}

// Dir returns the directory holding the slot files.
func (f *FileSlots) Dir() string {
	return f.dir
}

func (f *FileSlots) path(name string) (string, error) {
	if err := checkSlotName(name); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, name+".json"), nil
}

// ReadSlot returns the slot's contents.
func (f *FileSlots) ReadSlot(name string) ([]byte, error) {
	p, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read slot %s: %w", name, err)
	}
	return data, nil
}

// WriteSlot replaces the slot's contents atomically.
func (f *FileSlots) WriteSlot(name string, data []byte) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write slot %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot sync slot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot close slot %s: %w", name, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("storage: cannot replace slot %s: %w", name, err)
	}
	return nil
}

// DeleteSlot removes the slot file.
func (f *FileSlots) DeleteSlot(name string) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %s: %w", name, err)
	}
	return nil
}

func checkSlotName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("storage: invalid slot name %q", name)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
