package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File keeps one human-readable file per key under Dir.
// No locking; fine for a local single-user tool.
type File struct {
	Dir string
}

// NewFile returns a File rooted at dir, or the working directory when dir is empty.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	return &File{Dir: dir}, nil
}

// Path is where key is stored.
func (f *File) Path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *File) Get(key string) (string, bool, error) {
	b, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read file: %w", err)
	}
	return string(b), true, nil
}

func (f *File) Set(key, value string) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	// readers see either the old value or the new one, never a partial write
	target := f.Path(key)
	tmp, err := os.CreateTemp(f.Dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
