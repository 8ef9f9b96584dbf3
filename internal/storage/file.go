package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/harrison/cardiorisk/internal/filelock"
)

// FileKV stores keys as a flat JSON object in a single file.
// Writes take an exclusive file lock and replace the file atomically;
// reads take a shared lock.
type FileKV struct {
	path string
}

// NewFileKV returns a FileKV backed by path. The file is created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the backing file path.
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value for key. A missing file means every key is absent.
func (f *FileKV) Get(key string) (string, bool, error) {
	values, err := f.readAll()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key.
func (f *FileKV) Set(key, value string) error {
	return f.SetMany(map[string]string{key: value})
}

// SetMany stores all values in one locked, atomic file replacement.
func (f *FileKV) SetMany(values map[string]string) error {
	err := filelock.LockAndUpdate(f.path, func(current []byte) ([]byte, error) {
		existing, err := decode(current)
		if err != nil {
			// A corrupt file is replaced rather than blocking every future write
			existing = make(map[string]string)
		}
		for k, v := range values {
			existing[k] = v
		}
		return json.MarshalIndent(existing, "", "  ")
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, f.path, err)
	}
	return nil
}

func (f *FileKV) readAll() (map[string]string, error) {
	data, err := filelock.ReadShared(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, f.path, err)
	}

	values, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, f.path, err)
	}
	return values, nil
}

func decode(data []byte) (map[string]string, error) {
	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
