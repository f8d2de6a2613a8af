package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	_ Store = (*JSONStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// JSONStore keeps one file per key under Root, laid out like the key
// ("element-summary/302.json" -> Root/element-summary/302.json). Writes go
// through a temp file and rename so concurrent readers never see a partial
// payload.
type JSONStore struct {
	Root string
}

func NewJSONStore(root string) *JSONStore {
	return &JSONStore{Root: root}
}

// Path returns the file backing rel without validating it.
func (s *JSONStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *JSONStore) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if rel == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, rel)
	}
	return filepath.Join(s.Root, clean), nil
}

func (s *JSONStore) Stat(rel string) (time.Time, bool) {
	path, err := s.resolve(rel)
	if err != nil {
		return time.Time{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func (s *JSONStore) ReadRaw(rel string) ([]byte, error) {
	path, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return b, nil
}

// WriteRaw stores body under rel. With pretty set, valid JSON is re-indented
// with key order preserved; anything else is written as is.
func (s *JSONStore) WriteRaw(rel string, body []byte, pretty bool) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir for %s: %w", rel, err)
	}

	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			buf.WriteByte('\n')
			body = buf.Bytes()
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".raw-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
