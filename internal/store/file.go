package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore persists each history as a JSON file under a directory. The
// file name is derived from the conversation id, so ids never reach the
// filesystem as paths. Expiry uses the file modification time.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
}

func NewFileStore(dir string, ttl time.Duration) *FileStore {
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, base64.RawURLEncoding.EncodeToString([]byte(id))+".json")
}

func (f *FileStore) Get(_ context.Context, id string) ([]Turn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLocked(id)
}

func (f *FileStore) readLocked(id string) ([]Turn, error) {
	p := f.path(id)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if expired(info.ModTime(), f.ttl, f.now()) {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, ErrNotFound
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var turns []Turn
	if err := json.Unmarshal(b, &turns); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", filepath.Base(p), err)
	}
	return turns, nil
}

func (f *FileStore) Append(_ context.Context, id string, turns ...Turn) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, err := f.readLocked(id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(append(existing, turns...), "", "  ")
	if err != nil {
		return err
	}
	p := f.path(id)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Sweep removes expired history files and returns how many were removed.
func (f *FileStore) Sweep(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	now := f.now()
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if expired(info.ModTime(), f.ttl, now) {
			if err := os.Remove(filepath.Join(f.dir, e.Name())); err == nil {
				n++
			}
		}
	}
	return n, nil
}
