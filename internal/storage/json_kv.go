package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// JSONFileKV keeps every key in one JSON object on disk. Each write rewrites
// the whole file through a temp file and rename.
type JSONFileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func OpenJSONFile(path string) (*JSONFileKV, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: json path is empty")
	}
	kv := &JSONFileKV{path: trimmed, data: make(map[string]string)}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return kv, nil
		}
		return nil, fmt.Errorf("read %s: %w", trimmed, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return kv, nil
	}
	if err := json.Unmarshal(raw, &kv.data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", trimmed, err)
	}
	if kv.data == nil {
		kv.data = make(map[string]string)
	}
	return kv, nil
}

func (j *JSONFileKV) Get(_ context.Context, key string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, ok := j.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (j *JSONFileKV) Set(_ context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	prev, had := j.data[key]
	j.data[key] = value
	if err := j.flush(); err != nil {
		if had {
			j.data[key] = prev
		} else {
			delete(j.data, key)
		}
		return err
	}
	return nil
}

func (j *JSONFileKV) Delete(_ context.Context, key string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	prev, had := j.data[key]
	if !had {
		return nil
	}
	delete(j.data, key)
	if err := j.flush(); err != nil {
		j.data[key] = prev
		return err
	}
	return nil
}

func (j *JSONFileKV) Close() error { return nil }

func (j *JSONFileKV) flush() error {
	dir := filepath.Dir(j.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}
