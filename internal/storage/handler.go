// Package storage persists domain objects as one JSON file per object
// inside a directory bound to the handler.
package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmarczak/zloty-bank-go/internal/domain"
)

// Handler reads and writes JSON documents in a single directory. Each
// object is stored under <dir>/<name>.json.
type Handler struct {
	dir string
}

// NewHandler binds a handler to the directory, creating it when missing.
func NewHandler(dir string) (*Handler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.ErrStorage{Path: dir, Err: err}
	}
	return &Handler{dir: dir}, nil
}

// Dir returns the directory this handler is bound to.
func (h *Handler) Dir() string { return h.dir }

func (h *Handler) path(name string) string {
	return filepath.Join(h.dir, name+".json")
}

// SaveObject serializes the value and writes it under the given name,
// replacing any previous file.
func (h *Handler) SaveObject(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return &domain.ErrStorage{Path: h.path(name), Err: err}
	}
	// The directory may have been removed behind our back between saves.
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return &domain.ErrStorage{Path: h.dir, Err: err}
	}
	if err := os.WriteFile(h.path(name), data, 0o644); err != nil {
		return &domain.ErrStorage{Path: h.path(name), Err: err}
	}
	return nil
}

// SaveEntity stores the entity under its own id.
func (h *Handler) SaveEntity(entity domain.Entity) error {
	return h.SaveObject(entity.ID(), entity)
}

// ObjectData returns the raw document stored under the given name.
func (h *Handler) ObjectData(name string) ([]byte, error) {
	data, err := os.ReadFile(h.path(name))
	if err != nil {
		return nil, &domain.ErrStorage{Path: h.path(name), Err: err}
	}
	return data, nil
}

// AllObjects returns every stored document keyed by object name. A missing
// directory yields an empty map, not an error.
func (h *Handler) AllObjects() (map[string]json.RawMessage, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, &domain.ErrStorage{Path: h.dir, Err: err}
	}

	objects := make(map[string]json.RawMessage, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(h.dir, entry.Name()))
		if err != nil {
			return nil, &domain.ErrStorage{Path: filepath.Join(h.dir, entry.Name()), Err: err}
		}
		objects[name] = data
	}
	return objects, nil
}

// RemoveObject deletes the document under the given name. Removing an
// absent object is not an error.
func (h *Handler) RemoveObject(name string) error {
	if err := os.Remove(h.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.ErrStorage{Path: h.path(name), Err: err}
	}
	return nil
}

// RemoveAll deletes every document in the directory, keeping the directory
// itself.
func (h *Handler) RemoveAll() error {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &domain.ErrStorage{Path: h.dir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(h.dir, entry.Name())); err != nil {
			return &domain.ErrStorage{Path: filepath.Join(h.dir, entry.Name()), Err: err}
		}
	}
	return nil
}
