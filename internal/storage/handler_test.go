package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pmarczak/zloty-bank-go/internal/domain"
	"github.com/pmarczak/zloty-bank-go/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *storage.Handler {
	t.Helper()
	handler, err := storage.NewHandler(filepath.Join(t.TempDir(), "objects"))
	require.NoError(t, err)
	return handler
}

func TestSaveAndReadObject(t *testing.T) {
	handler := newHandler(t)

	type doc struct {
		Name string `json:"name"`
	}
	require.NoError(t, handler.SaveObject("greeting", doc{Name: "hello"}))

	data, err := handler.ObjectData("greeting")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"hello"}`, string(data))
}

func TestSaveEntity_UsesEntityID(t *testing.T) {
	handler := newHandler(t)

	client := domain.NewClient("Jan", "Kowalski", "90010112345", "jankow", "s3cret")
	require.NoError(t, handler.SaveEntity(client))

	_, err := handler.ObjectData("90010112345")
	assert.NoError(t, err)
}

func TestObjectData_Missing(t *testing.T) {
	handler := newHandler(t)

	_, err := handler.ObjectData("nothing")
	var storageErr *domain.ErrStorage
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAllObjects(t *testing.T) {
	handler := newHandler(t)

	require.NoError(t, handler.SaveObject("a", map[string]int{"v": 1}))
	require.NoError(t, handler.SaveObject("b", map[string]int{"v": 2}))

	objects, err := handler.AllObjects()
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Contains(t, objects, "a")
	assert.Contains(t, objects, "b")
}

func TestAllObjects_MissingDirIsEmpty(t *testing.T) {
	handler := newHandler(t)
	require.NoError(t, os.RemoveAll(handler.Dir()))

	objects, err := handler.AllObjects()
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestRemoveObject(t *testing.T) {
	handler := newHandler(t)
	require.NoError(t, handler.SaveObject("a", map[string]int{"v": 1}))

	require.NoError(t, handler.RemoveObject("a"))
	_, err := handler.ObjectData("a")
	assert.Error(t, err)

	// Removing an absent object is fine.
	assert.NoError(t, handler.RemoveObject("a"))
}

func TestRemoveAll(t *testing.T) {
	handler := newHandler(t)
	require.NoError(t, handler.SaveObject("a", map[string]int{"v": 1}))
	require.NoError(t, handler.SaveObject("b", map[string]int{"v": 2}))

	require.NoError(t, handler.RemoveAll())

	objects, err := handler.AllObjects()
	require.NoError(t, err)
	assert.Empty(t, objects)

	// The directory itself survives.
	_, statErr := os.Stat(handler.Dir())
	assert.NoError(t, statErr)
}

func TestSaveObject_RecreatesDir(t *testing.T) {
	handler := newHandler(t)
	require.NoError(t, os.RemoveAll(handler.Dir()))

	require.NoError(t, handler.SaveObject("a", map[string]int{"v": 1}))
	_, err := handler.ObjectData("a")
	assert.NoError(t, err)
}
