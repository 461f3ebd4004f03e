package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/phanxgames/sprig"
)

// JSONStore keeps every scene document in one local JSON file.
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	scenes   map[string]sprig.SceneDocument
}

// jsonData is the file layout.
type jsonData struct {
	Scenes map[string]sprig.SceneDocument `json:"scenes"`
}

// NewJSONStore opens the store at filePath, creating the file if it does
// not exist.
func NewJSONStore(filePath string) (*JSONStore, error) {
	js := &JSONStore{
		filePath: filePath,
		scenes:   make(map[string]sprig.SceneDocument),
	}
	if _, err := os.Stat(filePath); err == nil {
		if err := js.loadFromFile(); err != nil {
			return nil, fmt.Errorf("store: load %s: %w", filePath, err)
		}
	} else if err := js.saveToFile(); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", filePath, err)
	}
	return js, nil
}

func (js *JSONStore) loadFromFile() error {
	raw, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	var data jsonData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	if data.Scenes != nil {
		js.scenes = data.Scenes
	}
	return nil
}

// saveToFile writes the whole store. Callers hold the write lock, except
// during construction.
func (js *JSONStore) saveToFile() error {
	raw, err := json.MarshalIndent(jsonData{Scenes: js.scenes}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(js.filePath, raw, 0o644)
}

// SaveScene stores doc under doc.Name, replacing any previous document.
func (js *JSONStore) SaveScene(ctx context.Context, doc sprig.SceneDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	js.mutex.Lock()
	defer js.mutex.Unlock()
	js.scenes[doc.Name] = doc
	if err := js.saveToFile(); err != nil {
		return fmt.Errorf("store: save scene %q: %w", doc.Name, err)
	}
	return nil
}

// LoadScene returns the document stored under name.
func (js *JSONStore) LoadScene(ctx context.Context, name string) (sprig.SceneDocument, error) {
	if err := ctx.Err(); err != nil {
		return sprig.SceneDocument{}, err
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	doc, ok := js.scenes[name]
	if !ok {
		return sprig.SceneDocument{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return doc, nil
}

// ListScenes returns the stored scene names in ascending order.
func (js *JSONStore) ListScenes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	names := make([]string, 0, len(js.scenes))
	for name := range js.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// DeleteScene removes the document stored under name.
func (js *JSONStore) DeleteScene(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	js.mutex.Lock()
	defer js.mutex.Unlock()
	if _, ok := js.scenes[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(js.scenes, name)
	if err := js.saveToFile(); err != nil {
		return fmt.Errorf("store: delete scene %q: %w", name, err)
	}
	return nil
}

// Close flushes the store to disk.
func (js *JSONStore) Close() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	return js.saveToFile()
}
