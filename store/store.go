// Package store persists sprig scene documents.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/phanxgames/sprig"
)

// ErrNotFound is returned when no document is stored under a name.
var ErrNotFound = fmt.Errorf("store: scene %w", sprig.ErrNotFound)

// SceneStore saves and loads scene documents by scene name.
type SceneStore interface {
	SaveScene(ctx context.Context, doc sprig.SceneDocument) error
	LoadScene(ctx context.Context, name string) (sprig.SceneDocument, error)
	ListScenes(ctx context.Context) ([]string, error)
	DeleteScene(ctx context.Context, name string) error
	Close() error
}

// Save serializes s and stores it.
func Save(ctx context.Context, st SceneStore, s *sprig.Scene, reg *sprig.Registry) error {
	doc, err := s.MarshalDocument(reg)
	if err != nil {
		return err
	}
	if doc.Name == "" {
		return errors.New("store: cannot save a scene without a name")
	}
	return st.SaveScene(ctx, doc)
}

// Load fetches the named document and rebuilds the scene, loading its
// textures through cache.
func Load(ctx context.Context, st SceneStore, name string, cache *sprig.TextureCache, reg *sprig.Registry) (*sprig.Scene, error) {
	doc, err := st.LoadScene(ctx, name)
	if err != nil {
		return nil, err
	}
	return sprig.NewSceneFromDocument(doc, cache, reg)
}
