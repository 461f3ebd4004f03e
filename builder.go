package sprig

import (
	"errors"
	"fmt"
)

// SceneBuilder assembles a Scene and adds it to a Game in one step.
type SceneBuilder struct {
	name     string
	game     *Game
	setup    SceneSetup
	elements []*Element
}

// NewSceneBuilder returns an empty builder.
func NewSceneBuilder() *SceneBuilder {
	return &SceneBuilder{}
}

// Name sets the scene name. Required.
func (b *SceneBuilder) Name(name string) *SceneBuilder {
	b.name = name
	return b
}

// Game sets the game the scene is added to. Required.
func (b *SceneBuilder) Game(g *Game) *SceneBuilder {
	b.game = g
	return b
}

// Setup sets the scene setup hooks.
func (b *SceneBuilder) Setup(setup SceneSetup) *SceneBuilder {
	b.setup = setup
	return b
}

// Elements appends elements added after the scene's setup hooks run.
func (b *SceneBuilder) Elements(elements ...*Element) *SceneBuilder {
	b.elements = append(b.elements, elements...)
	return b
}

// Build creates the scene, adds it to the game and then adds the elements.
// A missing name or game fails with ErrBuilder.
func (b *SceneBuilder) Build() (*Scene, error) {
	var missing []error
	if b.name == "" {
		missing = append(missing, errors.New("name not set"))
	}
	if b.game == nil {
		missing = append(missing, errors.New("game not set"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, fmt.Errorf("sprig: build scene: %w: %w", ErrBuilder, err)
	}

	s := NewSceneWithSetup(b.name, b.setup)
	if err := b.game.AddScene(s); err != nil {
		return nil, fmt.Errorf("sprig: build scene %q: %w", b.name, err)
	}
	if err := s.AddElements(b.elements...); err != nil {
		if _, rmErr := b.game.RemoveScene(s.name); rmErr != nil {
			logger.Error("roll back scene", "scene", s.name, "err", rmErr)
		}
		s.Destroy()
		return nil, fmt.Errorf("sprig: build scene %q: %w", b.name, err)
	}
	return s, nil
}
