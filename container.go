package sprig

import (
	"errors"
	"fmt"
)

// Named is implemented by anything that has a name.
type Named interface {
	Name() string
}

// Child constrains what a Container can hold: a comparable named value,
// normally a pointer.
type Child interface {
	comparable
	Named
}

// ChildHooks intercepts container mutations. Either hook may be nil. A hook
// returning true vetoes the operation: the child is not appended, or not
// detached. Hooks run after the container has validated the request, so a
// hook that does not veto is guaranteed the mutation will happen.
type ChildHooks[C any] struct {
	BeforeAdd    func(child C) (veto bool)
	BeforeRemove func(child C) (veto bool)
}

// Container is an ordered, owning collection of named children plus a
// non-owning reference to the parent of the object that embeds it. Scenes
// hold their elements in a Container, and elements hold their animations.
//
// Lookups by name return the first match in insertion order. A unique
// container additionally rejects a child whose name is already present.
type Container[C Child, P any] struct {
	label     string
	unique    bool
	hooks     ChildHooks[C]
	children  []C
	parent    P
	hasParent bool
}

// NewContainer creates an empty container. label names the child kind in log
// and error messages ("element", "animation").
func NewContainer[C Child, P any](label string, unique bool, hooks ChildHooks[C]) *Container[C, P] {
	return &Container[C, P]{label: label, unique: unique, hooks: hooks}
}

// Unique reports whether the container rejects duplicate names.
func (c *Container[C, P]) Unique() bool {
	return c.unique
}

// --- Parent reference ---

// Parent returns the parent reference and whether one is set.
func (c *Container[C, P]) Parent() (P, bool) {
	return c.parent, c.hasParent
}

// SetParent sets the non-owning parent reference.
func (c *Container[C, P]) SetParent(p P) {
	c.parent = p
	c.hasParent = true
}

// ClearParent invalidates the parent reference.
func (c *Container[C, P]) ClearParent() {
	var zero P
	c.parent = zero
	c.hasParent = false
}

// --- Insertion ---

// Add appends child after running the BeforeAdd hook.
func (c *Container[C, P]) Add(child C) error {
	name := child.Name()
	if c.unique && c.Has(name) {
		logger.Error("add rejected: duplicate name", "kind", c.label, "name", name)
		return fmt.Errorf("sprig: add %s %q: %w", c.label, name, ErrDuplicateName)
	}
	if c.hooks.BeforeAdd != nil && c.hooks.BeforeAdd(child) {
		return fmt.Errorf("sprig: add %s %q: %w", c.label, name, ErrVetoed)
	}
	c.children = append(c.children, child)
	return nil
}

// AddAll adds every child in order. Children that fail are skipped and their
// errors joined; the rest are still added.
func (c *Container[C, P]) AddAll(children []C) error {
	var errs []error
	for _, child := range children {
		if err := c.Add(child); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// --- Removal ---

// RemoveByName detaches the first child named name and returns it.
func (c *Container[C, P]) RemoveByName(name string) (C, error) {
	idx := c.indexOf(name)
	if idx < 0 {
		var zero C
		return zero, c.notFound("remove", name)
	}
	return c.removeAt(idx)
}

// RemoveAt detaches the child at index and returns it.
func (c *Container[C, P]) RemoveAt(index int) (C, error) {
	if index < 0 || index >= len(c.children) {
		var zero C
		return zero, c.outOfRange("remove", index)
	}
	return c.removeAt(index)
}

// RemoveAll detaches every child, walking from the last index to the first
// so earlier indices stay valid. Children whose removal is vetoed stay in
// the container. The removed children are returned in insertion order.
func (c *Container[C, P]) RemoveAll() []C {
	removed := make([]C, 0, len(c.children))
	for i := len(c.children) - 1; i >= 0; i-- {
		child, err := c.removeAt(i)
		if err != nil {
			continue
		}
		removed = append(removed, child)
	}
	for i, j := 0, len(removed)-1; i < j; i, j = i+1, j-1 {
		removed[i], removed[j] = removed[j], removed[i]
	}
	return removed
}

func (c *Container[C, P]) removeAt(index int) (C, error) {
	child := c.children[index]
	if c.hooks.BeforeRemove != nil && c.hooks.BeforeRemove(child) {
		var zero C
		return zero, fmt.Errorf("sprig: remove %s %q: %w", c.label, child.Name(), ErrVetoed)
	}
	// The hook may have mutated the collection; find the child again.
	if index >= len(c.children) || c.children[index] != child {
		index = c.indexOfChild(child)
		if index < 0 {
			return child, nil
		}
	}
	copy(c.children[index:], c.children[index+1:])
	var zero C
	c.children[len(c.children)-1] = zero
	c.children = c.children[:len(c.children)-1]
	return child, nil
}

// --- Lookup ---

// Has reports whether a child named name exists.
func (c *Container[C, P]) Has(name string) bool {
	return c.indexOf(name) >= 0
}

// Get returns the first child named name.
func (c *Container[C, P]) Get(name string) (C, error) {
	idx := c.indexOf(name)
	if idx < 0 {
		var zero C
		return zero, c.notFound("get", name)
	}
	return c.children[idx], nil
}

// At returns the child at index.
func (c *Container[C, P]) At(index int) (C, error) {
	if index < 0 || index >= len(c.children) {
		var zero C
		return zero, c.outOfRange("get", index)
	}
	return c.children[index], nil
}

// Index returns the index of the first child named name.
func (c *Container[C, P]) Index(name string) (int, error) {
	idx := c.indexOf(name)
	if idx < 0 {
		return -1, c.notFound("index", name)
	}
	return idx, nil
}

// NameAt returns the name of the child at index.
func (c *Container[C, P]) NameAt(index int) (string, error) {
	child, err := c.At(index)
	if err != nil {
		return "", err
	}
	return child.Name(), nil
}

// All returns a snapshot of the children in insertion order.
func (c *Container[C, P]) All() []C {
	out := make([]C, len(c.children))
	copy(out, c.children)
	return out
}

// Names returns a snapshot of the child names in insertion order.
func (c *Container[C, P]) Names() []string {
	out := make([]string, len(c.children))
	for i, child := range c.children {
		out[i] = child.Name()
	}
	return out
}

// Len returns the number of children.
func (c *Container[C, P]) Len() int {
	return len(c.children)
}

// --- Helpers ---

func (c *Container[C, P]) indexOf(name string) int {
	for i, child := range c.children {
		if child.Name() == name {
			return i
		}
	}
	return -1
}

func (c *Container[C, P]) indexOfChild(child C) int {
	for i, ch := range c.children {
		if ch == child {
			return i
		}
	}
	return -1
}

func (c *Container[C, P]) notFound(op, name string) error {
	logger.Error("lookup failed", "op", op, "kind", c.label, "name", name)
	return fmt.Errorf("sprig: %s %s %q: %w", op, c.label, name, ErrNotFound)
}

func (c *Container[C, P]) outOfRange(op string, index int) error {
	logger.Error("lookup failed", "op", op, "kind", c.label, "index", index, "count", len(c.children))
	return fmt.Errorf("sprig: %s %s at %d (count %d): %w", op, c.label, index, len(c.children), ErrOutOfRange)
}
