package environ

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrUndefined = errors.New("undefined variable")

// Env is a single scope of variables linked to the scope enclosing it. The
// global scope has no parent.
type Env[T any] struct {
	parent *Env[T]
	values map[string]T
}

func Empty[T any]() *Env[T] {
	return Enclosed[T](nil)
}

func Enclosed[T any](parent *Env[T]) *Env[T] {
	return &Env[T]{
		parent: parent,
		values: make(map[string]T),
	}
}

// Define binds ident in this scope only, replacing any previous binding.
func (e *Env[T]) Define(ident string, value T) {
	e.values[ident] = value
}

func (e *Env[T]) Assign(ident string, value T) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[ident]; ok {
			env.values[ident] = value
			return nil
		}
	}
	return fmt.Errorf("%s: %w", ident, ErrUndefined)
}

func (e *Env[T]) Resolve(ident string) (T, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[ident]; ok {
			return v, nil
		}
	}
	var t T
	return t, fmt.Errorf("%s: %w", ident, ErrUndefined)
}

// Ancestor returns the scope dist hops up the chain or nil if the chain is
// shorter than that.
func (e *Env[T]) Ancestor(dist int) *Env[T] {
	env := e
	for i := 0; env != nil && i < dist; i++ {
		env = env.parent
	}
	return env
}

// ResolveAt looks ident up in the scope dist hops away without walking any
// further.
func (e *Env[T]) ResolveAt(dist int, ident string) (T, error) {
	var t T
	env := e.Ancestor(dist)
	if env == nil {
		return t, fmt.Errorf("%s: %w", ident, ErrUndefined)
	}
	v, ok := env.values[ident]
	if !ok {
		return t, fmt.Errorf("%s: %w", ident, ErrUndefined)
	}
	return v, nil
}

func (e *Env[T]) AssignAt(dist int, ident string, value T) error {
	env := e.Ancestor(dist)
	if env == nil {
		return fmt.Errorf("%s: %w", ident, ErrUndefined)
	}
	if _, ok := env.values[ident]; !ok {
		return fmt.Errorf("%s: %w", ident, ErrUndefined)
	}
	env.values[ident] = value
	return nil
}

// Names gives the names defined in e, sorted. Parents are not included.
func (e *Env[T]) Names() []string {
	return slices.Sorted(maps.Keys(e.values))
}

func (e *Env[T]) Len() int {
	return len(e.values)
}
