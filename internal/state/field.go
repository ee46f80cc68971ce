package state

import "fmt"

// Dep is anything a derived field can depend on.
type Dep interface {
	index() int
	owner() *Store
}

// Field is a typed slot in a Store.
type Field[T any] struct {
	s         *Store
	idx       int
	value     T
	listeners []func(T) error
}

type Option func(*node)

// Quiet stops the store from logging changes to this field.
func Quiet() Option {
	return func(n *node) { n.quiet = true }
}

// Const fixes a base field at its initial value. Fields derived from it are
// computed once.
func Const() Option {
	return func(n *node) { n.fixed = true }
}

// Define registers a base field with an initial value. Defining the same
// name twice panics.
func Define[T any](s *Store, name string, initial T, opts ...Option) *Field[T] {
	f := &Field[T]{s: s, value: initial}
	n := &node{name: name}
	for _, o := range opts {
		o(n)
	}
	f.bind(n)
	n.setAny = func(v any) error {
		tv, ok := v.(T)
		if !ok {
			return fmt.Errorf("%s: %w: %T", name, ErrType, v)
		}
		return f.Set(tv)
	}
	f.idx = s.register(n)
	return f
}

// Derive registers a field computed from deps. compute runs once now and
// again whenever any dep changes.
func Derive[T any](s *Store, name string, compute func() (T, error), deps []Dep, opts ...Option) (*Field[T], error) {
	for _, d := range deps {
		if d.owner() != s {
			return nil, fmt.Errorf("%s: dependency belongs to another store", name)
		}
	}
	v, err := compute()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	f := &Field[T]{s: s, value: v}
	n := &node{name: name, derived: true}
	for _, o := range opts {
		o(n)
	}
	f.bind(n)
	n.recompute = func() error {
		v, err := compute()
		if err != nil {
			return err
		}
		f.value = v
		return nil
	}
	n.setAny = func(any) error { return fmt.Errorf("%s: %w", name, ErrDerived) }
	f.idx = s.register(n)
	for _, d := range deps {
		p := s.nodes[d.index()]
		p.dependents = append(p.dependents, f.idx)
	}
	return f, nil
}

// MustDerive is Derive for computations that cannot fail at startup.
func MustDerive[T any](s *Store, name string, compute func() (T, error), deps ...Dep) *Field[T] {
	f, err := Derive(s, name, compute, deps)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Field[T]) bind(n *node) {
	n.notify = func() error {
		for _, fn := range f.listeners {
			if err := fn(f.value); err != nil {
				return err
			}
		}
		return nil
	}
	n.listenAny = func(fn func(any) error) {
		f.listeners = append(f.listeners, func(v T) error { return fn(v) })
	}
}

func (f *Field[T]) index() int    { return f.idx }
func (f *Field[T]) owner() *Store { return f.s }

// Name returns the field's registered name.
func (f *Field[T]) Name() string { return f.s.nodes[f.idx].name }

// Get returns the current value.
func (f *Field[T]) Get() T { return f.value }

// Set stores v and runs the cascade. The first listener or derivation error
// aborts the cascade and is returned.
func (f *Field[T]) Set(v T) error {
	n := f.s.nodes[f.idx]
	if n.derived {
		return fmt.Errorf("%s: %w", n.name, ErrDerived)
	}
	if n.fixed {
		return fmt.Errorf("%s: %w", n.name, ErrConst)
	}
	if n.inFlight {
		return fmt.Errorf("%s: %w", n.name, ErrCycle)
	}
	f.value = v
	return f.s.propagate(f.idx)
}

// OnChange registers fn to run after every change, in registration order.
func (f *Field[T]) OnChange(fn func(T) error) {
	f.listeners = append(f.listeners, fn)
}
