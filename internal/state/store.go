// Package state holds the application's reactive fields.
//
// A Store owns a set of typed fields. Base fields are changed through Set;
// derived fields are recomputed from the fields they depend on. Because a
// derived field can only depend on fields that already exist, registration
// order is a topological order of the dependency graph. A Set stores the
// value and recomputes every reachable dependent once, in registration
// order. Only then do listeners run: the field's own first, then each
// dependent's. Every listener therefore sees a consistent graph.
//
// Listeners may set other base fields, which runs a nested cascade. Setting
// a base field whose own cascade is still running is a cycle and fails with
// ErrCycle.
package state

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type node struct {
	name    string
	quiet   bool
	derived bool
	fixed   bool

	// recompute refreshes a derived field's value from its dependencies.
	recompute func() error
	notify    func() error

	setAny    func(v any) error
	listenAny func(fn func(any) error)

	dependents []int
	inFlight   bool
}

type Store struct {
	id     uuid.UUID
	log    zerolog.Logger
	nodes  []*node
	byName map[string]int
	depth  int

	onError func(error)
}

func NewStore(log zerolog.Logger) *Store {
	id := uuid.New()
	return &Store{
		id:     id,
		log:    log.With().Str("component", "state").Str("store", id.String()).Logger(),
		byName: map[string]int{},
	}
}

func (s *Store) ID() uuid.UUID { return s.id }

// OnError installs the top-level error handler used by Fail.
func (s *Store) OnError(fn func(error)) { s.onError = fn }

// Fail reports an error raised outside a caller-visible Set, e.g. from a
// timer-driven update.
func (s *Store) Fail(err error) {
	if err == nil {
		return
	}
	s.log.Error().Err(err).Msg("state update failed")
	if s.onError != nil {
		s.onError(err)
	}
}

// Names lists field names in registration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.name
	}
	return out
}

// Set assigns v to the named base field. v must have the field's type.
func (s *Store) Set(name string, v any) error {
	i, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownField)
	}
	return s.nodes[i].setAny(v)
}

// OnChange registers an untyped listener on the named field.
func (s *Store) OnChange(name string, fn func(any) error) error {
	i, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownField)
	}
	s.nodes[i].listenAny(fn)
	return nil
}

func (s *Store) register(n *node) int {
	if _, dup := s.byName[n.name]; dup {
		panic(fmt.Sprintf("state: field %q defined twice", n.name))
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, n)
	s.byName[n.name] = idx
	return idx
}

// reachable returns every field downstream of start, ascending.
func (s *Store) reachable(start int) []int {
	seen := map[int]bool{}
	stack := append([]int(nil), s.nodes[start].dependents...)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			continue
		}
		seen[i] = true
		stack = append(stack, s.nodes[i].dependents...)
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// propagate runs the cascade for a field whose value was just stored. Only
// base fields whose cascade is on the call stack are marked in flight, so a
// listener may set another base field that shares a dependent with this one.
// That dependent is recomputed again by the nested cascade.
func (s *Store) propagate(start int) error {
	n := s.nodes[start]
	if n.inFlight {
		return fmt.Errorf("%s: %w", n.name, ErrCycle)
	}
	down := s.reachable(start)

	n.inFlight = true
	s.depth++
	defer func() {
		s.depth--
		n.inFlight = false
	}()

	for _, i := range down {
		d := s.nodes[i]
		if err := d.recompute(); err != nil {
			return fmt.Errorf("%s -> %s: %w", n.name, d.name, err)
		}
	}

	s.trace(n)
	if err := n.notify(); err != nil {
		return fmt.Errorf("%s: %w", n.name, err)
	}
	for _, i := range down {
		d := s.nodes[i]
		s.trace(d)
		if err := d.notify(); err != nil {
			return fmt.Errorf("%s -> %s: %w", n.name, d.name, err)
		}
	}
	return nil
}

func (s *Store) trace(n *node) {
	if n.quiet {
		return
	}
	s.log.Debug().Str("field", n.name).Int("depth", s.depth).Msg("changed")
}
