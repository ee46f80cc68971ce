package state

// SectorSet is an immutable set of sector names that remembers insertion
// order. The order decides each sector's slot on the x axis.
type SectorSet struct {
	names []string
}

func NewSectorSet(names ...string) SectorSet {
	var s SectorSet
	for _, n := range names {
		s = s.With(n)
	}
	return s
}

func (s SectorSet) Len() int { return len(s.names) }

func (s SectorSet) Has(name string) bool { return s.Index(name) >= 0 }

// Index is name's insertion position, or -1.
func (s SectorSet) Index(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Names returns a copy of the members in insertion order.
func (s SectorSet) Names() []string {
	return append([]string(nil), s.names...)
}

// With returns s plus name, appended last. Adding a member is a no-op.
func (s SectorSet) With(name string) SectorSet {
	if s.Has(name) {
		return s
	}
	names := make([]string, len(s.names), len(s.names)+1)
	copy(names, s.names)
	return SectorSet{names: append(names, name)}
}

// Without returns s minus name.
func (s SectorSet) Without(name string) SectorSet {
	i := s.Index(name)
	if i < 0 {
		return s
	}
	names := make([]string, 0, len(s.names)-1)
	names = append(names, s.names[:i]...)
	names = append(names, s.names[i+1:]...)
	return SectorSet{names: names}
}

// Toggle adds name if absent and removes it otherwise.
func (s SectorSet) Toggle(name string) SectorSet {
	if s.Has(name) {
		return s.Without(name)
	}
	return s.With(name)
}

// Diff lists members of s that are not in prev, in s's order.
func (s SectorSet) Diff(prev SectorSet) []string {
	var out []string
	for _, n := range s.names {
		if !prev.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
