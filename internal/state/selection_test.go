package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectorSet(t *testing.T) {
	s := NewSectorSet("Tech", "Health", "Tech")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"Tech", "Health"}, s.Names())
	assert.Equal(t, 1, s.Index("Health"))

	s2 := s.Without("Tech").With("Energy").With("Tech")
	assert.Equal(t, []string{"Health", "Energy", "Tech"}, s2.Names())
	// s is unchanged.
	assert.Equal(t, []string{"Tech", "Health"}, s.Names())

	assert.Equal(t, []string{"Energy"}, s2.Diff(s))
	assert.Empty(t, s.Diff(s2))

	assert.False(t, s.Toggle("Health").Has("Health"))
	assert.True(t, s.Toggle("Utilities").Has("Utilities"))

	var empty SectorSet
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []string{"Tech"}, NewSectorSet("Tech").Diff(empty))
}
