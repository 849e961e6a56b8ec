package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueStrings(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]string
		want  []string
	}{
		{name: "no lists", lists: nil, want: []string{}},
		{name: "empty lists", lists: [][]string{{}, {}}, want: []string{}},
		{name: "duplicates in one list", lists: [][]string{{"a", "b", "a"}}, want: []string{"a", "b"}},
		{name: "overlapping lists", lists: [][]string{{"a", "b"}, {"b", "c"}, {"c", "a", "d"}}, want: []string{"a", "b", "c", "d"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UniqueStrings(tc.lists...))
		})
	}
}

func TestWithout(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Without([]string{"a", "b", "c", "b"}, "b"))
	assert.Equal(t, []string{"a"}, Without([]string{"a"}, "z"))
	assert.Equal(t, []string{}, Without(nil, "z"))
}

func TestSet(t *testing.T) {
	s := NewSet("a", "b", "a")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))

	s.Remove("a", "z")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())

	s.Add("c")
	assert.True(t, s.Has("c"))
	assert.True(t, Contains([]string{"x", "c"}, "c"))
	assert.False(t, Contains(nil, "c"))
}

func TestCleanStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanStrings([]string{" A ", "", "  ", "b"}, true))
}
