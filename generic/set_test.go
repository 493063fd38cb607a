package generic

import (
	"sort"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	assert := assert_.New(t)
	s := NewSet[string]()

	assert.True(s.Add("a"))
	assert.False(s.Add("a"), "adding a duplicate should report no change")
	assert.True(s.Add("b"))
	assert.Equal(2, s.Count())
	assert.True(s.Contains("a", "b"))
	assert.False(s.Contains("c"))

	assert.True(s.Remove("a"))
	assert.False(s.Remove("a"))
	assert.Equal(1, s.Count())

	s.Clear()
	assert.Equal(0, s.Count())
}

func TestSetToSlice(t *testing.T) {
	assert := assert_.New(t)
	s := NewSet(3, 1, 2)
	items := s.ToSlice()
	sort.Ints(items)
	assert.Equal([]int{1, 2, 3}, items)
}

func TestOptionMerge(t *testing.T) {
	assert := assert_.New(t)
	var o Option[int]
	assert.True(o.IsNone())
	assert.Equal(7, o.UnwrapOr(7))
	o = Some(42)
	assert.True(o.IsSome())
	assert.Equal(42, o.Unwrap())
	assert.Equal(0, None[int]().UnwrapOrDefault())
}
