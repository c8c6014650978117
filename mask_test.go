package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskMarkUnmarkHas(t *testing.T) {
	var m Mask
	assert.True(t, m.IsEmpty())

	m.Mark(3)
	m.Mark(70) // second word, exercises maskWords > 1
	assert.True(t, m.Has(3))
	assert.True(t, m.Has(70))
	assert.False(t, m.Has(4))
	assert.False(t, m.IsEmpty())

	m.Unmark(3)
	assert.False(t, m.Has(3))
	assert.True(t, m.Has(70))
}

func TestMaskContainsAll(t *testing.T) {
	var m Mask
	m.Mark(1)
	m.Mark(2)
	m.Mark(3)

	var sub Mask
	sub.Mark(1)
	sub.Mark(3)
	assert.True(t, m.ContainsAll(sub))

	var notSub Mask
	notSub.Mark(1)
	notSub.Mark(9)
	assert.False(t, m.ContainsAll(notSub))
}

func TestMaskContainsAnyNone(t *testing.T) {
	var a Mask
	a.Mark(1)
	var b Mask
	b.Mark(1)
	b.Mark(2)
	assert.True(t, a.ContainsAny(b))
	assert.False(t, a.ContainsNone(b))

	var c Mask
	c.Mark(5)
	assert.False(t, a.ContainsAny(c))
	assert.True(t, a.ContainsNone(c))
}

func TestMaskWithWithoutLeaveOriginalUnmodified(t *testing.T) {
	var m Mask
	m.Mark(2)

	withThree := m.With(3)
	assert.True(t, withThree.Has(2))
	assert.True(t, withThree.Has(3))
	assert.False(t, m.Has(3), "With must not mutate the receiver")

	withoutTwo := withThree.Without(2)
	assert.False(t, withoutTwo.Has(2))
	assert.True(t, withThree.Has(2), "Without must not mutate the receiver")
}

func TestMaskHashStableAndOrderIndependent(t *testing.T) {
	var a, b Mask
	a.Mark(5)
	a.Mark(40)
	a.Mark(100)

	b.Mark(100)
	b.Mark(5)
	b.Mark(40)

	assert.Equal(t, a.hash(), b.hash(), "hash must not depend on mark order")
	assert.Equal(t, a, b)

	var c Mask
	c.Mark(5)
	c.Mark(40)
	assert.NotEqual(t, a.hash(), c.hash())
}
