package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	s := New[string]()

	assert.Empty(t, s.Items())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())

	s.Begin()
	assert.True(t, s.Loading())
	assert.Empty(t, s.Err())

	s.Commit([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, s.Items())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestFailKeepsCollection(t *testing.T) {
	s := New[string]()
	s.Commit([]string{"a"})

	s.Begin()
	s.Fail("boom")

	assert.Equal(t, []string{"a"}, s.Items())
	assert.Equal(t, "boom", s.Err())
	assert.False(t, s.Loading())
}

func TestBeginClearsPreviousError(t *testing.T) {
	s := New[int]()
	s.Fail("boom")
	s.Begin()
	assert.Empty(t, s.Err())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New[int]()
	s.Commit([]int{1, 2, 3})

	snap := s.Items()
	snap[0] = 99
	assert.Equal(t, []int{1, 2, 3}, s.Items())
}

func TestSubscribeAndCancel(t *testing.T) {
	s := New[int]()

	var calls int
	cancel := s.Subscribe(func() { calls++ })

	s.Begin()
	s.Commit(nil)
	assert.Equal(t, 2, calls)

	cancel()
	s.Fail("ignored")
	assert.Equal(t, 2, calls)
}

func TestSubscriberSeesCommittedState(t *testing.T) {
	s := New[int]()

	var seen []int
	s.Subscribe(func() { seen = s.Items() })
	s.Commit([]int{7})

	assert.Equal(t, []int{7}, seen)
}
