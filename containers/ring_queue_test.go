package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue(3)
	assert.True(t, rq.IsEmpty())
	assert.Equal(t, 0, rq.Len())

	require.NoError(t, rq.Enqueue(1))
	require.NoError(t, rq.Enqueue(2))
	require.NoError(t, rq.Enqueue(3))
	assert.True(t, rq.IsFull())
	assert.Error(t, rq.Enqueue(4))

	front, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, front)

	for want := 1; want <= 3; want++ {
		v, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	assert.True(t, rq.IsEmpty())

	_, err = rq.Dequeue()
	assert.Error(t, err)
}

func TestRingQueueWraps(t *testing.T) {
	rq := NewRingQueue(2)
	require.NoError(t, rq.Enqueue("a"))
	require.NoError(t, rq.Enqueue("b"))

	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	require.NoError(t, rq.Enqueue("c"))
	assert.Equal(t, 2, rq.Len())

	v, _ = rq.Dequeue()
	assert.Equal(t, "b", v)
	v, _ = rq.Dequeue()
	assert.Equal(t, "c", v)
}
