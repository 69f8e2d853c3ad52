package flush

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv/internal/memcache"
)

type countingSink struct {
	n int32
}

func (s *countingSink) Notify() {
	atomic.AddInt32(&s.n, 1)
}

func TestQueueEnqueueWakesSink(t *testing.T) {
	q := NewQueue()
	sink := &countingSink{}
	q.SetSink(sink)

	q.Enqueue(&Req{Mems: []MemRef{{TfID: 1, Cache: memcache.New(1, 1024, false)}}})
	q.Enqueue(&Req{Mems: []MemRef{{TfID: 1, Cache: memcache.New(1, 1024, true)}}})

	require.Equal(t, int32(2), atomic.LoadInt32(&sink.n))
	require.Equal(t, 2, q.Len())
}

func TestQueueDrainEmptiesQueue(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&Req{})
	q.Enqueue(&Req{})

	got := q.Drain()
	require.Len(t, got, 2)
	require.Equal(t, 0, q.Len())
}

func TestQueueEnqueueWithoutSinkDoesNotPanic(t *testing.T) {
	q := NewQueue()
	require.NotPanics(t, func() {
		q.Enqueue(&Req{})
	})
}
