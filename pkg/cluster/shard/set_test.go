package shard

import (
	"sync"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestShardSet(t *testing.T) {
	set := NewShardSet(prometheus.NewRegistry())
	engine := newMockEngine()

	h1 := newTestShard(engine)
	h2 := newTestShard(engine)
	h3 := newTestShard(engine)

	require.Nil(t, set.Insert(1, h1))
	got, ok := set.Get(1)
	require.True(t, ok)
	require.Same(t, h1, got)

	require.Same(t, h1, set.Remove(1))
	_, ok = set.Get(1)
	require.False(t, ok)
	require.Nil(t, set.Remove(1))

	require.Nil(t, set.Insert(1, h2))
	require.Same(t, h2, set.Insert(1, h3))
	got, ok = set.Get(1)
	require.True(t, ok)
	require.Same(t, h3, got)
}

func TestShardSet_All(t *testing.T) {
	set := NewShardSet(prometheus.NewRegistry())
	engine := newMockEngine()

	require.Empty(t, set.All())

	// All includes shards that were never opened.
	shards := make([]*Shard, 0, 4)
	for id := ShardID(1); id <= 4; id++ {
		s := NewShard(TablesOfShard{ShardInfo: ShardInfo{ID: id}}, engine, log.NewNopLogger(), NewMetrics(prometheus.NewRegistry()))
		set.Insert(id, s)
		shards = append(shards, s)
	}
	require.ElementsMatch(t, shards, set.All())
}

func TestShardSet_ConcurrentAccess(t *testing.T) {
	set := NewShardSet(prometheus.NewRegistry())
	engine := newMockEngine()

	var wg sync.WaitGroup
	for id := ShardID(0); id < 16; id++ {
		wg.Add(1)
		go func(id ShardID) {
			defer wg.Done()
			s := NewShard(TablesOfShard{ShardInfo: ShardInfo{ID: id}}, engine, log.NewNopLogger(), NewMetrics(prometheus.NewRegistry()))
			set.Insert(id, s)
			_, ok := set.Get(id)
			require.True(t, ok)
			set.All()
		}(id)
	}
	wg.Wait()
	require.Len(t, set.All(), 16)
}
