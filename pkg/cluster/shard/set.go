package shard

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ShardSet tracks every shard assigned to this node, including shards that
// have not been opened yet. It is safe for concurrent use; reads run
// concurrently and writes are brief pointer bookkeeping only.
//
// Removing a shard does not invalidate handles obtained earlier: in-flight
// operations on a removed shard complete normally.
type ShardSet struct {
	mtx    sync.RWMutex
	shards map[ShardID]*Shard
}

// NewShardSet creates an empty set and registers a gauge for its size.
func NewShardSet(reg prometheus.Registerer) *ShardSet {
	s := &ShardSet{
		shards: make(map[ShardID]*Shard),
	}
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "cluster_node_shards",
		Help:      "The current number of shards assigned to this node.",
	}, func() float64 {
		s.mtx.RLock()
		defer s.mtx.RUnlock()
		return float64(len(s.shards))
	})
	return s
}

// All returns a snapshot of every shard on the node, opened or not.
func (s *ShardSet) All() []*Shard {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	all := make([]*Shard, 0, len(s.shards))
	for _, shard := range s.shards {
		all = append(all, shard)
	}
	return all
}

// Get returns the shard with the given id, if present.
func (s *ShardSet) Get(id ShardID) (*Shard, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	shard, ok := s.shards[id]
	return shard, ok
}

// Insert adds the shard under the given id and returns the previous shard
// held there, or nil.
func (s *ShardSet) Insert(id ShardID, shard *Shard) *Shard {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	prev := s.shards[id]
	s.shards[id] = shard
	return prev
}

// Remove drops the shard with the given id and returns it, or nil if absent.
func (s *ShardSet) Remove(id ShardID) *Shard {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	removed := s.shards[id]
	delete(s.shards, id)
	return removed
}
