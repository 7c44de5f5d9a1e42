package shard

import "fmt"

// ShardID identifies a shard on a node.
type ShardID uint32

// TableID identifies a table within the cluster.
type TableID uint64

// ShardVersion is the committed table-membership generation of a shard. It
// only moves forward, and only on structural changes (create/drop table);
// opening or closing an already-known table leaves it untouched. Callers use
// it as an optimistic-concurrency token, see UpdatedTableInfo.
type ShardVersion uint64

// ShardStatus is the lifecycle state of a shard on this node.
type ShardStatus int

const (
	// StatusNotOpened is the initial state of a newly assigned shard.
	StatusNotOpened ShardStatus = iota
	// StatusOpening means an open attempt has started. A failed open leaves
	// the shard here so a later attempt can retry.
	StatusOpening
	// StatusReady means the shard is open and serving.
	StatusReady
	// StatusFrozen rejects all further table-membership changes. Terminal,
	// typically set while the shard is being closed for reassignment.
	StatusFrozen
)

func (s ShardStatus) String() string {
	switch s {
	case StatusNotOpened:
		return "not_opened"
	case StatusOpening:
		return "opening"
	case StatusReady:
		return "ready"
	case StatusFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ShardInfo is a point-in-time view of a shard's identity and progress.
type ShardInfo struct {
	ID      ShardID
	Version ShardVersion
	Status  ShardStatus
}

// IsOpened reports whether the shard is serving.
func (i ShardInfo) IsOpened() bool {
	return i.Status == StatusReady
}

// TableInfo describes a table known to a shard. It is opaque to this package
// beyond its identity fields; the storage engine owns everything else.
type TableInfo struct {
	ID         TableID
	SchemaName string
	Name       string
}

// TablesOfShard is the assignment descriptor a shard is created from: the
// shard's identity plus the tables it owns.
type TablesOfShard struct {
	ShardInfo ShardInfo
	Tables    []TableInfo
}

// UpdatedTableInfo is the payload of a table-membership request. ShardInfo is
// the caller's believed view of the shard; its Version acts as the
// compare-and-swap token and a stale one fails with ErrVersionMismatch.
type UpdatedTableInfo struct {
	ShardInfo ShardInfo
	TableInfo TableInfo
}
