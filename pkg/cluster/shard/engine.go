package shard

import "context"

// TableEngine is the boundary to the storage engine that does the actual
// (possibly slow) work behind shard and table lifecycle calls. Calls for one
// shard are serialized by the shard's operator lock; implementations must
// tolerate being invoked with a snapshot of the shard's metadata taken just
// before the call.
type TableEngine interface {
	// OpenShard opens the given tables of the shard for serving.
	OpenShard(ctx context.Context, info ShardInfo, tables []TableInfo) error
	// CloseShard shuts down the given tables of the shard.
	CloseShard(ctx context.Context, info ShardInfo, tables []TableInfo) error
	// CreateTable creates the table on the shard.
	CreateTable(ctx context.Context, info ShardInfo, table TableInfo) error
	// DropTable drops the table from the shard.
	DropTable(ctx context.Context, info ShardInfo, table TableInfo) error
	// OpenTable opens an already-known table on the shard.
	OpenTable(ctx context.Context, info ShardInfo, table TableInfo) error
	// CloseTable shuts down a table on the shard.
	CloseTable(ctx context.Context, info ShardInfo, table TableInfo) error
}
