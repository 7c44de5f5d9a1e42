package shard

import (
	"context"

	"go.uber.org/atomic"
)

// mockEngine counts engine calls and can be made to fail or block.
type mockEngine struct {
	openShards  atomic.Int64
	closeShards atomic.Int64
	creates     atomic.Int64
	drops       atomic.Int64
	tableOpens  atomic.Int64
	tableCloses atomic.Int64

	openShardErr  error
	closeShardErr error
	createErr     error
	dropErr       error

	// When set, OpenShard closes openStarted on entry and then waits for
	// openBlock to be closed before returning.
	openStarted chan struct{}
	openBlock   chan struct{}
}

func newMockEngine() *mockEngine {
	return &mockEngine{}
}

func (e *mockEngine) OpenShard(ctx context.Context, _ ShardInfo, _ []TableInfo) error {
	e.openShards.Inc()
	if e.openStarted != nil {
		close(e.openStarted)
		select {
		case <-e.openBlock:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return e.openShardErr
}

func (e *mockEngine) CloseShard(_ context.Context, _ ShardInfo, _ []TableInfo) error {
	e.closeShards.Inc()
	return e.closeShardErr
}

func (e *mockEngine) CreateTable(_ context.Context, _ ShardInfo, _ TableInfo) error {
	e.creates.Inc()
	return e.createErr
}

func (e *mockEngine) DropTable(_ context.Context, _ ShardInfo, _ TableInfo) error {
	e.drops.Inc()
	return e.dropErr
}

func (e *mockEngine) OpenTable(_ context.Context, _ ShardInfo, _ TableInfo) error {
	e.tableOpens.Inc()
	return nil
}

func (e *mockEngine) CloseTable(_ context.Context, _ ShardInfo, _ TableInfo) error {
	e.tableCloses.Inc()
	return nil
}
