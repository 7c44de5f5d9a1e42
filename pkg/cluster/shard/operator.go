package shard

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// shardOperator performs the engine-facing part of shard and table lifecycle
// calls. Its methods may block on long-latency I/O; they run only while the
// owning shard's operator lock is held, so at most one of them is in flight
// per shard and none of them holds the metadata lock across engine calls.
type shardOperator struct {
	data   *ShardData
	engine TableEngine
	logger log.Logger
}

func (o *shardOperator) open(ctx context.Context) error {
	info, tables := o.data.Snapshot()
	level.Info(o.logger).Log("msg", "opening shard", "tables", len(tables))

	start := time.Now()
	if err := o.engine.OpenShard(ctx, info, tables); err != nil {
		return errors.Wrapf(err, "open shard %d", info.ID)
	}

	level.Info(o.logger).Log("msg", "opened shard", "tables", len(tables), "duration", time.Since(start))
	return nil
}

func (o *shardOperator) close(ctx context.Context) error {
	// Freeze before shutting tables down so no membership change lands on a
	// shard that is going away.
	o.data.Freeze()

	info, tables := o.data.Snapshot()
	level.Info(o.logger).Log("msg", "closing shard", "tables", len(tables))

	if err := o.engine.CloseShard(ctx, info, tables); err != nil {
		return errors.Wrapf(err, "close shard %d", info.ID)
	}

	level.Info(o.logger).Log("msg", "closed shard")
	return nil
}

func (o *shardOperator) createTable(ctx context.Context, updated UpdatedTableInfo) (ShardVersion, error) {
	table := updated.TableInfo
	level.Info(o.logger).Log("msg", "creating table", "schema", table.SchemaName, "table", table.Name)

	if err := o.engine.CreateTable(ctx, updated.ShardInfo, table); err != nil {
		return 0, errors.Wrapf(err, "create table %s.%s", table.SchemaName, table.Name)
	}
	return o.data.TryCreateTable(updated)
}

func (o *shardOperator) dropTable(ctx context.Context, updated UpdatedTableInfo) (ShardVersion, error) {
	table := updated.TableInfo
	level.Info(o.logger).Log("msg", "dropping table", "schema", table.SchemaName, "table", table.Name)

	if err := o.engine.DropTable(ctx, updated.ShardInfo, table); err != nil {
		return 0, errors.Wrapf(err, "drop table %s.%s", table.SchemaName, table.Name)
	}
	return o.data.TryDropTable(updated)
}

func (o *shardOperator) openTable(ctx context.Context, updated UpdatedTableInfo) error {
	table := updated.TableInfo
	if err := o.engine.OpenTable(ctx, updated.ShardInfo, table); err != nil {
		return errors.Wrapf(err, "open table %s.%s", table.SchemaName, table.Name)
	}
	return o.data.TryOpenTable(updated)
}

func (o *shardOperator) closeTable(ctx context.Context, updated UpdatedTableInfo) error {
	table := updated.TableInfo
	if err := o.engine.CloseTable(ctx, updated.ShardInfo, table); err != nil {
		return errors.Wrapf(err, "close table %s.%s", table.SchemaName, table.Name)
	}
	return o.data.TryCloseTable(updated)
}
