package shard

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// Shard coordinates all lifecycle operations on one shard. Mutating
// operations are serialized through the operator lock, so at most one of
// them is in flight per shard; metadata reads (Info, FindTable, IsOpened)
// never wait behind engine I/O.
//
// The operator lock has two acquisition policies, visible at the call sites:
// Open uses TryAcquire and fails fast with ErrShardBusy, because opens are
// driven by a reconciliation loop that will simply retry; every other
// mutating call must not be silently dropped and therefore queues with
// Acquire, honoring caller cancellation.
type Shard struct {
	data     *ShardData
	operator *shardOperator

	// opLock serializes the operator's long-latency work. Capacity 1.
	opLock *semaphore.Weighted

	logger  log.Logger
	metrics *Metrics
}

// NewShard creates a shard from an assignment descriptor. The engine is the
// external storage collaborator invoked behind the operator lock.
func NewShard(tablesOfShard TablesOfShard, engine TableEngine, logger log.Logger, metrics *Metrics) *Shard {
	data := NewShardData(tablesOfShard)
	logger = log.With(logger, "component", "cluster.Shard", "shard", tablesOfShard.ShardInfo.ID)
	return &Shard{
		data: data,
		operator: &shardOperator{
			data:   data,
			engine: engine,
			logger: logger,
		},
		opLock:  semaphore.NewWeighted(1),
		logger:  logger,
		metrics: metrics,
	}
}

// Info returns a snapshot of the shard's identity, version and status.
func (s *Shard) Info() ShardInfo {
	return s.data.Info()
}

// FindTable returns the first table matching the given schema and table name.
func (s *Shard) FindTable(schemaName, tableName string) (TableInfo, bool) {
	return s.data.FindTable(schemaName, tableName)
}

// IsOpened reports whether the shard is serving.
func (s *Shard) IsOpened() bool {
	return s.data.IsOpened()
}

// Freeze marks the shard read-only for table-membership changes.
func (s *Shard) Freeze() {
	s.data.Freeze()
}

// Open brings the shard to Ready. It never waits: if any other operation is
// in flight it fails immediately with ErrShardBusy, and the caller is
// expected to retry on its next reconciliation pass. If the engine open
// fails, the shard stays in Opening so a later attempt can retry without an
// explicit rollback.
func (s *Shard) Open(ctx context.Context) (err error) {
	defer func(start time.Time) { s.metrics.observe("open_shard", start, err) }(time.Now())

	if !s.opLock.TryAcquire(1) {
		level.Debug(s.logger).Log("msg", "open rejected, another operation in flight")
		return errors.WithStack(ErrShardBusy)
	}
	defer s.opLock.Release(1)

	if err := s.data.TryBeginOpen(); err != nil {
		return err
	}

	// The metadata lock is not held here, readers proceed while the engine
	// does its work.
	if err := s.operator.open(ctx); err != nil {
		return err
	}

	s.data.FinishOpen()
	return nil
}

// Close shuts the shard down, freezing it first. Unlike Open it queues
// behind any in-flight operation.
func (s *Shard) Close(ctx context.Context) (err error) {
	defer func(start time.Time) { s.metrics.observe("close_shard", start, err) }(time.Now())

	if err := s.opLock.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "acquire operator lock")
	}
	defer s.opLock.Release(1)

	return s.operator.close(ctx)
}

// CreateTable adds a new table to the shard and returns the incremented
// shard version.
func (s *Shard) CreateTable(ctx context.Context, updated UpdatedTableInfo) (version ShardVersion, err error) {
	defer func(start time.Time) { s.metrics.observe("create_table", start, err) }(time.Now())

	if err := s.opLock.Acquire(ctx, 1); err != nil {
		return 0, errors.Wrap(err, "acquire operator lock")
	}
	defer s.opLock.Release(1)

	return s.operator.createTable(ctx, updated)
}

// DropTable removes a table from the shard and returns the incremented shard
// version.
func (s *Shard) DropTable(ctx context.Context, updated UpdatedTableInfo) (version ShardVersion, err error) {
	defer func(start time.Time) { s.metrics.observe("drop_table", start, err) }(time.Now())

	if err := s.opLock.Acquire(ctx, 1); err != nil {
		return 0, errors.Wrap(err, "acquire operator lock")
	}
	defer s.opLock.Release(1)

	return s.operator.dropTable(ctx, updated)
}

// OpenTable opens an already-known table on the shard. The shard version is
// unchanged.
func (s *Shard) OpenTable(ctx context.Context, updated UpdatedTableInfo) (err error) {
	defer func(start time.Time) { s.metrics.observe("open_table", start, err) }(time.Now())

	if err := s.opLock.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "acquire operator lock")
	}
	defer s.opLock.Release(1)

	return s.operator.openTable(ctx, updated)
}

// CloseTable shuts down a table on the shard. The shard version is unchanged.
func (s *Shard) CloseTable(ctx context.Context, updated UpdatedTableInfo) (err error) {
	defer func(start time.Time) { s.metrics.observe("close_table", start, err) }(time.Now())

	if err := s.opLock.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "acquire operator lock")
	}
	defer s.opLock.Release(1)

	return s.operator.closeTable(ctx, updated)
}
