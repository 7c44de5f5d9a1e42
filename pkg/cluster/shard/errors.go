package shard

import (
	"errors"
	"fmt"
)

// Sentinels for the failure kinds of this package, useful for comparing
// errors returned by shard operations, e.g. errors.Is(err, ErrShardBusy).
var (
	// ErrShardBusy is returned by Open when another operation holds the
	// shard's operator lock. Open never queues; retry later.
	ErrShardBusy = errors.New("shard has another operation in flight")
	// ErrShardAlreadyOpened is returned by Open when the shard does not need
	// opening. No state is changed.
	ErrShardAlreadyOpened = errors.New("shard is already opened")
	// ErrShardFrozen rejects any mutation on a frozen shard.
	ErrShardFrozen = errors.New("shard is frozen for updates")
	// ErrVersionMismatch rejects a table mutation carrying a stale version
	// token. Callers should refresh via Shard.Info and retry.
	ErrVersionMismatch = errors.New("shard version mismatch")
	// ErrTableAlreadyExists rejects inserting a table id already on the shard.
	ErrTableAlreadyExists = errors.New("table already exists on shard")
	// ErrTableNotFound rejects removing a table id absent from the shard.
	ErrTableNotFound = errors.New("table not found on shard")
)

// FrozenShardError reports a mutation attempted on a frozen shard.
type FrozenShardError struct {
	ShardID ShardID
}

func (e FrozenShardError) Error() string {
	return fmt.Sprintf("shard %d is frozen for updates", e.ShardID)
}

// Is allows errors.Is(err, ErrShardFrozen) on this error.
func (e FrozenShardError) Is(target error) bool {
	return target == ErrShardFrozen
}

// VersionMismatchError reports a stale version token. ShardInfo is the
// shard's current view, so the caller can refresh and retry.
type VersionMismatchError struct {
	ShardInfo     ShardInfo
	ExpectVersion ShardVersion
}

func (e VersionMismatchError) Error() string {
	return fmt.Sprintf(
		"shard %d version mismatch, current version: %d, current status: %s, expect version: %d",
		e.ShardInfo.ID, e.ShardInfo.Version, e.ShardInfo.Status, e.ExpectVersion,
	)
}

// Is allows errors.Is(err, ErrVersionMismatch) on this error.
func (e VersionMismatchError) Is(target error) bool {
	return target == ErrVersionMismatch
}
