package shard

import (
	"fmt"
	"sync"
)

// ShardData is the mutable record of one shard: identity, version, status and
// the tables it currently owns. It is shared between a Shard and its
// operator so both observe one source of truth.
//
// The embedded lock is the metadata lock: critical sections are short and
// never perform I/O, so readers are never blocked behind slow engine work.
// Mutual exclusion among table mutations on one shard is additionally
// guaranteed by the shard's operator lock.
type ShardData struct {
	mtx    sync.RWMutex
	info   ShardInfo
	tables []TableInfo
}

// NewShardData creates the data record from an assignment descriptor.
func NewShardData(tablesOfShard TablesOfShard) *ShardData {
	return &ShardData{
		info:   tablesOfShard.ShardInfo,
		tables: tablesOfShard.Tables,
	}
}

// Info returns a snapshot of the shard's identity, version and status.
func (d *ShardData) Info() ShardInfo {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return d.info
}

// Snapshot returns the shard info together with a copy of the table list.
func (d *ShardData) Snapshot() (ShardInfo, []TableInfo) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	tables := make([]TableInfo, len(d.tables))
	copy(tables, d.tables)
	return d.info, tables
}

// FindTable returns the first table matching the given schema and table name.
func (d *ShardData) FindTable(schemaName, tableName string) (TableInfo, bool) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	for _, table := range d.tables {
		if table.SchemaName == schemaName && table.Name == tableName {
			return table, true
		}
	}
	return TableInfo{}, false
}

// IsOpened reports whether the shard is serving.
func (d *ShardData) IsOpened() bool {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return d.info.IsOpened()
}

// NeedOpen reports whether an open attempt is still required.
func (d *ShardData) NeedOpen() bool {
	return !d.IsOpened()
}

// TryBeginOpen moves the shard into Opening if it still needs an open. It
// fails with FrozenShardError on a frozen shard (frozen is terminal) and
// ErrShardAlreadyOpened when the shard is already serving.
func (d *ShardData) TryBeginOpen() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.info.Status == StatusFrozen {
		return FrozenShardError{ShardID: d.info.ID}
	}
	if d.info.IsOpened() {
		return ErrShardAlreadyOpened
	}
	d.info.Status = StatusOpening
	return nil
}

// FinishOpen moves the shard from Opening to Ready. Calling it in any other
// status is a bug in the caller discipline, not a legitimate external
// condition, and panics.
func (d *ShardData) FinishOpen() {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.info.Status != StatusOpening {
		panic(fmt.Sprintf("finish open of shard %d in status %s", d.info.ID, d.info.Status))
	}
	d.info.Status = StatusReady
}

// Freeze marks the shard read-only for table-membership changes. Terminal.
func (d *ShardData) Freeze() {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.info.Status = StatusFrozen
}

// TryCreateTable adds the table to the shard and increments its version.
func (d *ShardData) TryCreateTable(updated UpdatedTableInfo) (ShardVersion, error) {
	return d.tryInsertTable(updated, true)
}

// TryOpenTable adds an already-known table to the shard without changing its
// version.
func (d *ShardData) TryOpenTable(updated UpdatedTableInfo) error {
	_, err := d.tryInsertTable(updated, false)
	return err
}

// TryDropTable removes the table from the shard and increments its version.
func (d *ShardData) TryDropTable(updated UpdatedTableInfo) (ShardVersion, error) {
	return d.tryRemoveTable(updated, true)
}

// TryCloseTable removes the table from the shard without changing its
// version.
func (d *ShardData) TryCloseTable(updated UpdatedTableInfo) error {
	_, err := d.tryRemoveTable(updated, false)
	return err
}

// checkUpdatable expects the caller to hold the write lock.
func (d *ShardData) checkUpdatable(updated UpdatedTableInfo) error {
	if d.info.Status == StatusFrozen {
		return FrozenShardError{ShardID: updated.ShardInfo.ID}
	}
	if d.info.Version != updated.ShardInfo.Version {
		return VersionMismatchError{
			ShardInfo:     d.info,
			ExpectVersion: updated.ShardInfo.Version,
		}
	}
	return nil
}

func (d *ShardData) tryInsertTable(updated UpdatedTableInfo, incVersion bool) (ShardVersion, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if err := d.checkUpdatable(updated); err != nil {
		return 0, err
	}
	for _, table := range d.tables {
		if table.ID == updated.TableInfo.ID {
			return 0, fmt.Errorf("%w: table %d", ErrTableAlreadyExists, updated.TableInfo.ID)
		}
	}

	d.tables = append(d.tables, updated.TableInfo)
	if incVersion {
		d.info.Version++
	}
	return d.info.Version, nil
}

func (d *ShardData) tryRemoveTable(updated UpdatedTableInfo, incVersion bool) (ShardVersion, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if err := d.checkUpdatable(updated); err != nil {
		return 0, err
	}
	idx := -1
	for i, table := range d.tables {
		if table.ID == updated.TableInfo.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("%w: table %d", ErrTableNotFound, updated.TableInfo.ID)
	}

	// Table order carries no meaning, swap-remove is fine.
	d.tables[idx] = d.tables[len(d.tables)-1]
	d.tables = d.tables[:len(d.tables)-1]
	if incVersion {
		d.info.Version++
	}
	return d.info.Version, nil
}
