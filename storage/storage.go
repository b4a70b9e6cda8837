package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
	"tsumikidb/common"
	"tsumikidb/tuple"
)

type Storage struct {
	diskManager    DiskManager
	lockManager    *LockManager
	logger         *zap.Logger
	maxOpenHandles int

	mutex        deadlock.Mutex
	handles      map[HandleId]*Handle
	nextHandleId HandleId
}

func NewStorage(diskManager DiskManager, maxOpenHandles int, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{
		diskManager:    diskManager,
		lockManager:    NewLockManager(),
		logger:         logger,
		maxOpenHandles: maxOpenHandles,
		handles:        make(map[HandleId]*Handle),
	}
}

func (st *Storage) newHandleId() HandleId {
	st.nextHandleId++
	return st.nextHandleId
}

// acquire registers a new cursor handle on tableName and takes a shared lock
// for it.
func (st *Storage) acquire(tableName string) (*Handle, error) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if len(st.handles) >= st.maxOpenHandles {
		return nil, errors.Wrapf(common.ErrHandleExhausted, "limit %d reached opening %s", st.maxOpenHandles, tableName)
	}

	h := &Handle{
		id:        st.newHandleId(),
		state:     ACTIVE,
		tableName: tableName,
		storage:   st,
	}
	if !st.lockManager.LockShared(h.id, tableName) {
		return nil, errors.Wrapf(common.ErrLockConflict, "table %s is being written", tableName)
	}
	st.handles[h.id] = h

	st.logger.Debug("handle opened", zap.Int32("handle", int32(h.id)), zap.String("table", tableName))
	return h, nil
}

func (st *Storage) release(h *Handle) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	st.lockManager.UnlockShared(h.id, h.tableName)
	delete(st.handles, h.id)

	st.logger.Debug("handle closed", zap.Int32("handle", int32(h.id)), zap.String("table", h.tableName))
}

// OpenHandles reports how many cursors are currently open.
func (st *Storage) OpenHandles() int {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	return len(st.handles)
}

// WithExclusive runs fn while holding the exclusive lock on tableName. It
// fails with ErrLockConflict when any cursor still has the table open.
func (st *Storage) WithExclusive(tableName string, fn func() error) error {
	st.mutex.Lock()
	owner := st.newHandleId()
	st.mutex.Unlock()

	if !st.lockManager.LockExclusive(owner, tableName) {
		return errors.Wrapf(common.ErrLockConflict, "table %s has open cursors", tableName)
	}
	defer st.lockManager.UnlockExclusive(owner, tableName)

	return fn()
}

func (st *Storage) OpenHeapFile(tableName string, schema *tuple.Schema) *HeapFile {
	return &HeapFile{
		storage:   st,
		tableName: tableName,
		schema:    schema,
	}
}

func makeIndexFilePath(tableName string, indexName string) string {
	return fmt.Sprintf("%s/%s.json", tableName, indexName)
}

func (st *Storage) ReadIndex(tableName string, indexName string, kind IndexKind) (Index, error) {
	b, err := st.diskManager.ReadFile(makeIndexFilePath(tableName, indexName))
	if err != nil {
		return nil, errors.Wrapf(err, "read index %s", indexName)
	}

	switch kind {
	case BTreeIndexKind:
		return DeserializeBTree(b)
	case HashIndexKind:
		return DeserializeHashIndex(b)
	default:
		return nil, errors.Newf("unknown index kind: %s", kind)
	}
}

func (st *Storage) WriteIndex(index Index) error {
	b, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return st.diskManager.WriteFile(makeIndexFilePath(index.Table(), index.Name()), b)
}

// DropIndex removes the persisted index file. A missing file is not an
// error, the index may never have been written.
func (st *Storage) DropIndex(tableName string, indexName string) error {
	err := st.diskManager.RemoveFile(makeIndexFilePath(tableName, indexName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "drop index %s", indexName)
	}
	return nil
}

func (st *Storage) ReadJson(path string, out interface{}) error {
	jsonStr, err := st.diskManager.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(jsonStr, out)
}

func (st *Storage) WriteJson(path string, in interface{}) error {
	jsonStr, err := json.Marshal(in)
	if err != nil {
		return err
	}

	return st.diskManager.WriteFile(path, jsonStr)
}

func (st *Storage) ShutDown() error {
	if n := st.OpenHandles(); n > 0 {
		st.logger.Warn("shutting down with open handles", zap.Int("handles", n))
	}
	return st.diskManager.ShutDown()
}
