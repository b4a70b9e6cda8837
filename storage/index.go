package storage

import (
	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

type IndexKind string

const (
	HashIndexKind  IndexKind = "hash"
	BTreeIndexKind IndexKind = "btree"
)

func ParseIndexKind(s string) (IndexKind, bool) {
	switch IndexKind(s) {
	case HashIndexKind, "":
		return HashIndexKind, true
	case BTreeIndexKind:
		return BTreeIndexKind, true
	default:
		return "", false
	}
}

// Index maps column values to the rows holding them.
type Index interface {
	Table() string
	Name() string
	Kind() IndexKind
	Insert(key types.Value, rid tuple.RID) error
	// Delete reports whether the entry was present.
	Delete(key types.Value, rid tuple.RID) bool
	Search(key types.Value) []tuple.RID
	Ascend(fn func(key types.Value, rid tuple.RID) bool)
}

func NewIndex(kind IndexKind, tableName string, indexName string) (Index, error) {
	switch kind {
	case HashIndexKind:
		return NewHashIndex(tableName, indexName), nil
	case BTreeIndexKind:
		return NewBTree(tableName, indexName), nil
	default:
		return nil, errors.Newf("unknown index kind: %s", kind)
	}
}

// IndexCursor reads heap rows in the order an index hands out their RIDs.
// With a key it only visits matching rows, without one it walks the whole
// index.
type IndexCursor struct {
	heap   *HeapFile
	index  Index
	key    *types.Value
	handle *Handle

	rids []tuple.RID
	pos  int
}

func OpenKeyCursor(heap *HeapFile, index Index, key types.Value) (*IndexCursor, error) {
	return openIndexCursor(heap, index, &key)
}

func OpenIndexCursor(heap *HeapFile, index Index) (*IndexCursor, error) {
	return openIndexCursor(heap, index, nil)
}

func openIndexCursor(heap *HeapFile, index Index, key *types.Value) (*IndexCursor, error) {
	if index.Table() != heap.TableName() {
		return nil, errors.Newf("index %s belongs to %s, not %s", index.Name(), index.Table(), heap.TableName())
	}
	handle, err := heap.storage.acquire(heap.TableName())
	if err != nil {
		return nil, err
	}
	c := &IndexCursor{
		heap:   heap,
		index:  index,
		key:    key,
		handle: handle,
	}
	c.load()
	return c, nil
}

func (c *IndexCursor) load() {
	c.pos = 0
	if c.key != nil {
		c.rids = c.index.Search(*c.key)
		return
	}
	c.rids = make([]tuple.RID, 0)
	c.index.Ascend(func(_ types.Value, rid tuple.RID) bool {
		c.rids = append(c.rids, rid)
		return true
	})
}

func (c *IndexCursor) HasNext() (bool, error) {
	if c.handle.GetState() == RELEASED {
		return false, nil
	}
	return c.pos < len(c.rids), nil
}

func (c *IndexCursor) Next() (*tuple.Tuple, error) {
	ok, err := c.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(common.ErrExhausted, "index %s", c.index.Name())
	}
	rid := c.rids[c.pos]
	c.pos++
	return c.heap.GetTuple(rid)
}

func (c *IndexCursor) Restart() error {
	if c.handle.GetState() == RELEASED {
		return errors.Newf("restart of closed cursor on %s", c.index.Name())
	}
	c.load()
	return nil
}

func (c *IndexCursor) Close() error {
	c.handle.Release()
	c.rids = nil
	return nil
}
