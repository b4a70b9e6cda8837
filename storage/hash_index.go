package storage

import (
	"encoding/json"

	"github.com/sasha-s/go-deadlock"
	"github.com/spaolacci/murmur3"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

const HashIndexBucketNum = 64

// HashIndex is an equality-only index. Ascend visits entries bucket by
// bucket, so its order is not the key order.
type HashIndex struct {
	TableName string
	IndexName string
	Buckets   []Items
	Mutex     deadlock.RWMutex `json:"-"`
}

func NewHashIndex(tableName string, indexName string) *HashIndex {
	return &HashIndex{
		TableName: tableName,
		IndexName: indexName,
		Buckets:   make([]Items, HashIndexBucketNum),
	}
}

func DeserializeHashIndex(data []byte) (*HashIndex, error) {
	h := &HashIndex{}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, err
	}
	if len(h.Buckets) == 0 {
		h.Buckets = make([]Items, HashIndexBucketNum)
	}
	return h, nil
}

func (h *HashIndex) bucket(key types.Value) int {
	return int(murmur3.Sum32(key.Serialize()) % uint32(len(h.Buckets)))
}

func (h *HashIndex) Table() string { return h.TableName }

func (h *HashIndex) Name() string { return h.IndexName }

func (h *HashIndex) Kind() IndexKind { return HashIndexKind }

func (h *HashIndex) Insert(key types.Value, rid tuple.RID) error {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	itm := IndexItem{Key: key, RID: rid}
	b := h.bucket(key)
	for _, existing := range h.Buckets[b] {
		if existing.Equal(itm) {
			return ItemAlreadyExistsError
		}
	}
	h.Buckets[b] = append(h.Buckets[b], itm)
	return nil
}

func (h *HashIndex) Delete(key types.Value, rid tuple.RID) bool {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	itm := IndexItem{Key: key, RID: rid}
	b := h.bucket(key)
	for i, existing := range h.Buckets[b] {
		if existing.Equal(itm) {
			h.Buckets[b] = append(h.Buckets[b][:i], h.Buckets[b][i+1:]...)
			return true
		}
	}
	return false
}

func (h *HashIndex) Search(key types.Value) []tuple.RID {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	rids := make([]tuple.RID, 0)
	for _, itm := range h.Buckets[h.bucket(key)] {
		if compareKeys(itm.Key, key) == 0 {
			rids = append(rids, itm.RID)
		}
	}
	return rids
}

func (h *HashIndex) Ascend(fn func(key types.Value, rid tuple.RID) bool) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, bucket := range h.Buckets {
		for _, itm := range bucket {
			if !fn(itm.Key, itm.RID) {
				return
			}
		}
	}
}
