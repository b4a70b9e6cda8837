package storage

import (
	"tsumikidb/tuple"
	"tsumikidb/types"
)

// IndexItem is one (key, rid) entry of a secondary index. Deleted entries are
// kept as tombstones in the B-tree and skipped by lookups.
type IndexItem struct {
	Key    types.Value
	RID    tuple.RID
	Delete bool
}

func compareKeys(l, r types.Value) int {
	c, err := l.Compare(r)
	if err != nil {
		// keys of one index share a type, this only orders corrupt input
		return int(l.ValueType()) - int(r.ValueType())
	}
	return c
}

func compareRIDs(l, r tuple.RID) int {
	switch {
	case l.PageId != r.PageId:
		if l.PageId < r.PageId {
			return -1
		}
		return 1
	case l.Slot != r.Slot:
		if l.Slot < r.Slot {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (s IndexItem) compare(itm IndexItem) int {
	if c := compareKeys(s.Key, itm.Key); c != 0 {
		return c
	}
	return compareRIDs(s.RID, itm.RID)
}

func (s IndexItem) Less(itm IndexItem) bool {
	return s.compare(itm) < 0
}

func (s IndexItem) Equal(itm IndexItem) bool {
	return s.compare(itm) == 0
}

func (s IndexItem) IsSkip() bool {
	return s.Delete
}
