package storage

import (
	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

var TupleNotFoundError = errors.New("tuple not found")

// Cursor is the storage-side iteration contract shared by heap and index
// scans.
type Cursor interface {
	HasNext() (bool, error)
	Next() (*tuple.Tuple, error)
	Restart() error
	Close() error
}

type HeapFile struct {
	storage   *Storage
	tableName string
	schema    *tuple.Schema
}

func (h *HeapFile) TableName() string { return h.tableName }

func (h *HeapFile) Schema() *tuple.Schema { return h.schema }

func (h *HeapFile) NumPages() (uint64, error) {
	return h.storage.diskManager.NumPages(h.tableName)
}

func (h *HeapFile) ReadPage(pageId uint64) (*Page, error) {
	b, err := h.storage.diskManager.ReadPage(h.tableName, pageId)
	if err != nil {
		return nil, err
	}
	return DeserializePage(h.tableName, pageId, b, h.schema)
}

func (h *HeapFile) WritePage(page *Page) error {
	b, err := page.Serialize()
	if err != nil {
		return err
	}
	return h.storage.diskManager.WritePage(h.tableName, page.Id, b)
}

// InsertTuple stores values in the first free slot and returns its address.
func (h *HeapFile) InsertTuple(values []types.Value) (tuple.RID, error) {
	if _, err := tuple.NewTuple(h.schema, values); err != nil {
		return tuple.RID{}, err
	}

	numPages, err := h.NumPages()
	if err != nil {
		return tuple.RID{}, err
	}

	// TODO: keep a free-space map instead of probing every page
	var page *Page
	for id := uint64(0); id < numPages; id++ {
		p, err := h.ReadPage(id)
		if err != nil {
			return tuple.RID{}, err
		}
		if !p.Tuples.IsFull() {
			page = p
			break
		}
	}
	if page == nil {
		page = NewPage(h.tableName, numPages)
	}

	slot, _ := page.Tuples.FreeSlot()
	page.Tuples[slot] = &Record{Values: values}
	if err := h.WritePage(page); err != nil {
		return tuple.RID{}, err
	}

	return tuple.RID{PageId: page.Id, Slot: uint32(slot)}, nil
}

func (h *HeapFile) readRecord(rid tuple.RID) (*Page, *Record, error) {
	if rid.Slot >= TupleNumPerPage {
		return nil, nil, errors.Wrapf(TupleNotFoundError, "rid %s", rid)
	}
	page, err := h.ReadPage(rid.PageId)
	if errors.Is(err, common.ErrPageNotFound) {
		return nil, nil, errors.Wrapf(TupleNotFoundError, "rid %s", rid)
	}
	if err != nil {
		return nil, nil, err
	}
	r := page.Tuples[rid.Slot]
	if r == nil || r.IsDeleted {
		return nil, nil, errors.Wrapf(TupleNotFoundError, "rid %s", rid)
	}
	return page, r, nil
}

func (h *HeapFile) GetTuple(rid tuple.RID) (*tuple.Tuple, error) {
	_, r, err := h.readRecord(rid)
	if err != nil {
		return nil, err
	}
	return tuple.NewStoredTuple(h.schema, r.Values, rid), nil
}

func (h *HeapFile) UpdateTuple(rid tuple.RID, values []types.Value) error {
	if _, err := tuple.NewTuple(h.schema, values); err != nil {
		return err
	}
	page, r, err := h.readRecord(rid)
	if err != nil {
		return err
	}
	r.Values = values
	return h.WritePage(page)
}

func (h *HeapFile) DeleteTuple(rid tuple.RID) error {
	page, r, err := h.readRecord(rid)
	if err != nil {
		return err
	}
	r.IsDeleted = true
	return h.WritePage(page)
}

// OpenScan opens a sequential cursor over every live row.
func (h *HeapFile) OpenScan() (*HeapScan, error) {
	handle, err := h.storage.acquire(h.tableName)
	if err != nil {
		return nil, err
	}
	return &HeapScan{
		heap:   h,
		handle: handle,
	}, nil
}

type HeapScan struct {
	heap   *HeapFile
	handle *Handle

	page   *Page
	pageId uint64
	slot   int

	fetched   bool
	lookahead *tuple.Tuple
}

func (s *HeapScan) advance() error {
	s.fetched = true
	s.lookahead = nil

	for {
		if s.page == nil {
			numPages, err := s.heap.NumPages()
			if err != nil {
				return err
			}
			if s.pageId >= numPages {
				return nil
			}
			page, err := s.heap.ReadPage(s.pageId)
			if err != nil {
				return err
			}
			s.page = page
		}

		for s.slot < TupleNumPerPage {
			r := s.page.Tuples[s.slot]
			s.slot++
			if r == nil || r.IsDeleted {
				continue
			}
			rid := tuple.RID{PageId: s.pageId, Slot: uint32(s.slot - 1)}
			s.lookahead = tuple.NewStoredTuple(s.heap.schema, r.Values, rid)
			return nil
		}

		s.page = nil
		s.pageId++
		s.slot = 0
	}
}

func (s *HeapScan) HasNext() (bool, error) {
	if s.handle.GetState() == RELEASED {
		return false, nil
	}
	if !s.fetched {
		if err := s.advance(); err != nil {
			return false, err
		}
	}
	return s.lookahead != nil, nil
}

func (s *HeapScan) Next() (*tuple.Tuple, error) {
	ok, err := s.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(common.ErrExhausted, "scan of %s", s.heap.tableName)
	}
	t := s.lookahead
	s.fetched = false
	s.lookahead = nil
	return t, nil
}

// Restart moves the cursor back to the first row, reusing its handle.
func (s *HeapScan) Restart() error {
	if s.handle.GetState() == RELEASED {
		return errors.Newf("restart of closed scan on %s", s.heap.tableName)
	}
	s.page = nil
	s.pageId = 0
	s.slot = 0
	s.fetched = false
	s.lookahead = nil
	return nil
}

func (s *HeapScan) Close() error {
	s.handle.Release()
	s.page = nil
	s.lookahead = nil
	return nil
}
