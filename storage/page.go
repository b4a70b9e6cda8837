package storage

import (
	"encoding/binary"
	"strconv"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"tsumikidb/common"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

const (
	TupleNumPerPage = 32
	PageByteSize    = 4096
	SlotByteSize    = PageByteSize / TupleNumPerPage

	// each slot starts with the length of its encoded record
	slotHeaderSize = 2
)

// Record is the stored form of one row. Deleted records keep their slot until
// an insert reuses it.
type Record struct {
	Values    []types.Value
	IsDeleted bool
}

type Slots [TupleNumPerPage]*Record

func (s *Slots) FreeSlot() (int, bool) {
	for i, r := range s {
		if r == nil || r.IsDeleted {
			return i, true
		}
	}
	return 0, false
}

func (s *Slots) IsFull() bool {
	_, ok := s.FreeSlot()
	return !ok
}

type Page struct {
	TableName string
	Id        uint64
	Tuples    Slots
}

func NewPage(tableName string, id uint64) *Page {
	return &Page{
		TableName: tableName,
		Id:        id,
	}
}

// encodeRecord lays a record out as a protobuf ListValue of
// [deleted, v1, ..., vn]. Integers travel as decimal strings so they keep
// full 64-bit precision.
func encodeRecord(r *Record) ([]byte, error) {
	vals := make([]*structpb.Value, 0, len(r.Values)+1)
	vals = append(vals, structpb.NewBoolValue(r.IsDeleted))
	for _, v := range r.Values {
		switch v.ValueType() {
		case types.Integer:
			vals = append(vals, structpb.NewStringValue(strconv.FormatInt(v.ToInteger(), 10)))
		case types.Float:
			vals = append(vals, structpb.NewNumberValue(v.ToFloat()))
		case types.Varchar:
			vals = append(vals, structpb.NewStringValue(v.ToVarchar()))
		default:
			return nil, errors.Newf("cannot store value of type %s", v.ValueType())
		}
	}
	return proto.Marshal(&structpb.ListValue{Values: vals})
}

func decodeRecord(b []byte, schema *tuple.Schema) (*Record, error) {
	lv := &structpb.ListValue{}
	if err := proto.Unmarshal(b, lv); err != nil {
		return nil, err
	}
	if len(lv.Values) != schema.Count()+1 {
		return nil, errors.Newf("record arity mismatch. schema: %d, stored: %d", schema.Count(), len(lv.Values)-1)
	}

	r := &Record{
		IsDeleted: lv.Values[0].GetBoolValue(),
		Values:    make([]types.Value, schema.Count()),
	}
	for i, pv := range lv.Values[1:] {
		switch schema.Column(i).Type {
		case types.Integer:
			n, err := strconv.ParseInt(pv.GetStringValue(), 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "decode column %s", schema.Column(i).Name)
			}
			r.Values[i] = types.NewInteger(n)
		case types.Float:
			r.Values[i] = types.NewFloat(pv.GetNumberValue())
		case types.Varchar:
			r.Values[i] = types.NewVarchar(pv.GetStringValue())
		default:
			return nil, errors.Newf("unknown column type for %s", schema.Column(i).Name)
		}
	}
	return r, nil
}

func (p *Page) Serialize() ([PageByteSize]byte, error) {
	pageBytes := [PageByteSize]byte{}

	for i, r := range p.Tuples {
		if r == nil {
			continue
		}
		b, err := encodeRecord(r)
		if err != nil {
			return [PageByteSize]byte{}, err
		}
		if len(b) > SlotByteSize-slotHeaderSize {
			return [PageByteSize]byte{}, errors.Wrapf(common.ErrTupleTooLarge, "%d bytes", len(b))
		}

		slot := pageBytes[i*SlotByteSize : (i+1)*SlotByteSize]
		binary.LittleEndian.PutUint16(slot, uint16(len(b)))
		copy(slot[slotHeaderSize:], b)
	}

	return pageBytes, nil
}

func DeserializePage(tableName string, pageId uint64, pageBytes [PageByteSize]byte, schema *tuple.Schema) (*Page, error) {
	page := NewPage(tableName, pageId)

	for i := 0; i < TupleNumPerPage; i++ {
		slot := pageBytes[i*SlotByteSize : (i+1)*SlotByteSize]
		byteLen := int(binary.LittleEndian.Uint16(slot))
		if byteLen == 0 {
			continue
		}
		if byteLen > SlotByteSize-slotHeaderSize {
			return nil, errors.Newf("corrupt slot %d on %s page %d", i, tableName, pageId)
		}

		r, err := decodeRecord(slot[slotHeaderSize:slotHeaderSize+byteLen], schema)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d on %s page %d", i, tableName, pageId)
		}
		page.Tuples[i] = r
	}

	return page, nil
}
