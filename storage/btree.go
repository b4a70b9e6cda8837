package storage

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/sasha-s/go-deadlock"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

const (
	MaxItems = 2
)

var ItemAlreadyExistsError = errors.New("item already exists")

type Items []IndexItem

type Node struct {
	Items    Items
	Children []*Node
}

func (n *Node) insertRec(itm IndexItem) (*IndexItem, *Node, error) {
	if len(n.Children) > 0 {
		for i, item := range n.Items {
			if itm.Equal(item) {
				return nil, nil, ItemAlreadyExistsError
			}
			if itm.Less(item) {
				median, newNode, err := n.Children[i].insertRec(itm)
				if err != nil {
					return nil, nil, err
				}
				if newNode != nil {
					// move median to parent
					n.Items = append(n.Items[:i], append(Items{*median}, n.Items[i:]...)...)
					n.Children = append(n.Children[:i+1], append([]*Node{newNode}, n.Children[i+1:]...)...)
				}
				if len(n.Items) > MaxItems {
					newItem, newSplitNode := splitNode(n)
					return newItem, newSplitNode, nil
				}
				return nil, nil, nil
			}
		}
		// insert to last child recursively
		median, newNode, err := n.Children[len(n.Children)-1].insertRec(itm)
		if err != nil {
			return nil, nil, err
		}
		if newNode != nil {
			n.Items = append(n.Items, *median)
			n.Children = append(n.Children, newNode)
		}
		if len(n.Items) > MaxItems {
			newItem, newSplitNode := splitNode(n)
			return newItem, newSplitNode, nil
		}
		return nil, nil, nil
	}

	// insert item to leaf node
	alreadyInserted := false
	for i, item := range n.Items {
		if itm.Equal(item) {
			return nil, nil, ItemAlreadyExistsError
		}
		if itm.Less(item) {
			n.Items = append(n.Items[:i], append(Items{itm}, n.Items[i:]...)...)
			alreadyInserted = true
			break
		}
	}
	if !alreadyInserted {
		n.Items = append(n.Items, itm)
	}

	// leaf node is full
	if len(n.Items) > MaxItems {
		newItem, newSplitNode := splitNode(n)
		return newItem, newSplitNode, nil
	}

	return nil, nil, nil
}

func splitNode(n *Node) (*IndexItem, *Node) {
	middleIndex := len(n.Items) / 2
	median := n.Items[middleIndex]

	leftChildren := make([]*Node, 0)
	rightChildren := make([]*Node, 0)
	for i, child := range n.Children {
		if i <= middleIndex {
			leftChildren = append(leftChildren, child)
		} else {
			rightChildren = append(rightChildren, child)
		}
	}

	// both halves get their own backing arrays, later appends on the left
	// half must not run into the right one
	rightItems := make(Items, len(n.Items)-middleIndex-1)
	copy(rightItems, n.Items[middleIndex+1:])
	leftItems := make(Items, middleIndex)
	copy(leftItems, n.Items[:middleIndex])

	// right node
	newNode := &Node{
		Items:    rightItems,
		Children: rightChildren,
	}

	// left node
	n.Items = leftItems
	n.Children = leftChildren

	return &median, newNode
}

func (n *Node) find(itm IndexItem) *IndexItem {
	for i := range n.Items {
		if itm.Equal(n.Items[i]) {
			return &n.Items[i]
		}
		if itm.Less(n.Items[i]) {
			if len(n.Children) == 0 {
				return nil
			}
			return n.Children[i].find(itm)
		}
	}

	if len(n.Children) > 0 {
		return n.Children[len(n.Children)-1].find(itm)
	}

	return nil
}

// ascend visits items >= pivot in order until fn returns false. A nil pivot
// visits everything.
func (n *Node) ascend(pivot *IndexItem, fn func(IndexItem) bool) bool {
	for i, itm := range n.Items {
		if pivot != nil && itm.Less(*pivot) {
			continue
		}
		if len(n.Children) > 0 && !n.Children[i].ascend(pivot, fn) {
			return false
		}
		if !fn(itm) {
			return false
		}
	}

	if len(n.Children) > 0 {
		return n.Children[len(n.Children)-1].ascend(pivot, fn)
	}
	return true
}

// BTree is an ordered secondary index. Duplicate keys are allowed, entries
// are unique per (key, rid).
type BTree struct {
	Top       *Node
	TableName string
	IndexName string
	Mutex     deadlock.RWMutex `json:"-"`
}

func NewBTree(tableName string, indexName string) *BTree {
	return &BTree{
		Top:       nil,
		TableName: tableName,
		IndexName: indexName,
	}
}

func DeserializeBTree(data []byte) (*BTree, error) {
	b := &BTree{}
	err := json.Unmarshal(data, b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BTree) Table() string { return b.TableName }

func (b *BTree) Name() string { return b.IndexName }

func (b *BTree) Kind() IndexKind { return BTreeIndexKind }

func (b *BTree) Insert(key types.Value, rid tuple.RID) error {
	b.Mutex.Lock()
	defer b.Mutex.Unlock()

	itm := IndexItem{Key: key, RID: rid}
	if b.Top == nil {
		b.Top = &Node{
			Items:    Items{itm},
			Children: nil,
		}
		return nil
	}

	if existing := b.Top.find(itm); existing != nil {
		if !existing.IsSkip() {
			return ItemAlreadyExistsError
		}
		existing.Delete = false
		return nil
	}

	item, newNode, err := b.Top.insertRec(itm)
	if err != nil {
		return err
	}
	if newNode != nil {
		newRoot := &Node{
			Items:    Items{*item},
			Children: []*Node{b.Top, newNode},
		}
		b.Top = newRoot
	}

	return nil
}

// Delete tombstones the (key, rid) entry.
func (b *BTree) Delete(key types.Value, rid tuple.RID) bool {
	b.Mutex.Lock()
	defer b.Mutex.Unlock()

	if b.Top == nil {
		return false
	}
	existing := b.Top.find(IndexItem{Key: key, RID: rid})
	if existing == nil || existing.IsSkip() {
		return false
	}
	existing.Delete = true
	return true
}

func (b *BTree) Search(key types.Value) []tuple.RID {
	b.Mutex.RLock()
	defer b.Mutex.RUnlock()

	rids := make([]tuple.RID, 0)
	if b.Top == nil {
		return rids
	}

	pivot := IndexItem{Key: key}
	b.Top.ascend(&pivot, func(itm IndexItem) bool {
		if compareKeys(itm.Key, key) != 0 {
			return false
		}
		if !itm.IsSkip() {
			rids = append(rids, itm.RID)
		}
		return true
	})
	return rids
}

func (b *BTree) Ascend(fn func(key types.Value, rid tuple.RID) bool) {
	b.Mutex.RLock()
	defer b.Mutex.RUnlock()

	if b.Top == nil {
		return
	}
	b.Top.ascend(nil, func(itm IndexItem) bool {
		if itm.IsSkip() {
			return true
		}
		return fn(itm.Key, itm.RID)
	})
}
