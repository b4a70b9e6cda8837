package catalog

import (
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"tsumikidb/common"
	"tsumikidb/storage"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

const catalogFileName = "catalog.json"

var (
	TableSchemaNotFoundError = errors.Mark(errors.New("table schema not found"), common.ErrSchema)
	TableAlreadyExistsError  = errors.New("table already exists")
	IndexAlreadyExistsError  = errors.New("index already exists")
	IndexNotFoundError       = errors.Mark(errors.New("index not found"), common.ErrSchema)
)

// Reader is the read side of the catalog the planner depends on.
type Reader interface {
	GetSchema(tableName string) (*tuple.Schema, error)
	GetRecCount(tableName string) (uint64, error)
	GetIndexes(tableName string) []IndexDesc
}

type Catalog struct {
	TableSchemas TableSchemas

	mutex   deadlock.RWMutex
	storage *storage.Storage
	logger  *zap.Logger
}

// LoadCatalog reads the persisted catalog. A missing catalog file yields an
// empty catalog.
func LoadCatalog(st *storage.Storage, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{
		TableSchemas: TableSchemas{},
		storage:      st,
		logger:       logger,
	}

	err := st.ReadJson(catalogFileName, &c.TableSchemas)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("no catalog found, starting empty")
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	logger.Info("catalog loaded", zap.Int("tables", len(c.TableSchemas)))
	return c, nil
}

func (c *Catalog) Save() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.storage.WriteJson(catalogFileName, c.TableSchemas)
}

func (c *Catalog) Add(ts *TableSchema) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, err := c.TableSchemas.Get(ts.Name); err == nil {
		return errors.Wrapf(TableAlreadyExistsError, "%s", ts.Name)
	}
	c.TableSchemas = append(c.TableSchemas, *ts)
	return nil
}

func (c *Catalog) AddIndex(desc IndexDesc) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ts, err := c.TableSchemas.Get(desc.TableName)
	if err != nil {
		return errors.Wrapf(err, "%s", desc.TableName)
	}
	if _, ok := ts.Columns.Contains(desc.ColumnName); !ok {
		return common.SchemaErrorf("column %s not found in %s", desc.ColumnName, desc.TableName)
	}
	for _, ix := range ts.Indexes {
		if ix.IndexName == desc.IndexName {
			return errors.Wrapf(IndexAlreadyExistsError, "%s", desc.IndexName)
		}
	}
	ts.Indexes = append(ts.Indexes, desc)
	return nil
}

// DropIndex removes the named index of tableName.
func (c *Catalog) DropIndex(tableName string, indexName string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ts, err := c.TableSchemas.Get(tableName)
	if err != nil {
		return errors.Wrapf(err, "%s", tableName)
	}
	for i, ix := range ts.Indexes {
		if ix.IndexName == indexName {
			rest := make([]IndexDesc, 0, len(ts.Indexes)-1)
			rest = append(rest, ts.Indexes[:i]...)
			ts.Indexes = append(rest, ts.Indexes[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(IndexNotFoundError, "%s on %s", indexName, tableName)
}

// FindIndex looks an index up by name across all tables. The first table in
// creation order wins when two tables use the same index name.
func (c *Catalog) FindIndex(indexName string) (IndexDesc, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, ts := range c.TableSchemas {
		for _, ix := range ts.Indexes {
			if ix.IndexName == indexName {
				return ix, nil
			}
		}
	}
	return IndexDesc{}, errors.Wrapf(IndexNotFoundError, "%s", indexName)
}

func (c *Catalog) GetTable(tableName string) (*TableSchema, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ts, err := c.TableSchemas.Get(tableName)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", tableName)
	}
	cp := *ts
	return &cp, nil
}

func (c *Catalog) GetSchema(tableName string) (*tuple.Schema, error) {
	ts, err := c.GetTable(tableName)
	if err != nil {
		return nil, err
	}
	return ts.Schema(), nil
}

func (c *Catalog) GetIndexes(tableName string) []IndexDesc {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ts, err := c.TableSchemas.Get(tableName)
	if err != nil {
		return nil
	}
	out := make([]IndexDesc, len(ts.Indexes))
	copy(out, ts.Indexes)
	return out
}

func (c *Catalog) GetRecCount(tableName string) (uint64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ts, err := c.TableSchemas.Get(tableName)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", tableName)
	}
	return ts.RecCount, nil
}

func (c *Catalog) AdjustRecCount(tableName string, delta int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ts, err := c.TableSchemas.Get(tableName)
	if err != nil {
		return errors.Wrapf(err, "%s", tableName)
	}
	if delta < 0 && uint64(-delta) > ts.RecCount {
		ts.RecCount = 0
		return nil
	}
	ts.RecCount = uint64(int64(ts.RecCount) + delta)
	return nil
}

// TableNames lists the known tables in sorted order.
func (c *Catalog) TableNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	byName := make(map[string]struct{}, len(c.TableSchemas))
	for _, ts := range c.TableSchemas {
		byName[ts.Name] = struct{}{}
	}
	names := maps.Keys(byName)
	sort.Strings(names)
	return names
}

type TableSchemas []TableSchema

func (t TableSchemas) Get(name string) (*TableSchema, error) {
	for i := range t {
		if t[i].Name == name {
			return &t[i], nil
		}
	}
	return nil, TableSchemaNotFoundError
}

type TableSchema struct {
	Name     string
	Columns  ColumnSchemas
	Indexes  []IndexDesc
	RecCount uint64
}

func (ts *TableSchema) Schema() *tuple.Schema {
	cols := make([]tuple.Column, len(ts.Columns))
	for i, cs := range ts.Columns {
		cols[i] = tuple.Column{Table: ts.Name, Name: cs.Name, Type: cs.Type}
	}
	return tuple.NewSchema(cols...)
}

type ColumnSchemas []ColumnSchema

func (c ColumnSchemas) Contains(name string) (uint64, bool) {
	for i, cs := range c {
		if cs.Name == name {
			return uint64(i), true
		}
	}
	return 0, false
}

type ColumnSchema struct {
	Name string
	Type types.TypeID
}

// IndexDesc describes a secondary index over one column.
type IndexDesc struct {
	TableName  string
	ColumnName string
	IndexName  string
	Kind       storage.IndexKind
}
